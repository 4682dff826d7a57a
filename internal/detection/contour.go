package detection

import (
	"image"
	"math"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is the closed outer boundary of one connected shape.
//
// Points are boundary pixel centres in tracing order (clockwise on screen,
// starting at the topmost-leftmost pixel). The last point connects back to
// the first; it is not repeated.
type Contour struct {
	// Points is the boundary chain.
	Points []Point `json:"points"`

	// Bounds is the bounding box of the component that produced the contour,
	// in image coordinates, Max exclusive.
	Bounds image.Rectangle `json:"-"`
}

// Area returns the enclosed polygon area (shoelace formula) in square pixels.
func (c Contour) Area() float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	sum := 0
	for i, p := range c.Points {
		q := c.Points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the length of the closed chain in pixels. Axis steps
// count 1 and diagonal steps count √2.
func (c Contour) Perimeter() float64 {
	n := len(c.Points)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i, p := range c.Points {
		q := c.Points[(i+1)%n]
		total += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return total
}

// Centroid returns the mean boundary position, a cheap interior sample point
// for convex shapes.
func (c Contour) Centroid() Point {
	if len(c.Points) == 0 {
		return Point{}
	}
	sx, sy := 0, 0
	for _, p := range c.Points {
		sx += p.X
		sy += p.Y
	}
	n := len(c.Points)
	return Point{X: sx / n, Y: sy / n}
}

// DefaultMinArea is the smallest contour area kept by the analyzer.
const DefaultMinArea = 300.0

// Moore neighbourhood in clockwise screen order (Y grows downward):
// E, SE, S, SW, W, NW, N, NE.
var neighbours = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

const dirWest = 4

// ExtractContours finds the outer boundary of every shape in a binary edge
// map.
//
// Parameters:
//   - edges: Binary edge image; pixels above 127 are edges.
//   - minArea: Contours whose enclosed area is not strictly greater than this
//     are dropped as noise.
//
// Returns contours ordered by the raster position of their topmost-leftmost
// pixel. The result is never nil.
//
// # Algorithm
//
//  1. Background: flood 4-connected non-edge pixels inward from the image
//     border. Everything not reached is part of a shape (outline or the
//     region it encloses).
//  2. Components: group remaining pixels into 8-connected components.
//  3. Tracing: walk each component's outer boundary with Moore-neighbour
//     tracing, stopping when the start pixel is re-entered in the direction
//     of the first move.
//
// Holes inside a component are never traced, so only external contours are
// produced.
func ExtractContours(edges *image.Gray, minArea float64) []Contour {
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	contours := make([]Contour, 0)
	if width == 0 || height == 0 {
		return contours
	}

	isEdge := func(x, y int) bool {
		return edges.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y > 127
	}

	// labels: 0 = unassigned shape pixel, -1 = background, >0 = component id
	labels := make([]int, width*height)
	floodBackground(labels, width, height, isEdge)

	next := 1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels[y*width+x] != 0 {
				continue
			}
			size, box := labelComponent(labels, width, height, x, y, next)
			pts := traceBoundary(labels, width, height, Point{X: x, Y: y}, next, 4*size+8)
			next++

			for i := range pts {
				pts[i].X += bounds.Min.X
				pts[i].Y += bounds.Min.Y
			}
			c := Contour{
				Points: pts,
				Bounds: box.Add(bounds.Min),
			}
			if c.Area() > minArea {
				contours = append(contours, c)
			}
		}
	}

	return contours
}

// floodBackground marks every non-edge pixel 4-connected to the border
// with -1. Uses an explicit stack to avoid deep recursion on large images.
func floodBackground(labels []int, width, height int, isEdge func(x, y int) bool) {
	stack := make([]Point, 0, 2*(width+height))
	push := func(x, y int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		i := y*width + x
		if labels[i] != 0 || isEdge(x, y) {
			return
		}
		labels[i] = -1
		stack = append(stack, Point{X: x, Y: y})
	}

	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
}

// labelComponent assigns id to the 8-connected component containing
// (startX, startY) and returns its pixel count and bounding box.
func labelComponent(labels []int, width, height, startX, startY, id int) (int, image.Rectangle) {
	stack := []Point{{X: startX, Y: startY}}
	labels[startY*width+startX] = id
	box := image.Rect(startX, startY, startX+1, startY+1)
	size := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		box = box.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

		for _, d := range neighbours {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			if labels[ny*width+nx] != 0 {
				continue
			}
			labels[ny*width+nx] = id
			stack = append(stack, Point{X: nx, Y: ny})
		}
	}
	return size, box
}

// traceBoundary walks the outer boundary of component id clockwise from
// start, which must be its topmost-leftmost pixel. maxSteps bounds the walk.
func traceBoundary(labels []int, width, height int, start Point, id, maxSteps int) []Point {
	inside := func(p Point) bool {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return false
		}
		return labels[p.Y*width+p.X] == id
	}

	pts := []Point{start}
	cur := start
	back := dirWest
	first := -1

	for step := 0; step < maxSteps; step++ {
		dir := -1
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			if inside(Point{X: cur.X + neighbours[d].X, Y: cur.Y + neighbours[d].Y}) {
				dir = d
				break
			}
		}
		if dir < 0 {
			// isolated pixel
			break
		}
		if cur == start && dir == first {
			break
		}
		if first < 0 {
			first = dir
		}

		cur = Point{X: cur.X + neighbours[dir].X, Y: cur.Y + neighbours[dir].Y}
		pts = append(pts, cur)

		// The last background pixel examined becomes the new backtrack.
		if dir%2 == 0 {
			back = (dir + 6) % 8
		} else {
			back = (dir + 5) % 8
		}
	}

	if len(pts) > 1 && pts[len(pts)-1] == start {
		pts = pts[:len(pts)-1]
	}
	return pts
}
