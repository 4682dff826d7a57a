package scene

import (
	"fmt"
	"math"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BBox is an axis-aligned bounding box with inclusive corners.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Expand grows the box by margin on every side.
func (b BBox) Expand(margin int) BBox {
	return BBox{
		X1: b.X1 - margin,
		Y1: b.Y1 - margin,
		X2: b.X2 + margin,
		Y2: b.Y2 + margin,
	}
}

// Overlaps reports whether two boxes share at least one point. Boxes that
// only touch along an edge overlap.
func (b BBox) Overlaps(o BBox) bool {
	return !(b.X2 < o.X1 || b.X1 > o.X2 || b.Y2 < o.Y1 || b.Y1 > o.Y2)
}

// DefaultCollisionMargin is the padding Collides callers use when they
// have no generation-specific margin.
const DefaultCollisionMargin = 10

// Collides expands candidate by margin and reports whether it overlaps any
// of the occupied boxes. Occupied boxes are not expanded.
func Collides(occupied []BBox, candidate BBox, margin int) bool {
	padded := candidate.Expand(margin)
	for _, o := range occupied {
		if padded.Overlaps(o) {
			return true
		}
	}
	return false
}

// Color is an 8-bit RGB fill colour.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the colour as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RotatePoints rotates points by angleDeg degrees about center.
//
// Each point is translated to the origin, rotated with
//
//	x' = x·cosθ − y·sinθ
//	y' = x·sinθ + y·cosθ
//
// and translated back. Results are truncated toward zero, which biases
// vertices slightly toward the origin.
//
// TODO: switch to math.Round once outputs no longer need to match existing
// generated image sets.
func RotatePoints(points []Point, angleDeg float64, center Point) []Point {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	cx := float64(center.X)
	cy := float64(center.Y)

	rotated := make([]Point, len(points))
	for i, p := range points {
		x := float64(p.X) - cx
		y := float64(p.Y) - cy

		xNew := x*cos - y*sin + cx
		yNew := x*sin + y*cos + cy

		rotated[i] = Point{X: int(xNew), Y: int(yNew)}
	}
	return rotated
}

// squareCorners returns the unrotated corners of an axis-aligned square of
// the given side centred on c, clockwise from the top-left.
func squareCorners(c Point, side int) []Point {
	x := c.X - side/2
	y := c.Y - side/2
	return []Point{
		{x, y},
		{x + side, y},
		{x + side, y + side},
		{x, y + side},
	}
}

// triangleHeight is side·√3/2 truncated to whole pixels.
func triangleHeight(side int) int {
	return int(float64(side) * math.Sqrt(3) / 2)
}

// triangleCorners returns the apex and base corners of an upright
// equilateral triangle with its centroid on c.
func triangleCorners(c Point, side int) []Point {
	h := triangleHeight(side)
	return []Point{
		{c.X, c.Y - 2*h/3},
		{c.X - side/2, c.Y + h/3},
		{c.X + side/2, c.Y + h/3},
	}
}

// squareDiagonal is the side of the box that holds a square of any rotation.
func squareDiagonal(side int) int {
	return int(math.Sqrt(float64(2 * side * side)))
}

// triangleDiagonal is the side of the box reserved for a rotated triangle.
func triangleDiagonal(side int) int {
	h := triangleHeight(side)
	return int(math.Sqrt(float64(side*side + h*h)))
}
