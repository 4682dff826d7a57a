package detection

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/shapekit/internal/shapes"
)

// Measure returns the raw (area, perimeter) pair of every contour, in
// contour order.
func Measure(contours []Contour) []shapes.Measurement {
	out := make([]shapes.Measurement, len(contours))
	for i, c := range contours {
		out[i] = shapes.Measurement{Area: c.Area(), Perimeter: c.Perimeter()}
	}
	return out
}

// Describe turns contours into shape descriptors. Degenerate contours are
// dropped; each descriptor's Index is the position of its contour.
func Describe(contours []Contour) []shapes.Descriptor {
	return shapes.Filter(Measure(contours))
}

// SampleColor returns the hex colour (#rrggbb) of img at the contour's
// centroid. Empty contours and centroids outside img yield "".
func SampleColor(img image.Image, c Contour) string {
	if len(c.Points) == 0 {
		return ""
	}
	p := c.Centroid()
	if !(image.Point{X: p.X, Y: p.Y}).In(img.Bounds()) {
		return ""
	}
	col, ok := colorful.MakeColor(img.At(p.X, p.Y))
	if !ok {
		// fully transparent
		return ""
	}
	return col.Hex()
}
