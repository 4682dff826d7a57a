package imaging

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads successive hues so neighbouring indices never look alike.
const goldenAngle = 137.50776405003785

// Palette returns n visually distinct, saturated colours. The colour for a
// given index does not depend on n, so group 3 keeps its colour whether an
// image produced 4 groups or 40.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		out[i] = colorful.Hsv(hue, 0.85, 0.95).Clamped()
	}
	return out
}

// AsColors converts palette entries for APIs that take image/color values.
func AsColors(p []colorful.Color) []color.Color {
	out := make([]color.Color, len(p))
	for i, c := range p {
		out[i] = c
	}
	return out
}
