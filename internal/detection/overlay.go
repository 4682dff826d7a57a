package detection

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Overlay draws every assigned contour over a copy of img, filled with the
// colour of its group and outlined in black.
//
// assignment maps a contour index to a group number; contours without an
// entry are outlined only. Group numbers index into palette modulo its
// length. img itself is not modified.
func Overlay(img image.Image, contours []Contour, assignment map[int]int, palette []color.Color) image.Image {
	dc := gg.NewContextForImage(img)

	for i, c := range contours {
		if len(c.Points) < 3 {
			continue
		}
		tracePath(dc, c)

		if g, ok := assignment[i]; ok && len(palette) > 0 {
			dc.SetColor(withAlpha(palette[g%len(palette)], 200))
			dc.FillPreserve()
		}
		dc.SetColor(color.Black)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	return dc.Image()
}

func tracePath(dc *gg.Context, c Contour) {
	dc.NewSubPath()
	for i, p := range c.Points {
		x, y := float64(p.X)+0.5, float64(p.Y)+0.5
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func withAlpha(c color.Color, a uint8) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}
