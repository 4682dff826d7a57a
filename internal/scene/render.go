package scene

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Render draws the records of a generation run onto a fresh canvas filled
// with background. Shapes are drawn in placement order.
func Render(res *Result, background color.Color) image.Image {
	dc := gg.NewContext(res.Width, res.Height)
	dc.SetColor(background)
	dc.Clear()

	for _, r := range res.Records {
		dc.SetRGB255(int(r.Color.R), int(r.Color.G), int(r.Color.B))
		switch r.Kind {
		case KindCircle:
			dc.DrawCircle(float64(r.Center.X), float64(r.Center.Y), float64(r.Size))
			dc.Fill()
		default:
			FillPolygon(dc, r.Polygon)
		}
	}

	return dc.Image()
}

// FillPolygon fills a closed polygon with the context's current colour.
// Polygons with fewer than three vertices are ignored.
func FillPolygon(dc *gg.Context, pts []Point) {
	if len(pts) < 3 {
		return
	}
	dc.NewSubPath()
	dc.MoveTo(float64(pts[0].X), float64(pts[0].Y))
	for _, p := range pts[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.ClosePath()
	dc.Fill()
}
