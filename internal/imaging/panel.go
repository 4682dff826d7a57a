package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Panel tiles images into a grid of cols columns. Each image is scaled to
// fit a cellWidth×cellHeight cell (aspect preserved) and centred on a white
// background.
func Panel(images []image.Image, cols, cellWidth, cellHeight int) *image.NRGBA {
	if cols <= 0 {
		cols = 1
	}
	rows := (len(images) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}

	dst := imaging.New(cols*cellWidth, rows*cellHeight, color.White)
	for i, img := range images {
		if img == nil {
			continue
		}
		cell := imaging.Fit(img, cellWidth, cellHeight, imaging.Lanczos)
		x := (i%cols)*cellWidth + (cellWidth-cell.Bounds().Dx())/2
		y := (i/cols)*cellHeight + (cellHeight-cell.Bounds().Dy())/2
		dst = imaging.Paste(dst, cell, image.Pt(x, y))
	}
	return dst
}
