package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestDescribe_DropsDegenerate(t *testing.T) {
	contours := []Contour{
		{Points: []Point{{0, 0}, {20, 0}, {20, 20}, {0, 20}}},
		{Points: []Point{{0, 0}, {5, 0}}},
		{Points: []Point{{0, 0}, {30, 0}, {0, 30}}},
	}

	descs := Describe(contours)
	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descs))
	}
	if descs[0].Index != 0 || descs[1].Index != 2 {
		t.Errorf("indices should point back at contours: got %d, %d", descs[0].Index, descs[1].Index)
	}
	if descs[0].Ratio != 16 {
		t.Errorf("square ratio: got %v, want 16", descs[0].Ratio)
	}
}

func TestMeasure_KeepsAll(t *testing.T) {
	contours := []Contour{
		{Points: []Point{{1, 1}}},
		{Points: []Point{{0, 0}, {4, 0}, {0, 3}}},
	}
	m := Measure(contours)
	if len(m) != 2 {
		t.Fatalf("expected 2 measurements, got %d", len(m))
	}
	if m[0].Area != 0 || m[1].Area != 6 || m[1].Perimeter != 12 {
		t.Errorf("unexpected measurements: %+v", m)
	}
}

func TestSampleColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.White)
		}
	}
	for y := 10; y <= 30; y++ {
		for x := 10; x <= 30; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	c := Contour{Points: []Point{{10, 10}, {30, 10}, {30, 30}, {10, 30}}}
	if got := SampleColor(img, c); got != "#ff0000" {
		t.Errorf("SampleColor: got %q, want #ff0000", got)
	}

	if got := SampleColor(img, Contour{}); got != "" {
		t.Errorf("empty contour: got %q", got)
	}
	outside := Contour{Points: []Point{{100, 100}}}
	if got := SampleColor(img, outside); got != "" {
		t.Errorf("contour outside image: got %q", got)
	}
}

func TestOverlay(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	contours := []Contour{
		{Points: []Point{{10, 10}, {30, 10}, {30, 30}, {10, 30}}},
		{Points: []Point{{40, 40}, {55, 40}, {55, 55}, {40, 55}}},
	}
	palette := []color.Color{color.RGBA{255, 0, 0, 255}}

	out := Overlay(img, contours, map[int]int{0: 0}, palette)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("overlay bounds: got %v", out.Bounds())
	}

	r, g, _, _ := out.At(20, 20).RGBA()
	if r>>8 < 200 || g>>8 > 100 {
		t.Errorf("assigned contour should be tinted red, got r=%d g=%d", r>>8, g>>8)
	}

	// unassigned contour keeps its interior
	r, g, _, _ = out.At(47, 47).RGBA()
	if r>>8 != 255 || g>>8 != 255 {
		t.Errorf("unassigned interior should stay white, got r=%d g=%d", r>>8, g>>8)
	}

	if img.RGBAAt(20, 20) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("source image was modified")
	}
}
