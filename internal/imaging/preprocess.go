package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// PreprocessOptions controls the filter chain run before contour extraction.
type PreprocessOptions struct {
	// BlurSigma is the Gaussian blur radius. Zero disables blurring.
	BlurSigma float64

	// CannyLow and CannyHigh are the hysteresis thresholds (0-255 scale).
	CannyLow  int
	CannyHigh int

	// CloseRadius is the morphological close radius applied to the edge map.
	// Zero disables closing.
	CloseRadius float64
}

// DefaultPreprocessOptions returns the settings used by the analyze command:
// a 9x9-equivalent blur, Canny 50/120 and a 3x3 close.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		BlurSigma:   1.7,
		CannyLow:    50,
		CannyHigh:   120,
		CloseRadius: 1,
	}
}

// Preprocessed holds the intermediate images of the filter chain.
type Preprocessed struct {
	// Gray is the unblurred luminance image.
	Gray *image.Gray

	// Edges is the binary edge map (255 = edge) after closing.
	Edges *image.Gray
}

// Preprocess converts img to grayscale, smooths it, detects edges and closes
// small gaps in the edge map so object outlines form closed curves.
func Preprocess(img image.Image, opts PreprocessOptions) *Preprocessed {
	gray := toGray(effect.Grayscale(img))

	smoothed := gray
	if opts.BlurSigma > 0 {
		smoothed = toGray(blur.Gaussian(gray, opts.BlurSigma))
	}

	edges := Canny(smoothed, opts.CannyLow, opts.CannyHigh)

	if opts.CloseRadius > 0 {
		closed := effect.Erode(effect.Dilate(edges, opts.CloseRadius), opts.CloseRadius)
		edges = toGray(closed)
	}

	return &Preprocessed{Gray: gray, Edges: edges}
}

// toGray copies img into a single-channel image with the same bounds. bild
// filters return RGBA even for gray input.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}
