package analysis

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/shapekit/internal/imaging"
	"github.com/ironsheep/shapekit/internal/report"
)

// Artifact file names written into the output directory.
const (
	ResultImageFile       = "result_image.png"
	EdgesImageFile        = "edges.png"
	PanelImageFile        = "summary_panel.png"
	HistogramOriginalFile = "histogram_original.png"
	HistogramGrayFile     = "histogram_grayscale.png"
	RatioHistogramFile    = "ratio_histogram.png"
)

const panelCell = 480

type namedImage struct {
	name string
	img  image.Image
}

// SaveOptions selects optional artifacts.
type SaveOptions struct {
	Histograms bool
	Panel      bool
}

// Save writes the report files, the overlay and the edge map into dir, plus
// any optional artifacts, and returns every written path in order.
func (r *Result) Save(dir string, opts SaveOptions) ([]string, error) {
	paths, err := report.SaveFiles(dir, r.Report)
	if err != nil {
		return paths, err
	}

	overlay := r.Overlay()
	images := []namedImage{
		{ResultImageFile, overlay},
		{EdgesImageFile, r.Stages.Edges},
	}
	if opts.Panel {
		panel := imaging.Panel([]image.Image{r.Source, r.Stages.Gray, r.Stages.Edges, overlay}, 2, panelCell, panelCell)
		images = append(images, namedImage{PanelImageFile, panel})
	}
	for _, it := range images {
		path := filepath.Join(dir, it.name)
		if err := imaging.Save(path, it.img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if !opts.Histograms {
		return paths, nil
	}

	charts := []struct {
		name string
		plot func(path string) error
	}{
		{HistogramOriginalFile, func(p string) error {
			return imaging.PlotHistogram(p, "Original Image - Normalized Histogram", imaging.Histogram(r.Source))
		}},
		{HistogramGrayFile, func(p string) error {
			return imaging.PlotHistogram(p, "Grayscale Image - Normalized Histogram",
				[]imaging.ChannelHistogram{imaging.GrayHistogram(r.Stages.Gray)})
		}},
		{RatioHistogramFile, func(p string) error {
			colors := imaging.AsColors(imaging.Palette(len(r.Report.Groups)))
			return imaging.PlotRatioHistogram(p, r.GroupRatios(), colors, 30)
		}},
	}
	for _, c := range charts {
		path := filepath.Join(dir, c.name)
		if err := c.plot(path); err != nil {
			return paths, fmt.Errorf("failed to plot %s: %w", c.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
