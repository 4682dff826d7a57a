// Package analysis runs the image-to-report pipeline shared by the analyze
// command and the MCP server: preprocess, extract contours, describe, group.
package analysis

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/shapekit/internal/detection"
	"github.com/ironsheep/shapekit/internal/imaging"
	"github.com/ironsheep/shapekit/internal/report"
	"github.com/ironsheep/shapekit/internal/shapes"
)

// Options configures one analysis run.
type Options struct {
	Mode       report.Mode
	Threshold  float64
	MinArea    float64
	Preprocess imaging.PreprocessOptions
}

// DefaultOptions returns cluster mode with the default threshold and
// filter chain.
func DefaultOptions() Options {
	return Options{
		Mode:       report.ModeCluster,
		Threshold:  shapes.DefaultThreshold,
		MinArea:    detection.DefaultMinArea,
		Preprocess: imaging.DefaultPreprocessOptions(),
	}
}

// Result carries the report plus the intermediates needed for visual output.
type Result struct {
	Report      *report.Report
	Source      image.Image
	Stages      *imaging.Preprocessed
	Contours    []detection.Contour
	Descriptors []shapes.Descriptor
}

// Run analyzes img. ctx is checked between stages so a cancelled run stops
// early.
func Run(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("%w: %v", shapes.ErrInvalidThreshold, opts.Threshold)
	}

	stages := imaging.Preprocess(img, opts.Preprocess)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contours := detection.ExtractContours(stages.Edges, opts.MinArea)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	descs := detection.Describe(contours)
	rep, err := Group(descs, opts.Mode, opts.Threshold)
	if err != nil {
		return nil, err
	}
	rep.SetColors(func(index int) string {
		return detection.SampleColor(img, contours[index])
	})

	return &Result{
		Report:      rep,
		Source:      img,
		Stages:      stages,
		Contours:    contours,
		Descriptors: descs,
	}, nil
}

// Group runs the selected grouping strategy over descriptors.
func Group(descs []shapes.Descriptor, mode report.Mode, threshold float64) (*report.Report, error) {
	switch mode {
	case report.ModeClassify:
		labels, byCategory := shapes.ClassifyAll(descs)
		return report.FromClassification(labels, byCategory), nil
	case report.ModeCluster, "":
		clusters, err := shapes.Cluster(descs, threshold)
		if err != nil {
			return nil, err
		}
		return report.FromClusters(clusters, threshold), nil
	}
	return nil, fmt.Errorf("unknown grouping mode %q", mode)
}

// Overlay paints each grouped contour in its group's palette colour over
// the source image.
func (r *Result) Overlay() image.Image {
	palette := imaging.AsColors(imaging.Palette(len(r.Report.Groups)))
	return detection.Overlay(r.Source, r.Contours, r.Report.Assignment(), palette)
}

// GroupRatios returns member ratios per report group, in group order.
func (r *Result) GroupRatios() [][]float64 {
	ratio := make(map[int]float64, len(r.Descriptors))
	for _, d := range r.Descriptors {
		ratio[d.Index] = d.Ratio
	}
	out := make([][]float64, len(r.Report.Groups))
	for gi, g := range r.Report.Groups {
		out[gi] = make([]float64, 0, len(g.Members))
		for _, idx := range g.Members {
			out[gi] = append(out[gi], ratio[idx])
		}
	}
	return out
}
