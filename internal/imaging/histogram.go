package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/fogleman/gg"
)

// ChannelHistogram is a normalized 256-bin intensity histogram. Bins sum to
// 1 for a non-empty image.
type ChannelHistogram struct {
	Name  string      `json:"name"`
	Color color.Color `json:"-"`
	Bins  []float64   `json:"bins"`
}

// Histogram returns normalized red, green and blue histograms of img.
func Histogram(img image.Image) []ChannelHistogram {
	h := histogram.NewRGBAHistogram(img)
	return []ChannelHistogram{
		{Name: "Red", Color: color.RGBA{220, 40, 40, 255}, Bins: normalize(h.R.Bins)},
		{Name: "Green", Color: color.RGBA{40, 160, 40, 255}, Bins: normalize(h.G.Bins)},
		{Name: "Blue", Color: color.RGBA{40, 40, 220, 255}, Bins: normalize(h.B.Bins)},
	}
}

// GrayHistogram returns the normalized luminance histogram of gray.
func GrayHistogram(gray *image.Gray) ChannelHistogram {
	h := histogram.NewRGBAHistogram(gray)
	return ChannelHistogram{Name: "Gray", Color: color.Black, Bins: normalize(h.R.Bins)}
}

func normalize(bins []int) []float64 {
	out := make([]float64, len(bins))
	total := 0
	for _, b := range bins {
		total += b
	}
	if total == 0 {
		return out
	}
	for i, b := range bins {
		out[i] = float64(b) / float64(total)
	}
	return out
}

// Chart layout in pixels.
const (
	chartWidth   = 1000
	chartHeight  = 500
	chartPadding = 50
)

// PlotHistogram renders one or more channel histograms as a line chart and
// writes it to path as PNG.
func PlotHistogram(path, title string, channels []ChannelHistogram) error {
	dc := newChart(title, "Pixel value", "Normalized frequency")

	peak := 0.0
	for _, ch := range channels {
		for _, v := range ch.Bins {
			peak = math.Max(peak, v)
		}
	}
	if peak == 0 {
		peak = 1
	}

	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)

	for li, ch := range channels {
		if len(ch.Bins) == 0 {
			continue
		}
		dc.SetColor(ch.Color)
		dc.SetLineWidth(2)
		for i, v := range ch.Bins {
			x := chartPadding + plotW*float64(i)/float64(len(ch.Bins)-1)
			y := chartHeight - chartPadding - plotH*v/peak
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()

		if len(channels) > 1 {
			ly := float64(chartPadding + 15 + li*16)
			dc.DrawStringAnchored(ch.Name, chartWidth-chartPadding-5, ly, 1, 0.5)
		}
	}

	return Save(path, dc.Image())
}

// PlotRatioHistogram renders a stacked bar chart of ratio values, one colour
// per group, and writes it to path as PNG.
func PlotRatioHistogram(path string, groups [][]float64, colors []color.Color, bins int) error {
	if bins <= 0 {
		return fmt.Errorf("bins must be positive, got %d", bins)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	dc := newChart("Shape ratio distribution (P²/A)", "Ratio", "Count")
	if math.IsInf(lo, 1) {
		return Save(path, dc.Image())
	}
	if hi == lo {
		hi = lo + 1
	}

	counts := make([][]int, len(groups))
	peak := 0
	totals := make([]int, bins)
	for gi, g := range groups {
		counts[gi] = make([]int, bins)
		for _, v := range g {
			b := int(float64(bins) * (v - lo) / (hi - lo))
			if b >= bins {
				b = bins - 1
			}
			counts[gi][b]++
			totals[b]++
			if totals[b] > peak {
				peak = totals[b]
			}
		}
	}

	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)
	barW := plotW / float64(bins)

	for b := 0; b < bins; b++ {
		base := float64(chartHeight - chartPadding)
		for gi := range groups {
			if counts[gi][b] == 0 {
				continue
			}
			h := plotH * float64(counts[gi][b]) / float64(peak)
			dc.SetColor(colors[gi%len(colors)])
			dc.DrawRectangle(chartPadding+barW*float64(b)+1, base-h, barW-2, h)
			dc.Fill()
			base -= h
		}
	}

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", lo), chartPadding, chartHeight-chartPadding+15, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", hi), chartWidth-chartPadding, chartHeight-chartPadding+15, 0.5, 0.5)

	return Save(path, dc.Image())
}

// newChart prepares a white canvas with axes, a title and axis labels.
func newChart(title, xLabel, yLabel string) *gg.Context {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(chartPadding, chartHeight-chartPadding, chartWidth-chartPadding, chartHeight-chartPadding)
	dc.DrawLine(chartPadding, chartPadding, chartPadding, chartHeight-chartPadding)
	dc.Stroke()

	dc.DrawStringAnchored(title, chartWidth/2, chartPadding/2, 0.5, 0.5)
	dc.DrawStringAnchored(xLabel, chartWidth/2, chartHeight-chartPadding/3, 0.5, 0.5)

	dc.Push()
	dc.RotateAbout(gg.Radians(-90), chartPadding/3, chartHeight/2)
	dc.DrawStringAnchored(yLabel, chartPadding/3, chartHeight/2, 0.5, 0.5)
	dc.Pop()

	return dc
}
