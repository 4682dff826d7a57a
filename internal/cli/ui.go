package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ironsheep/shapekit/internal/report"
	"github.com/ironsheep/shapekit/internal/scene"
	"github.com/ironsheep/shapekit/internal/shapes"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return styleCell.Foreground(colorCyan)
			}
			return styleCell
		})
}

// groupTable renders one row per non-empty group of r. Classification
// reports also show each category's reference ratio.
func groupTable(r *report.Report) string {
	classify := r.Mode == report.ModeClassify
	headers := []string{"Group", "Count", "Avg P²/A", "Min", "Max", "Std", "Avg scale"}
	if classify {
		headers = append(headers, "Reference")
	}

	t := newTable(headers...)
	for _, g := range r.Groups {
		st := g.Stats
		if st.Count == 0 {
			continue
		}
		scale := "-"
		if st.Count > 1 {
			scale = fmt.Sprintf("%.2fx", st.AvgScale)
		}
		row := []string{
			g.Label,
			strconv.Itoa(st.Count),
			fmt.Sprintf("%.2f", st.AvgRatio),
			fmt.Sprintf("%.2f", st.MinRatio),
			fmt.Sprintf("%.2f", st.MaxRatio),
			fmt.Sprintf("%.2f", st.StdRatio),
			scale,
		}
		if classify {
			ref := "-"
			if v, ok := shapes.ReferenceRatio(shapes.Category(g.Label)); ok {
				ref = fmt.Sprintf("%.2f", v)
			}
			row = append(row, ref)
		}
		t.Row(row...)
	}
	return t.Render()
}

// placementTable renders requested, placed and skipped counts per kind.
func placementTable(s scene.Stats) string {
	t := newTable("Kind", "Requested", "Placed", "Skipped", "Attempts")
	rows := []struct {
		kind scene.Kind
		ks   scene.KindStats
	}{
		{scene.KindCircle, s.Circles},
		{scene.KindSquare, s.Squares},
		{scene.KindTriangle, s.Triangles},
	}
	for _, r := range rows {
		t.Row(
			string(r.kind),
			strconv.Itoa(r.ks.Requested),
			strconv.Itoa(r.ks.Placed),
			strconv.Itoa(r.ks.Skipped),
			strconv.Itoa(r.ks.Attempts),
		)
	}
	return t.Render()
}
