package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const bannerWidth = 80

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteTable writes the human-readable results table: a banner, the group
// count, then per group its ratio statistics, scale statistics (groups of
// two or more) and every member. Numbers use two decimals except areas
// (whole pixels) and perimeters (one decimal).
func WriteTable(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", bannerWidth)
	title := "SHAPE SIMILARITY GROUPING RESULTS"
	if r.Mode == ModeClassify {
		title = "SHAPE CLASSIFICATION RESULTS"
	}

	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "\nTotal groups found: %d\n", r.NonEmptyGroups())

	byIndex := make(map[int]Entry, len(r.Entries))
	for _, e := range r.Entries {
		byIndex[e.Index] = e
	}

	for _, g := range r.Groups {
		if len(g.Members) == 0 {
			continue
		}
		st := g.Stats

		fmt.Fprintf(bw, "\n%s\n", rule)
		fmt.Fprintf(bw, "GROUP %s:\n", strings.ToUpper(g.Label))
		fmt.Fprintln(bw, rule)
		fmt.Fprintf(bw, "Count: %d\n", st.Count)
		fmt.Fprintln(bw, "\nRatio statistics:")
		fmt.Fprintf(bw, "  Average P²/A ratio: %.2f\n", st.AvgRatio)
		fmt.Fprintf(bw, "  Min ratio: %.2f\n", st.MinRatio)
		fmt.Fprintf(bw, "  Max ratio: %.2f\n", st.MaxRatio)
		fmt.Fprintf(bw, "  Std deviation: %.2f\n", st.StdRatio)

		if st.Count > 1 {
			fmt.Fprintln(bw, "\nScale ratios:")
			fmt.Fprintf(bw, "  Average scale: %.2fx\n", st.AvgScale)
			fmt.Fprintf(bw, "  Min scale: %.2fx\n", st.MinScale)
			fmt.Fprintf(bw, "  Max scale: %.2fx\n", st.MaxScale)
			if st.Similarity != nil {
				fmt.Fprintf(bw, "  Average similarity: %.2f\n", st.Similarity.Avg)
			}
		}

		fmt.Fprintln(bw, "\nDetailed object data:")
		for _, idx := range g.Members {
			e := byIndex[idx]
			fmt.Fprintf(bw, "  Object %d: P²/A ratio=%.2f, area=%.0fpx², perimeter=%.1fpx\n",
				e.Index, e.Ratio, e.Area, e.Perimeter)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write results table: %w", err)
	}
	return nil
}

// SaveFiles writes report.json and results_table.txt into dir, creating it
// if needed, and returns the written paths.
func SaveFiles(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outputs := []struct {
		name  string
		write func(io.Writer, *Report) error
	}{
		{"report.json", WriteJSON},
		{"results_table.txt", WriteTable},
	}

	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := writeFile(path, r, o.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, r *Report, write func(io.Writer, *Report) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(f, r)
}
