package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/shapekit/internal/shapes"
)

func descriptor(t *testing.T, index int, area, perimeter float64) shapes.Descriptor {
	t.Helper()
	d, ok := shapes.NewDescriptor(index, area, perimeter)
	if !ok {
		t.Fatalf("invalid descriptor (%v, %v)", area, perimeter)
	}
	return d
}

func sampleDescriptors(t *testing.T) []shapes.Descriptor {
	return []shapes.Descriptor{
		descriptor(t, 0, 400, 80),    // ratio 16
		descriptor(t, 1, 1600, 160),  // ratio 16
		descriptor(t, 2, 100, 45.59), // ratio ~20.78
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"cluster", ModeCluster, false},
		{"classify", ModeClassify, false},
		{"", ModeCluster, false},
		{"kmeans", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromClusters(t *testing.T) {
	clusters, err := shapes.Cluster(sampleDescriptors(t), shapes.DefaultThreshold)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	r := FromClusters(clusters, shapes.DefaultThreshold)
	if r.RunID == "" {
		t.Error("RunID should be set")
	}
	if r.Mode != ModeCluster || r.Threshold == nil || *r.Threshold != 2.0 {
		t.Errorf("unexpected header: mode=%s threshold=%v", r.Mode, r.Threshold)
	}
	if len(r.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(r.Groups))
	}
	if r.Groups[0].Label != "1" || r.Groups[1].Label != "2" {
		t.Errorf("labels: got %q, %q", r.Groups[0].Label, r.Groups[1].Label)
	}
	if got := r.Groups[0].Members; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("group 1 members: got %v", got)
	}
	if r.Groups[0].Stats.AvgScale != 2.0 {
		t.Errorf("group 1 scale: got %v, want 2.0", r.Groups[0].Stats.AvgScale)
	}
	if len(r.Entries) != 3 || r.Entries[2].Label != "2" {
		t.Errorf("entries: got %+v", r.Entries)
	}

	a := r.Assignment()
	if a[0] != 0 || a[1] != 0 || a[2] != 1 {
		t.Errorf("Assignment: got %v", a)
	}
}

func TestFromClassification(t *testing.T) {
	labels, groups := shapes.ClassifyAll(sampleDescriptors(t))
	r := FromClassification(labels, groups)

	if r.Mode != ModeClassify {
		t.Errorf("mode: got %s", r.Mode)
	}
	if len(r.Groups) != len(shapes.Categories()) {
		t.Fatalf("expected a group per category, got %d", len(r.Groups))
	}
	if r.NonEmptyGroups() != 2 {
		t.Errorf("NonEmptyGroups: got %d, want 2", r.NonEmptyGroups())
	}

	want := []string{"square", "square", "triangle"}
	for i, e := range r.Entries {
		if e.Label != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, e.Label, want[i])
		}
	}

	for _, g := range r.Groups {
		if g.Members == nil {
			t.Errorf("group %s: members should be an empty slice, not nil", g.Label)
		}
	}
}

func TestFromClusters_Empty(t *testing.T) {
	r := FromClusters(nil, 1.5)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, r); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entries, ok := decoded["entries"].([]any); !ok || len(entries) != 0 {
		t.Errorf("entries should encode as an empty array, got %v", decoded["entries"])
	}
}

func TestReportJSON_Threshold(t *testing.T) {
	labels, byCategory := shapes.ClassifyAll(sampleDescriptors(t))
	tests := []struct {
		name    string
		report  *Report
		want    float64
		present bool
	}{
		{"cluster zero threshold", FromClusters(nil, 0), 0, true},
		{"cluster default threshold", FromClusters(nil, 2), 2, true},
		{"classify has none", FromClassification(labels, byCategory), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteJSON(&buf, tt.report); err != nil {
				t.Fatalf("WriteJSON failed: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			got, ok := decoded["threshold"]
			if ok != tt.present {
				t.Fatalf("threshold present = %v, want %v", ok, tt.present)
			}
			if ok && got.(float64) != tt.want {
				t.Errorf("threshold: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetColors(t *testing.T) {
	r := FromClusters([]shapes.Group{sampleDescriptors(t)[:1]}, 2)
	r.SetColors(func(index int) string { return "#ff0000" })
	if r.Entries[0].Color != "#ff0000" {
		t.Errorf("Color: got %q", r.Entries[0].Color)
	}
}

func TestWriteTable(t *testing.T) {
	clusters, err := shapes.Cluster(sampleDescriptors(t), 2.0)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, FromClusters(clusters, 2.0)); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"SHAPE SIMILARITY GROUPING RESULTS",
		"Total groups found: 2",
		"GROUP 1:",
		"Average P²/A ratio: 16.00",
		"Average scale: 2.00x",
		"Object 1: P²/A ratio=16.00, area=1600px², perimeter=160.0px",
		"GROUP 2:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q\n%s", want, out)
		}
	}

	// single-member groups have no scale section
	group2 := out[strings.Index(out, "GROUP 2:"):]
	if strings.Contains(group2, "Scale ratios") {
		t.Error("single-member group should not print scale ratios")
	}
}

func TestWriteTable_ClassifySkipsEmpty(t *testing.T) {
	labels, groups := shapes.ClassifyAll(sampleDescriptors(t))

	var buf bytes.Buffer
	if err := WriteTable(&buf, FromClassification(labels, groups)); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "SHAPE CLASSIFICATION RESULTS") {
		t.Error("missing classification banner")
	}
	if !strings.Contains(out, "GROUP SQUARE:") || !strings.Contains(out, "GROUP TRIANGLE:") {
		t.Errorf("missing category sections\n%s", out)
	}
	if strings.Contains(out, "GROUP CIRCLE:") {
		t.Error("empty categories should not be printed")
	}
}

func TestSaveFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := SaveFiles(dir, FromClusters(nil, 2))
	if err != nil {
		t.Fatalf("SaveFiles failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}
