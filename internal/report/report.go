// Package report assembles grouping results into a serialisable run report
// and writes it as JSON or as a plain-text results table.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/shapekit/internal/shapes"
)

// Mode names the grouping strategy that produced a report.
type Mode string

const (
	// ModeCluster groups by running-mean ratio clustering.
	ModeCluster Mode = "cluster"

	// ModeClassify buckets by nearest reference category.
	ModeClassify Mode = "classify"
)

// ParseMode validates a mode name from a flag or tool argument.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCluster, ModeClassify:
		return Mode(s), nil
	case "":
		return ModeCluster, nil
	}
	return "", fmt.Errorf("unknown grouping mode %q (want %q or %q)", s, ModeCluster, ModeClassify)
}

// Entry is one descriptor together with the label of the group it landed in.
type Entry struct {
	Index     int     `json:"index"`
	Label     string  `json:"label"`
	Ratio     float64 `json:"ratio"`
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`

	// Color is the sampled fill colour (#rrggbb), when the source image is known.
	Color string `json:"color,omitempty"`
}

// Group is one group of the report in presentation order.
type Group struct {
	Label   string                 `json:"label"`
	Members []int                  `json:"members"`
	Stats   shapes.GroupStatistics `json:"stats"`
}

// Report is the outcome of one analysis run.
type Report struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source,omitempty"`
	Mode      Mode      `json:"mode"`

	// Threshold is set in cluster mode only; zero is a valid threshold.
	Threshold *float64 `json:"threshold,omitempty"`

	Entries []Entry `json:"entries"`
	Groups  []Group `json:"groups"`
}

func newReport(mode Mode) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Mode:      mode,
		Entries:   []Entry{},
		Groups:    []Group{},
	}
}

// FromClusters builds a report from clusterer output. Groups are labelled
// 1..n in cluster order and entries follow the same order.
func FromClusters(clusters []shapes.Group, threshold float64) *Report {
	r := newReport(ModeCluster)
	r.Threshold = &threshold

	for gi, g := range clusters {
		label := strconv.Itoa(gi + 1)
		r.Groups = append(r.Groups, newGroup(label, g))
		for _, d := range g {
			r.Entries = append(r.Entries, newEntry(label, d))
		}
	}
	return r
}

// FromClassification builds a report from classifier output. Entries keep
// input order; groups appear in shapes.Categories() order and include empty
// categories.
func FromClassification(labels []shapes.Classification, byCategory map[shapes.Category]shapes.Group) *Report {
	r := newReport(ModeClassify)

	for _, l := range labels {
		r.Entries = append(r.Entries, newEntry(string(l.Category), l.Descriptor))
	}
	for _, c := range shapes.Categories() {
		r.Groups = append(r.Groups, newGroup(string(c), byCategory[c]))
	}
	return r
}

func newEntry(label string, d shapes.Descriptor) Entry {
	return Entry{
		Index:     d.Index,
		Label:     label,
		Ratio:     d.Ratio,
		Area:      d.Area,
		Perimeter: d.Perimeter,
	}
}

func newGroup(label string, g shapes.Group) Group {
	return Group{
		Label:   label,
		Members: g.Indices(),
		Stats:   shapes.SimilarityStatistics(g),
	}
}

// Assignment maps each descriptor index to the position of its group in
// r.Groups. Used to colour contours consistently with the report.
func (r *Report) Assignment() map[int]int {
	out := make(map[int]int, len(r.Entries))
	for gi, g := range r.Groups {
		for _, idx := range g.Members {
			out[idx] = gi
		}
	}
	return out
}

// NonEmptyGroups returns the number of groups with at least one member.
func (r *Report) NonEmptyGroups() int {
	n := 0
	for _, g := range r.Groups {
		if len(g.Members) > 0 {
			n++
		}
	}
	return n
}

// SetColors fills Entry.Color using sample, keyed by descriptor index.
func (r *Report) SetColors(sample func(index int) string) {
	for i := range r.Entries {
		r.Entries[i].Color = sample(r.Entries[i].Index)
	}
}
