package shapes

import "math"

// Descriptor is the shape summary consumed by the classifier and clusterer.
//
// Descriptors are only built through NewDescriptor or Filter, which
// guarantee Area > 0, Perimeter > 0 and a finite Ratio.
type Descriptor struct {
	// Index is the position of the source contour in the extractor output.
	// It survives filtering and sorting so results can be traced back.
	Index int `json:"index"`

	// Area is the enclosed contour area in square pixels.
	Area float64 `json:"area"`

	// Perimeter is the closed contour length in pixels.
	Perimeter float64 `json:"perimeter"`

	// Ratio is Perimeter² / Area (dimensionless, at least 4π for real shapes).
	Ratio float64 `json:"ratio"`
}

// Measurement is a raw (area, perimeter) pair as produced by the contour
// extractor, before degenerate shapes are removed.
type Measurement struct {
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
}

// NewDescriptor builds a descriptor and reports whether the geometry is
// usable. Non-positive or non-finite area and perimeter values are rejected.
func NewDescriptor(index int, area, perimeter float64) (Descriptor, bool) {
	if !(area > 0) || !(perimeter > 0) || math.IsInf(area, 0) || math.IsInf(perimeter, 0) {
		return Descriptor{}, false
	}
	ratio := perimeter * perimeter / area
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return Descriptor{}, false
	}
	return Descriptor{
		Index:     index,
		Area:      area,
		Perimeter: perimeter,
		Ratio:     ratio,
	}, true
}

// Filter converts measurements into descriptors, silently dropping
// degenerate ones. The returned descriptors keep the measurement's
// position as their Index. The result is never nil.
func Filter(measurements []Measurement) []Descriptor {
	descs := make([]Descriptor, 0, len(measurements))
	for i, m := range measurements {
		if d, ok := NewDescriptor(i, m.Area, m.Perimeter); ok {
			descs = append(descs, d)
		}
	}
	return descs
}

// Group is an ordered run of descriptors.
type Group []Descriptor

// Ratios returns the ratio of every member in group order.
func (g Group) Ratios() []float64 {
	out := make([]float64, len(g))
	for i, d := range g {
		out[i] = d.Ratio
	}
	return out
}

// Areas returns the area of every member in group order.
func (g Group) Areas() []float64 {
	out := make([]float64, len(g))
	for i, d := range g {
		out[i] = d.Area
	}
	return out
}

// Indices returns the source contour index of every member.
func (g Group) Indices() []int {
	out := make([]int, len(g))
	for i, d := range g {
		out[i] = d.Index
	}
	return out
}
