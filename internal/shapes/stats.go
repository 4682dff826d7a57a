package shapes

import (
	"math"

	"github.com/montanaflynn/stats"
)

// GroupStatistics summarises one group. It is derived on demand and never stored.
type GroupStatistics struct {
	Count    int     `json:"count"`
	AvgRatio float64 `json:"avg_ratio"`
	MinRatio float64 `json:"min_ratio"`
	MaxRatio float64 `json:"max_ratio"`

	// StdRatio is the population standard deviation of the ratios.
	StdRatio float64 `json:"std_ratio"`

	AvgArea float64 `json:"avg_area"`

	// ScaleRatios holds sqrt(max(area)/min(area)) for every unordered pair
	// (i < j, in group order). Empty for groups with fewer than two members.
	ScaleRatios []float64 `json:"scale_ratios"`

	AvgScale float64 `json:"avg_scale"`
	MinScale float64 `json:"min_scale"`
	MaxScale float64 `json:"max_scale"`

	// Similarity is only filled in by SimilarityStatistics.
	Similarity *Similarity `json:"similarity,omitempty"`
}

// Similarity aggregates pairwise similarity scores within a group.
//
// A pair scores the mean of relativeSimilarity over ratio and over area,
// so identical shapes score 1.0 and the score approaches 0 as they diverge.
type Similarity struct {
	Scores []float64 `json:"scores"`
	Avg    float64   `json:"avg"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
}

// Statistics computes ratio, area and scale aggregates for a group.
//
// Groups with a single member report StdRatio 0 and scale aggregates of 1.0.
// An empty group reports Count 0, zero ratio and area values and scale
// aggregates of 1.0.
func Statistics(g Group) GroupStatistics {
	st := GroupStatistics{
		Count:       len(g),
		ScaleRatios: []float64{},
		AvgScale:    1.0,
		MinScale:    1.0,
		MaxScale:    1.0,
	}
	if len(g) == 0 {
		return st
	}

	ratios := stats.Float64Data(g.Ratios())
	st.AvgRatio, _ = ratios.Mean()
	st.MinRatio, _ = ratios.Min()
	st.MaxRatio, _ = ratios.Max()
	st.AvgArea, _ = stats.Mean(g.Areas())

	if len(g) < 2 {
		return st
	}

	st.StdRatio, _ = ratios.StandardDeviationPopulation()

	for i := 0; i < len(g); i++ {
		for j := i + 1; j < len(g); j++ {
			st.ScaleRatios = append(st.ScaleRatios, scaleRatio(g[i].Area, g[j].Area))
		}
	}
	st.AvgScale, st.MinScale, st.MaxScale = aggregate(st.ScaleRatios)

	return st
}

// SimilarityStatistics is Statistics plus pairwise similarity scores. It is
// used for classifier groups, where members share a category but may still
// differ in shape quality.
func SimilarityStatistics(g Group) GroupStatistics {
	st := Statistics(g)
	sim := &Similarity{Scores: []float64{}, Avg: 1.0, Min: 1.0, Max: 1.0}

	for i := 0; i < len(g); i++ {
		for j := i + 1; j < len(g); j++ {
			sim.Scores = append(sim.Scores, PairSimilarity(g[i], g[j]))
		}
	}
	if len(sim.Scores) > 0 {
		sim.Avg, sim.Min, sim.Max = aggregate(sim.Scores)
	}

	st.Similarity = sim
	return st
}

// PairSimilarity scores two descriptors in (0, 1], 1.0 meaning identical
// ratio and area.
func PairSimilarity(a, b Descriptor) float64 {
	return (relativeSimilarity(a.Ratio, b.Ratio) + relativeSimilarity(a.Area, b.Area)) / 2
}

// scaleRatio returns sqrt(max/min) of two areas; always >= 1 for positive input.
func scaleRatio(a, b float64) float64 {
	return math.Sqrt(math.Max(a, b) / math.Min(a, b))
}

// relativeSimilarity is 1 - |a-b|/max(a,b) for positive inputs.
func relativeSimilarity(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi == 0 {
		return 1.0
	}
	return 1.0 - math.Abs(a-b)/hi
}

// aggregate returns mean, min and max of a non-empty sample.
func aggregate(values []float64) (avg, lo, hi float64) {
	data := stats.Float64Data(values)
	avg, _ = data.Mean()
	lo, _ = data.Min()
	hi, _ = data.Max()
	return avg, lo, hi
}
