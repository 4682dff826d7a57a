package shapes

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidThreshold is returned by Cluster for a negative or non-finite threshold.
var ErrInvalidThreshold = errors.New("invalid ratio threshold")

// DefaultThreshold is the ratio distance used when callers have no preference.
const DefaultThreshold = 2.0

// Cluster groups descriptors into contiguous ratio bands.
//
// Parameters:
//   - descs: Descriptors to group. The slice is not modified.
//   - threshold: Maximum distance between a descriptor's ratio and the
//     running mean of the active group for the descriptor to join it.
//
// Returns:
//   - []Group: Groups in ascending ratio order. Every input descriptor
//     appears in exactly one group and each group is sorted by ratio.
//     Empty input yields an empty, non-nil slice.
//   - error: ErrInvalidThreshold if threshold is negative, NaN or infinite.
//
// # Algorithm
//
//  1. Stable sort by ratio (equal ratios keep their input order)
//  2. Seed the active group with the first descriptor
//  3. For each following descriptor compare against the arithmetic mean of
//     the active group: |ratio - mean| <= threshold appends it, otherwise the
//     active group is closed and a new one starts with this descriptor
//  4. Close the final group
//
// Assignments are irrevocable. A boundary depends only on the members that
// were already accepted, so the result is order-dependent rather than a
// globally optimal partition.
func Cluster(descs []Descriptor, threshold float64) ([]Group, error) {
	if threshold < 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}

	groups := make([]Group, 0)
	if len(descs) == 0 {
		return groups, nil
	}

	sorted := make([]Descriptor, len(descs))
	copy(sorted, descs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ratio < sorted[j].Ratio
	})

	current := Group{sorted[0]}
	sum := sorted[0].Ratio

	for _, d := range sorted[1:] {
		mean := sum / float64(len(current))
		if math.Abs(d.Ratio-mean) <= threshold {
			current = append(current, d)
			sum += d.Ratio
			continue
		}
		groups = append(groups, current)
		current = Group{d}
		sum = d.Ratio
	}

	return append(groups, current), nil
}
