// Package shapes groups extracted contours by a scale-invariant shape metric.
//
// Every contour that reaches this package has already been reduced to an
// area and a perimeter. From those two numbers a Descriptor derives the
// isoperimetric quotient
//
//	ratio = perimeter² / area
//
// which does not change when a shape is scaled. A perfect circle has the
// smallest possible value (4π ≈ 12.566); squares sit at 16 and equilateral
// triangles near 20.78. Elongated or jagged outlines score higher.
//
// # Grouping Paths
//
// Two independent ways of grouping descriptors are provided:
//
//   - Classify / ClassifyAll: nearest-reference matching against the fixed
//     circle, square and triangle ratios. Groups are keyed by Category.
//   - Cluster: a single deterministic pass over the ratio-sorted input that
//     opens a new group whenever a descriptor drifts further than a
//     threshold from the running mean of the active group.
//
// Cluster is history-dependent on purpose. A descriptor's membership depends
// only on the descriptors already placed in the active group, and earlier
// assignments are never revisited. Swapping it for k-means or any symmetric
// distance clustering changes results.
//
// # Statistics
//
// Statistics and SimilarityStatistics summarise one group: ratio spread,
// mean area and pairwise scale ratios sqrt(max(area)/min(area)). Single
// element groups report neutral defaults (std 0, scale 1.0) instead of
// undefined values.
//
// # Degenerate Input
//
// Contours with a non-positive area or perimeter never become descriptors.
// Filter drops them silently; they are not errors. Empty input produces
// empty output.
//
// The package is stateless and safe for concurrent use.
package shapes
