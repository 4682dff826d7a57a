// Package detection extracts shape outlines from binary edge maps and turns
// them into shape descriptors.
//
// # Pipeline
//
//  1. imaging.Preprocess produces a binary edge map
//  2. ExtractContours traces the outer boundary of every connected shape
//  3. Describe measures each contour and drops degenerate ones
//  4. Overlay paints grouping results back onto the source image
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Contour points are pixel centres. Areas and perimeters are measured on
// the polygon through those centres, so a filled n×n square yields area
// (n-1)² and perimeter 4(n-1).
//
// # Limitations
//
// Only external contours are produced: a ring yields one contour and its
// hole is ignored. Shapes that touch each other in the edge map merge into
// one contour. The extractor works best on clean, high-contrast images such
// as the scenes produced by the generate command.
package detection
