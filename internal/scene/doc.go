// Package scene procedurally packs non-overlapping primitives onto a canvas
// for synthetic test-image generation.
//
// A generation call owns a single packing Session. The session holds the
// random stream and the list of occupied bounding boxes; every primitive
// placed during the call reads and extends that list, so shapes placed later
// see the footprints of everything placed before them. Primitives are
// processed in a fixed order: all circles, then all squares, then all
// triangles, each in request order.
//
// # Determinism
//
// All random draws (colour, size, candidate centres, rotation) come from the
// *rand.Rand handed to Place. Two calls with generators built from the same
// seed and identical parameters produce identical records. NewRand(nil)
// returns an unseeded generator for non-reproducible runs.
//
// # Placement
//
// For each object the session draws up to Config.MaxAttempts candidate
// centres inside the border margin. A candidate's bounding box is expanded
// by Config.ObjectMargin and tested for axis-aligned overlap against every
// occupied box; touching boxes count as overlapping. The first free
// candidate wins. When the budget runs out the object is skipped and
// counted; constraints are never relaxed between attempts.
//
// Rotated shapes reserve the square that encloses their diagonal, so any
// rotation stays inside the reserved box.
//
// # Coordinates
//
// Integer pixel coordinates, origin top-left, Y growing downward. Rotated
// polygon vertices are truncated toward zero, not rounded.
package scene
