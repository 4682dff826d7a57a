package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidConfig is returned when canvas or placement parameters are unusable.
var ErrInvalidConfig = errors.New("invalid scene configuration")

// Kind identifies a primitive type.
type Kind string

const (
	KindCircle   Kind = "circle"
	KindSquare   Kind = "square"
	KindTriangle Kind = "triangle"
)

// Size ranges drawn per primitive (inclusive).
const (
	minCircleRadius = 20
	maxCircleRadius = 60
	minSquareSide   = 40
	maxSquareSide   = 80
	minTriangleSide = 40
	maxTriangleSide = 80

	minChannel = 50
	maxChannel = 255
)

// Config describes the canvas and the packing constraints.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// BorderMargin keeps every reserved box this far from the canvas edge.
	BorderMargin int `json:"border_margin"`

	// ObjectMargin pads a candidate box before the collision test.
	ObjectMargin int `json:"object_margin"`

	// MaxAttempts bounds the candidate centres drawn per object.
	MaxAttempts int `json:"max_attempts"`
}

// DefaultConfig returns a 512x512 canvas with generation margins.
func DefaultConfig() Config {
	return Config{
		Width:        512,
		Height:       512,
		BorderMargin: 80,
		ObjectMargin: 15,
		MaxAttempts:  100,
	}
}

// Validate checks that the configuration can drive a session.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.BorderMargin < 0 || c.ObjectMargin < 0:
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidConfig)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max attempts must be positive (got %d)", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// Counts is the number of primitives requested per kind.
type Counts struct {
	Circles   int `json:"circles"`
	Squares   int `json:"squares"`
	Triangles int `json:"triangles"`
}

// Total returns the number of requested primitives.
func (c Counts) Total() int {
	return c.Circles + c.Squares + c.Triangles
}

func (c Counts) validate() error {
	if c.Circles < 0 || c.Squares < 0 || c.Triangles < 0 {
		return fmt.Errorf("%w: counts must not be negative (%+v)", ErrInvalidConfig, c)
	}
	return nil
}

// Record is one accepted placement.
type Record struct {
	Kind   Kind  `json:"kind"`
	Center Point `json:"center"`

	// BBox is the reserved box (without object margin).
	BBox BBox `json:"bbox"`

	// Size is the radius for circles and the side length otherwise.
	Size int `json:"size"`

	// RotationDeg is always 0 for circles.
	RotationDeg float64 `json:"rotation_deg"`

	Color Color `json:"color"`

	// Polygon holds the rotated vertices of squares and triangles.
	Polygon []Point `json:"polygon,omitempty"`

	// Attempts is the number of candidate centres drawn before acceptance.
	Attempts int `json:"attempts"`
}

// KindStats counts outcomes for one primitive kind.
type KindStats struct {
	Requested int `json:"requested"`
	Placed    int `json:"placed"`
	Skipped   int `json:"skipped"`

	// Attempts is the total number of candidate centres drawn, including
	// those spent on skipped objects.
	Attempts int `json:"attempts"`
}

// Stats holds per-kind outcomes of a generation run.
type Stats struct {
	Circles   KindStats `json:"circles"`
	Squares   KindStats `json:"squares"`
	Triangles KindStats `json:"triangles"`
}

// Placed returns the number of accepted primitives across kinds.
func (s Stats) Placed() int {
	return s.Circles.Placed + s.Squares.Placed + s.Triangles.Placed
}

// Skipped returns the number of abandoned primitives across kinds.
func (s Stats) Skipped() int {
	return s.Circles.Skipped + s.Squares.Skipped + s.Triangles.Skipped
}

func (s *Stats) forKind(k Kind) *KindStats {
	switch k {
	case KindCircle:
		return &s.Circles
	case KindSquare:
		return &s.Squares
	default:
		return &s.Triangles
	}
}

// Result is the outcome of one generation run.
type Result struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Records []Record `json:"records"`
	Stats   Stats    `json:"stats"`
}

// Footprint is the size of the box an object reserves.
type Footprint struct {
	Width  int
	Height int
}

// Placement is a reserved slot returned by Session.AttemptPlace.
type Placement struct {
	Center   Point
	BBox     BBox
	Attempts int
}

// Session is the packing state of a single generation call. It is not safe
// for concurrent use and must not outlive the call that created it.
type Session struct {
	cfg      Config
	rng      *rand.Rand
	occupied []BBox
}

// NewSession validates cfg and starts an empty packing session drawing from rng.
func NewSession(cfg Config, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	return &Session{cfg: cfg, rng: rng}, nil
}

// AttemptPlace tries to reserve a free slot for a footprint.
//
// Candidate centres are drawn uniformly from
// [BorderMargin + w/2, dimension - BorderMargin - w/2] on each axis, at most
// MaxAttempts times. The first candidate whose margin-expanded box is clear
// of every occupied box is reserved and returned. If the centre range is
// empty no draws are made and the footprint is rejected immediately.
func (s *Session) AttemptPlace(fp Footprint) (Placement, bool) {
	halfW := fp.Width / 2
	halfH := fp.Height / 2

	loX, hiX := s.cfg.BorderMargin+halfW, s.cfg.Width-s.cfg.BorderMargin-halfW
	loY, hiY := s.cfg.BorderMargin+halfH, s.cfg.Height-s.cfg.BorderMargin-halfH
	if loX > hiX || loY > hiY {
		return Placement{}, false
	}

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		cx := s.intn(loX, hiX)
		cy := s.intn(loY, hiY)

		box := BBox{X1: cx - halfW, Y1: cy - halfH, X2: cx + halfW, Y2: cy + halfH}
		if Collides(s.occupied, box, s.cfg.ObjectMargin) {
			continue
		}

		s.occupied = append(s.occupied, box)
		return Placement{Center: Point{X: cx, Y: cy}, BBox: box, Attempts: attempt}, true
	}

	return Placement{Attempts: s.cfg.MaxAttempts}, false
}

// intn draws uniformly from [lo, hi].
func (s *Session) intn(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Session) randomColor() Color {
	return Color{
		R: uint8(s.intn(minChannel, maxChannel)),
		G: uint8(s.intn(minChannel, maxChannel)),
		B: uint8(s.intn(minChannel, maxChannel)),
	}
}

// randomAngle draws a whole-degree rotation in [0, 360).
func (s *Session) randomAngle() float64 {
	return float64(s.rng.IntN(360))
}

// NewRand returns a PCG-backed generator. A nil seed yields a randomly
// seeded, non-reproducible stream.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := uint64(*seed)
	return rand.New(rand.NewPCG(s, s))
}

// Generate is Place with a generator built by NewRand(seed).
func Generate(cfg Config, counts Counts, seed *int64) (*Result, error) {
	return Place(cfg, counts, NewRand(seed))
}

// Place packs the requested primitives onto the canvas.
//
// Parameters:
//   - cfg: Canvas size and packing constraints.
//   - counts: Number of circles, squares and triangles to place.
//   - rng: Random stream consumed in a fixed order: circles, squares,
//     triangles; per object colour, size, candidate centres, then rotation.
//
// Returns:
//   - *Result: Accepted records in placement order plus per-kind counts.
//     Objects that found no free slot are counted as skipped; this is not
//     an error.
//   - error: ErrInvalidConfig for unusable canvas, margins, attempts or
//     negative counts.
func Place(cfg Config, counts Counts, rng *rand.Rand) (*Result, error) {
	if err := counts.validate(); err != nil {
		return nil, err
	}
	s, err := NewSession(cfg, rng)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Records: make([]Record, 0, counts.Total()),
	}
	res.Stats.Circles.Requested = counts.Circles
	res.Stats.Squares.Requested = counts.Squares
	res.Stats.Triangles.Requested = counts.Triangles

	for range counts.Circles {
		s.placeCircle(res)
	}
	for range counts.Squares {
		s.placeSquare(res)
	}
	for range counts.Triangles {
		s.placeTriangle(res)
	}

	return res, nil
}

func (s *Session) placeCircle(res *Result) {
	color := s.randomColor()
	radius := s.intn(minCircleRadius, maxCircleRadius)

	p, ok := s.AttemptPlace(Footprint{Width: radius * 2, Height: radius * 2})
	if !s.record(res, KindCircle, p, ok) {
		return
	}

	res.Records = append(res.Records, Record{
		Kind:     KindCircle,
		Center:   p.Center,
		BBox:     p.BBox,
		Size:     radius,
		Color:    color,
		Attempts: p.Attempts,
	})
}

func (s *Session) placeSquare(res *Result) {
	color := s.randomColor()
	side := s.intn(minSquareSide, maxSquareSide)
	diag := squareDiagonal(side)

	p, ok := s.AttemptPlace(Footprint{Width: diag, Height: diag})
	if !s.record(res, KindSquare, p, ok) {
		return
	}

	angle := s.randomAngle()
	res.Records = append(res.Records, Record{
		Kind:        KindSquare,
		Center:      p.Center,
		BBox:        p.BBox,
		Size:        side,
		RotationDeg: angle,
		Color:       color,
		Polygon:     RotatePoints(squareCorners(p.Center, side), angle, p.Center),
		Attempts:    p.Attempts,
	})
}

func (s *Session) placeTriangle(res *Result) {
	color := s.randomColor()
	side := s.intn(minTriangleSide, maxTriangleSide)
	diag := triangleDiagonal(side)

	p, ok := s.AttemptPlace(Footprint{Width: diag, Height: diag})
	if !s.record(res, KindTriangle, p, ok) {
		return
	}

	angle := s.randomAngle()
	res.Records = append(res.Records, Record{
		Kind:        KindTriangle,
		Center:      p.Center,
		BBox:        p.BBox,
		Size:        side,
		RotationDeg: angle,
		Color:       color,
		Polygon:     RotatePoints(triangleCorners(p.Center, side), angle, p.Center),
		Attempts:    p.Attempts,
	})
}

// record updates the per-kind counters and reports whether the object was placed.
func (s *Session) record(res *Result, k Kind, p Placement, ok bool) bool {
	ks := res.Stats.forKind(k)
	ks.Attempts += p.Attempts
	if !ok {
		ks.Skipped++
		return false
	}
	ks.Placed++
	return true
}
