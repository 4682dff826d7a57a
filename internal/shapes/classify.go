package shapes

import "math"

// Category is a fixed shape label assigned by nearest-reference matching.
type Category string

const (
	Circle   Category = "circle"
	Square   Category = "square"
	Triangle Category = "triangle"
	Unknown  Category = "unknown"
)

// reference pairs a category with its ideal perimeter²/area ratio.
type reference struct {
	category Category
	ratio    float64
}

// references is scanned in order; on equal distance the earlier entry wins.
var references = []reference{
	{Circle, 4 * math.Pi},
	{Square, 16},
	{Triangle, 20.78},
}

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{Circle, Square, Triangle, Unknown}
}

// ReferenceRatio returns the ideal ratio of a category. Unknown has none.
func ReferenceRatio(c Category) (float64, bool) {
	for _, ref := range references {
		if ref.category == c {
			return ref.ratio, true
		}
	}
	return 0, false
}

// Classify maps a descriptor to the category whose reference ratio is
// closest to the descriptor's ratio and returns that ratio alongside.
//
// Ties are resolved in the fixed order circle, square, triangle: a later
// reference only replaces the current best when it is strictly closer.
// A zero perimeter short-circuits to (Unknown, 0).
func Classify(d Descriptor) (Category, float64) {
	if d.Perimeter == 0 {
		return Unknown, 0
	}
	return nearest(d.Ratio, references), d.Ratio
}

func nearest(ratio float64, refs []reference) Category {
	best := Unknown
	bestDiff := math.Inf(1)
	for _, ref := range refs {
		diff := math.Abs(ratio - ref.ratio)
		if diff < bestDiff {
			best = ref.category
			bestDiff = diff
		}
	}
	return best
}

// Classification is the label assigned to one descriptor.
type Classification struct {
	Descriptor Descriptor `json:"descriptor"`
	Category   Category   `json:"category"`
}

// ClassifyAll labels every descriptor in input order and buckets them by
// category. The returned map holds a (possibly empty) group for every
// value of Categories().
func ClassifyAll(descs []Descriptor) ([]Classification, map[Category]Group) {
	labels := make([]Classification, 0, len(descs))
	groups := make(map[Category]Group, len(Categories()))
	for _, c := range Categories() {
		groups[c] = Group{}
	}

	for _, d := range descs {
		c, _ := Classify(d)
		labels = append(labels, Classification{Descriptor: d, Category: c})
		groups[c] = append(groups[c], d)
	}
	return labels, groups
}
