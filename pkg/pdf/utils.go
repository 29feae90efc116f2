package pdf

import (
	"math"
)

// Tolerance for floating point comparisons
const FloatTolerance = 0.1

// fragmentKey buckets a fragment's origin on the FloatTolerance grid
type fragmentKey struct {
	text string
	x, y int64
}

func keyOf(f TextFragment) fragmentKey {
	return fragmentKey{
		text: f.Text,
		x:    int64(math.Round(f.X / FloatTolerance)),
		y:    int64(math.Round(f.Y / FloatTolerance)),
	}
}

// DeduplicateFragments removes glyph runs drawn more than once at the same origin,
// which is how many producers fake bold text. The first occurrence is kept and
// the original order is preserved. Fragments without an advance width are
// always kept: backends that lack font metrics report every glyph of a run at
// the run origin, so repeated letters there are not overprints.
func DeduplicateFragments(fragments []TextFragment) []TextFragment {
	if len(fragments) < 2 {
		return fragments
	}

	seen := make(map[fragmentKey][]TextFragment, len(fragments))
	result := make([]TextFragment, 0, len(fragments))

	for _, f := range fragments {
		if f.W < FloatTolerance {
			result = append(result, f)
			continue
		}
		k := keyOf(f)
		if isDuplicate(seen, k, f) {
			continue
		}
		seen[k] = append(seen[k], f)
		result = append(result, f)
	}

	return result
}

// isDuplicate checks the fragments in k's grid cell and its neighbours against the exact tolerance
func isDuplicate(seen map[fragmentKey][]TextFragment, k fragmentKey, f TextFragment) bool {
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			cell := fragmentKey{text: k.text, x: k.x + dx, y: k.y + dy}
			for _, c := range seen[cell] {
				if fragmentsEqual(c, f) {
					return true
				}
			}
		}
	}
	return false
}

// fragmentsEqual checks if two fragments are essentially the same glyph run
func fragmentsEqual(a, b TextFragment) bool {
	return a.Text == b.Text &&
		abs(a.X-b.X) < FloatTolerance &&
		abs(a.Y-b.Y) < FloatTolerance &&
		abs(a.W-b.W) < FloatTolerance
}
