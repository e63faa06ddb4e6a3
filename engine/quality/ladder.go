package quality

import (
	"fmt"
	"slices"
)

// Ladder is an ordered set of tiers the performance controller steps through one rung at a time.
type Ladder []Tier

// DefaultLadder is the two-rung ladder: reduced (0.5) and full (1.0).
var DefaultLadder = Ladder{MinTier, MaxTier}

// Validate checks that the ladder is non-empty, strictly ascending and within [MinTier, MaxTier].
//
// Returns:
//   - error: a description of the first violation, or nil
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("quality ladder is empty")
	}
	for i, t := range l {
		if t < MinTier || t > MaxTier {
			return fmt.Errorf("quality ladder rung %d (%.2f) outside [%.2f, %.2f]", i, t, MinTier, MaxTier)
		}
		if i > 0 && t <= l[i-1] {
			return fmt.Errorf("quality ladder rung %d (%.2f) not above rung %d (%.2f)", i, t, i-1, l[i-1])
		}
	}
	return nil
}

// Top returns the index of the highest rung.
func (l Ladder) Top() int {
	return len(l) - 1
}

// Nearest returns the index of the rung closest to t.
//
// Parameters:
//   - t: the tier to locate
//
// Returns:
//   - int: index of the closest rung
func (l Ladder) Nearest(t Tier) int {
	i, ok := slices.BinarySearch(l, t)
	switch {
	case ok:
		return i
	case i == 0:
		return 0
	case i >= len(l):
		return len(l) - 1
	case t-l[i-1] <= l[i]-t:
		return i - 1
	default:
		return i
	}
}
