package animator

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// EaseFunc maps normalized progress in [0, 1] to eased progress. Every EaseFunc here maps
// 0 to 0 and 1 to 1.
type EaseFunc func(t float64) float64

// Linear is the identity ease.
func Linear(t float64) float64 { return t }

// Power2In accelerates from rest.
func Power2In(t float64) float64 { return t * t }

// Power2Out decelerates into the end value.
func Power2Out(t float64) float64 {
	u := 1 - t
	return 1 - u*u
}

// Power2InOut accelerates through the first half and decelerates through the second.
func Power2InOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

var easings = map[string]EaseFunc{
	"linear":       Linear,
	"power2.in":    Power2In,
	"power2.out":   Power2Out,
	"power2.inOut": Power2InOut,
}

// ParseEase looks up an ease by name: linear, power2.in, power2.out or power2.inOut.
//
// Parameters:
//   - name: the ease name
//
// Returns:
//   - EaseFunc: the matching ease
//   - error: if the name is unknown
func ParseEase(name string) (EaseFunc, error) {
	if fn, ok := easings[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown ease %q", name)
}

// apply clamps t to [0, 1] before easing.
func (e EaseFunc) apply(t float64) float64 {
	t = common.Clamp(t, 0, 1)
	if e == nil {
		return t
	}
	return e(t)
}
