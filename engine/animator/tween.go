package animator

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// Tween interpolates one transform from From to To under Ease, starting Delay after the
// owning sequence starts and lasting Duration.
type Tween struct {
	From     common.Transform
	To       common.Transform
	Delay    time.Duration
	Duration time.Duration
	Ease     EaseFunc
}

// End returns the offset from the sequence start at which the tween finishes.
func (tw Tween) End() time.Duration {
	return tw.Delay + tw.Duration
}

// Sample evaluates the tween at elapsed time since the sequence start. Before Delay it holds
// From; at or after End it returns To exactly.
//
// Parameters:
//   - elapsed: time since the owning sequence started
//
// Returns:
//   - common.Transform: the interpolated transform
//   - bool: true once the tween has finished
func (tw Tween) Sample(elapsed time.Duration) (common.Transform, bool) {
	local := elapsed - tw.Delay
	switch {
	case local <= 0 && tw.Duration > 0:
		return tw.From, false
	case local >= tw.Duration:
		return tw.To, true
	}
	progress := tw.Ease.apply(float64(local) / float64(tw.Duration))
	return tw.From.Lerp(tw.To, float32(progress)), false
}
