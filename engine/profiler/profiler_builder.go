package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*profiler)

// WithWindow sets the sample window. Values <= 0 keep the default (1000 ms).
//
// Parameters:
//   - window: the wall-clock duration of one sample
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithWindow(window time.Duration) ProfilerBuilderOption {
	return func(p *profiler) {
		if window > 0 {
			p.window = window
		}
	}
}

// WithThresholds sets the hysteresis thresholds. The tier steps down when fps < low and up
// when fps > high. Ignored unless 0 < low <= high.
//
// Parameters:
//   - low: the degrade threshold in fps
//   - high: the restore threshold in fps
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithThresholds(low, high float64) ProfilerBuilderOption {
	return func(p *profiler) {
		if low > 0 && low <= high {
			p.lowFPS = low
			p.highFPS = high
		}
	}
}

// WithLadder replaces the tier ladder. Invalid ladders are ignored. The controller starts
// at the top rung unless WithInitialTier is applied afterwards.
//
// Parameters:
//   - ladder: an ascending list of tiers
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLadder(ladder quality.Ladder) ProfilerBuilderOption {
	return func(p *profiler) {
		if ladder.Validate() == nil {
			p.ladder = ladder
			p.rung = ladder.Top()
		}
	}
}

// WithInitialTier starts the controller on the rung nearest to tier.
//
// Parameters:
//   - tier: the desired starting tier
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInitialTier(tier quality.Tier) ProfilerBuilderOption {
	return func(p *profiler) {
		p.rung = p.ladder.Nearest(tier)
	}
}

// WithInitialFPS sets the fps estimate reported before the first sample completes.
//
// Parameters:
//   - fps: the initial estimate (default 120)
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInitialFPS(fps float64) ProfilerBuilderOption {
	return func(p *profiler) {
		if fps > 0 {
			p.fps = fps
		}
	}
}

// WithAppState publishes fps and quality changes into the application store.
//
// Parameters:
//   - s: the store to write into
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithAppState(s *store.AppState) ProfilerBuilderOption {
	return func(p *profiler) {
		p.appState = s
	}
}

// WithLogging enables the per-sample structured log line.
//
// Parameters:
//   - enabled: true to log every sample
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogging(enabled bool) ProfilerBuilderOption {
	return func(p *profiler) {
		p.logStats = enabled
	}
}
