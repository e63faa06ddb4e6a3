package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

// frameClock produces frame times at a steady rate. Each time is computed from the frame
// index so windows close exactly on the second.
type frameClock struct {
	start time.Time
	fps   int
	n     int
}

func (c *frameClock) now() time.Time {
	return c.start.Add(time.Duration(c.n) * time.Second / time.Duration(c.fps))
}

// drive ticks p for the given number of frames and returns the number of completed samples.
func (c *frameClock) drive(p Profiler, frames int) int {
	samples := 0
	for range frames {
		if p.Tick(c.now()) {
			samples++
		}
		c.n++
	}
	return samples
}

// after continues at a new rate from the last frame c produced.
func (c *frameClock) after(fps int) *frameClock {
	return &frameClock{start: c.start.Add(time.Duration(c.n-1) * time.Second / time.Duration(c.fps)), fps: fps, n: 1}
}

func TestTickSamplesOncePerWindow(t *testing.T) {
	p := NewProfiler()
	c := &frameClock{start: time.Unix(1000, 0), fps: 120}

	assert.Equal(t, 1, c.drive(p, 121))
	assert.InDelta(t, 120, p.FPS(), 1e-9)

	assert.Equal(t, 1, c.drive(p, 120))
	assert.InDelta(t, 120, p.FPS(), 1e-9)
}

func TestFirstWindowDoesNotCountOpeningFrame(t *testing.T) {
	p := NewProfiler()
	c := &frameClock{start: time.Unix(1000, 0), fps: 59}

	require.Equal(t, 1, c.drive(p, 60))
	assert.InDelta(t, 59, p.FPS(), 1e-9)
	assert.Equal(t, quality.MinTier, p.Tier())
}

func TestLowFrameRateStepsDown(t *testing.T) {
	p := NewProfiler()
	require.Equal(t, quality.MaxTier, p.Tier())

	c := &frameClock{start: time.Unix(1000, 0), fps: 40}
	c.drive(p, 41)

	assert.Equal(t, quality.MinTier, p.Tier())
	assert.InDelta(t, 40, p.FPS(), 1e-9)
}

func TestTierStaysAtFloor(t *testing.T) {
	p := NewProfiler(WithInitialTier(quality.MinTier))

	c := &frameClock{start: time.Unix(1000, 0), fps: 30}
	assert.Equal(t, 2, c.drive(p, 61))

	assert.Equal(t, quality.MinTier, p.Tier())
}

func TestHysteresisBand(t *testing.T) {
	p := NewProfiler(WithInitialTier(quality.MinTier))

	// 80 fps sits between the thresholds and leaves the tier alone.
	c := &frameClock{start: time.Unix(1000, 0), fps: 80}
	require.Equal(t, 1, c.drive(p, 81))
	assert.Equal(t, quality.MinTier, p.Tier())

	// above the restore threshold the tier climbs one rung
	require.Equal(t, 1, c.after(110).drive(p, 110))
	assert.Equal(t, quality.MaxTier, p.Tier())
	assert.InDelta(t, 110, p.FPS(), 1e-9)
}

func TestThreeRungLadderMovesOneRungPerSample(t *testing.T) {
	p := NewProfiler(WithLadder(quality.Ladder{0.5, 0.75, 1.0}))
	c := &frameClock{start: time.Unix(1000, 0), fps: 30}

	require.Equal(t, 1, c.drive(p, 31))
	assert.Equal(t, quality.Tier(0.75), p.Tier())

	require.Equal(t, 1, c.drive(p, 30))
	assert.Equal(t, quality.Tier(0.5), p.Tier())
}

func TestPausedIntervalIsNotSampled(t *testing.T) {
	p := NewProfiler()
	c := &frameClock{start: time.Unix(1000, 0), fps: 120}

	c.drive(p, 60)
	p.SetRunning(false)
	assert.False(t, p.IsRunning())
	assert.False(t, p.Tick(c.now().Add(5*time.Second)))

	// resume ten seconds later: the first tick opens a fresh window and is not counted
	p.SetRunning(true)
	resume := &frameClock{start: c.now().Add(10 * time.Second), fps: 59}
	assert.Equal(t, 1, resume.drive(p, 60))
	assert.InDelta(t, 59, p.FPS(), 1e-9)
	assert.Equal(t, quality.MinTier, p.Tier())
}

func TestPublishesIntoAppState(t *testing.T) {
	s := store.NewAppState()
	p := NewProfiler(WithAppState(s))

	require.InDelta(t, 120, s.FPS.Get(), 1e-9)
	require.InDelta(t, 1.0, s.QualityLevel.Get(), 1e-9)

	c := &frameClock{start: time.Unix(1000, 0), fps: 45}
	c.drive(p, 46)

	assert.InDelta(t, 45, s.FPS.Get(), 1e-9)
	assert.True(t, s.ShouldReduceQuality.Get())
	assert.InDelta(t, 0.5, s.QualityLevel.Get(), 1e-9)
	assert.InDelta(t, 0.5, s.RenderQuality.Get(), 1e-9)
}

func TestQualityCallbackFiresOnChangeOnly(t *testing.T) {
	p := NewProfiler(WithWindow(500 * time.Millisecond))
	var tiers []quality.Tier
	p.SetQualityCallback(func(tier quality.Tier) {
		tiers = append(tiers, tier)
	})

	// 20 frames per 500 ms window is a 20 fps estimate: one step down then nothing
	c := &frameClock{start: time.Unix(1000, 0), fps: 40}
	require.Equal(t, 2, c.drive(p, 41))
	require.Equal(t, 1, c.drive(p, 20))

	assert.Equal(t, []quality.Tier{quality.MinTier}, tiers)
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	p := NewProfiler(
		WithWindow(0),
		WithThresholds(100, 60),
		WithLadder(quality.Ladder{1.0, 0.5}),
		WithInitialFPS(-1),
	).(*profiler)

	assert.Equal(t, time.Second, p.window)
	assert.InDelta(t, 60, p.lowFPS, 1e-9)
	assert.InDelta(t, 100, p.highFPS, 1e-9)
	assert.Equal(t, quality.DefaultLadder, p.ladder)
	assert.InDelta(t, 120, p.FPS(), 1e-9)
}
