package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

// Profiler is the adaptive performance controller. It counts frames over a fixed wall-clock
// window, adopts the count as the frame rate estimate and steps the quality tier along a
// ladder with hysteresis: one rung down below the low threshold, one rung up above the high
// threshold, no change in between.
type Profiler interface {
	// Tick should be called once per rendered frame from the frame loop.
	// When the sample window has elapsed, the frame count becomes the fps estimate,
	// the counter resets and the quality tier is adjusted.
	//
	// Parameters:
	//   - now: the wall-clock time of the frame
	//
	// Returns:
	//   - bool: true if a sample was taken this tick, false otherwise
	Tick(now time.Time) bool

	// FPS returns the latest frame rate estimate.
	//
	// Returns:
	//   - float64: frames counted in the last completed window
	FPS() float64

	// Tier returns the current quality tier.
	//
	// Returns:
	//   - quality.Tier: the current rung of the ladder
	Tier() quality.Tier

	// IsRunning reports whether sampling is active.
	//
	// Returns:
	//   - bool: true if frames are being counted
	IsRunning() bool

	// SetRunning pauses or resumes sampling, e.g. while the window is iconified.
	// Resuming restarts the sample window on the next tick so the paused interval
	// is never read as a slow window.
	//
	// Parameters:
	//   - running: false to pause, true to resume
	SetRunning(running bool)

	// SetQualityCallback registers a function called whenever the tier changes.
	//
	// Parameters:
	//   - callback: receives the new tier (or nil to disable)
	SetQualityCallback(callback func(tier quality.Tier))

	// EnableLogging toggles the per-sample structured log line.
	//
	// Parameters:
	//   - enabled: true to log every sample
	EnableLogging(enabled bool)
}

type profiler struct {
	mu *sync.Mutex

	frameCount  int
	windowStart time.Time
	window      time.Duration
	restart     bool

	fps      float64
	lowFPS   float64
	highFPS  float64
	ladder   quality.Ladder
	rung     int
	running  bool
	logStats bool

	appState  *store.AppState
	onQuality func(tier quality.Tier)

	memStats runtime.MemStats
}

var _ Profiler = &profiler{}

// NewProfiler creates a new Profiler with default settings: a 1000 ms window,
// thresholds 60/100 fps, the default two-rung ladder starting at full quality,
// and an initial estimate of 120 fps.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Profiler: the newly created controller
func NewProfiler(options ...ProfilerBuilderOption) Profiler {
	p := &profiler{
		mu:      &sync.Mutex{},
		window:  time.Second,
		restart: true,
		fps:     120,
		lowFPS:  60,
		highFPS: 100,
		ladder:  quality.DefaultLadder,
		running: true,
	}
	p.rung = p.ladder.Top()

	for _, opt := range options {
		opt(p)
	}

	if p.appState != nil {
		p.appState.UpdateFPS(p.fps)
		p.appState.AdjustQuality(float64(p.ladder[p.rung]))
	}
	return p
}

func (p *profiler) Tick(now time.Time) bool {
	p.mu.Lock()

	if !p.running {
		p.mu.Unlock()
		return false
	}
	// the frame that opens a window only marks its start
	if p.restart {
		p.windowStart = now
		p.frameCount = 0
		p.restart = false
		p.mu.Unlock()
		return false
	}

	p.frameCount++
	elapsed := now.Sub(p.windowStart)
	if elapsed < p.window {
		p.mu.Unlock()
		return false
	}

	p.fps = float64(p.frameCount)
	p.frameCount = 0
	p.windowStart = now

	prev := p.rung
	switch {
	case p.fps < p.lowFPS && p.rung > 0:
		p.rung--
	case p.fps > p.highFPS && p.rung < p.ladder.Top():
		p.rung++
	}
	fps, tier, changed := p.fps, p.ladder[p.rung], p.rung != prev
	appState, onQuality, logStats := p.appState, p.onQuality, p.logStats
	p.mu.Unlock()

	if logStats {
		runtime.ReadMemStats(&p.memStats)
		log.Info().
			Str("component", "profiler").
			Float64("fps", fps).
			Float64("tier", float64(tier)).
			Dur("window", elapsed).
			Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024).
			Uint32("gc", p.memStats.NumGC).
			Msg("frame sample")
	}

	if appState != nil {
		appState.UpdateFPS(fps)
		if changed {
			appState.AdjustQuality(float64(tier))
		}
	}
	if changed {
		log.Debug().Str("component", "profiler").Float64("fps", fps).Float64("tier", float64(tier)).Msg("quality tier changed")
		if onQuality != nil {
			onQuality(tier)
		}
	}
	return true
}

func (p *profiler) FPS() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fps
}

func (p *profiler) Tier() quality.Tier {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ladder[p.rung]
}

func (p *profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *profiler) SetRunning(running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if running && !p.running {
		p.restart = true
	}
	p.running = running
}

func (p *profiler) SetQualityCallback(callback func(tier quality.Tier)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onQuality = callback
}

func (p *profiler) EnableLogging(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logStats = enabled
}
