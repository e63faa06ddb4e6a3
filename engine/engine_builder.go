package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/camera"
	"github.com/Carmen-Shannon/oxy-frost/engine/compositor"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/device"
	"github.com/Carmen-Shannon/oxy-frost/engine/gesture"
	"github.com/Carmen-Shannon/oxy-frost/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/scene"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
	"github.com/Carmen-Shannon/oxy-frost/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the per-sample profiler log line.
//
// Parameters:
//   - enabled: if true, every profiler sample is logged
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilerLogging = enabled
		e.profilerOptions = append(e.profilerOptions, profiler.WithLogging(enabled))
	}
}

// WithWindow sets the window the engine runs on rather than a headless one.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer, typically one over the WebGPU backend.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera replaces the default orbit camera. The camera must carry a controller.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithAppState publishes into an existing store.
//
// Parameters:
//   - s: the store
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAppState(s *store.AppState) EngineBuilderOption {
	return func(e *engine) {
		e.appState = s
	}
}

// WithProjects sets the project records shown as markers.
//
// Parameters:
//   - projects: the records
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProjects(projects []content.Project) EngineBuilderOption {
	return func(e *engine) {
		e.projects = projects
	}
}

// WithScene replaces the scene the engine would build. Scene options are ignored when set.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithSceneOptions are applied to the scene the engine builds.
func WithSceneOptions(options ...scene.SceneBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sceneOptions = append(e.sceneOptions, options...)
	}
}

// WithCompositorOptions are applied to the compositor the engine builds.
func WithCompositorOptions(options ...compositor.CompositorBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.compositorOptions = append(e.compositorOptions, options...)
	}
}

// WithProfilerOptions are applied before the engine binds the profiler to its store and starting tier.
func WithProfilerOptions(options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilerOptions = append(e.profilerOptions, options...)
	}
}

// WithGestureOptions are applied after the engine's own gesture machine defaults.
func WithGestureOptions(options ...gesture.MachineBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.gestureOptions = append(e.gestureOptions, options...)
	}
}

// WithDeviceSignals sets the signals the device profile is classified from. A zero viewport
// width is replaced by the window width.
//
// Parameters:
//   - s: the device signals
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDeviceSignals(s device.Signals) EngineBuilderOption {
	return func(e *engine) {
		e.signals = s
	}
}

// WithReclassifyOnResize re-runs device classification whenever the window is resized.
//
// Parameters:
//   - enabled: true to reclassify on resize
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReclassifyOnResize(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.reclassify = enabled
	}
}

// WithInitialTier overrides the starting tier the device mode would choose.
//
// Parameters:
//   - tier: the starting tier
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInitialTier(tier quality.Tier) EngineBuilderOption {
	return func(e *engine) {
		e.initialTier = &tier
	}
}

// WithEntryZoom sets the camera move started by the entry gesture.
//
// Parameters:
//   - radius: the radius to zoom to (default 5)
//   - duration: the zoom duration (default 2 s)
//   - ease: the easing (default power2.inOut); nil keeps the default
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEntryZoom(radius float32, duration time.Duration, ease animator.EaseFunc) EngineBuilderOption {
	return func(e *engine) {
		if radius > 0 {
			e.entryRadius = radius
		}
		if duration > 0 {
			e.entryDuration = duration
		}
		if ease != nil {
			e.entryEase = ease
		}
	}
}

// WithClock sets the clock the window-driven loop and input handlers read.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(clock func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
