package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/device"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/gesture"
	"github.com/Carmen-Shannon/oxy-frost/engine/window"
)

// bindInput routes window events into the engine. Window callbacks fire on the frame thread.
func (e *engine) bindInput() {
	e.window.SetResizeCallback(e.onResize)
	e.window.SetMouseMoveCallback(func(x, y float64) {
		e.pointer = frame.NewPointerState(x, y, e.window.Width(), e.window.Height())
		e.hover()
	})
	e.window.SetMouseDownCallback(func(button window.MouseButton, x, y float64) {
		if button != window.MouseButtonLeft {
			return
		}
		e.pointer = frame.NewPointerState(x, y, e.window.Width(), e.window.Height())
		e.click(e.clock())
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		e.onKey(int(keyCode), e.clock())
	})
	e.window.SetScrollCallback(e.zoom)
	e.window.SetFocusCallback(func(focused bool) {
		e.focused = focused
		e.profiler.SetRunning(e.focused && !e.iconified)
	})
	e.window.SetIconifyCallback(func(iconified bool) {
		e.iconified = iconified
		e.profiler.SetRunning(e.focused && !e.iconified)
	})
}

func (e *engine) hover() {
	if !e.scene.Ready() {
		return
	}
	if !e.pointer.Inside {
		e.scene.Hover(nil)
		return
	}
	pos := e.pointer.Position
	e.scene.Hover(&pos)
}

// click feeds the entry gesture first; once the scene is entered a click selects the marker
// under the pointer, and a click on empty space clears the selection.
func (e *engine) click(now time.Time) {
	if e.gesture.State() != gesture.StateEntered {
		e.gesture.Handle(gesture.GestureClick, now)
		return
	}
	if !e.scene.Ready() {
		return
	}
	if p, ok := e.scene.Click(e.pointer.Position); ok {
		e.appState.SelectProject(p)
		log.Debug().Str("component", "engine").Int("project", p.ID).Str("title", p.Title).Msg("project selected")
		return
	}
	e.appState.SelectProject(nil)
}

func (e *engine) onKey(key int, now time.Time) {
	if g, ok := gesture.FromKey(key); ok {
		e.gesture.Handle(g, now)
		return
	}
	switch key {
	case common.KeyD:
		if err := e.sequence("disassemble", now); err != nil {
			log.Debug().Str("component", "engine").Err(err).Msg("sequence ignored")
		}
	case common.KeyR:
		if err := e.sequence("reassemble", now); err != nil {
			log.Debug().Str("component", "engine").Err(err).Msg("sequence ignored")
		}
	case common.KeyP:
		e.mu.Lock()
		enabled := !e.profilerLogging
		e.mu.Unlock()
		e.setProfilerLogging(enabled)
	case common.KeyEsc:
		e.Quit()
	}
}

func (e *engine) onResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.compositor.Resize(width, height)
	e.camera.SetAspect(aspect(width, height))

	if !e.reclassify {
		return
	}
	e.mu.Lock()
	signals := e.signals
	signals.ViewportWidth = device.LogicalWidth(width, signals.DevicePixelRatio)
	profile := device.Detect(signals)
	changed := profile.Class != e.device.Class
	e.signals = signals
	e.device = profile
	e.mu.Unlock()
	if changed {
		log.Info().Str("component", "engine").Str("device", profile.Class.String()).Int("width", width).Msg("device reclassified")
	}
}
