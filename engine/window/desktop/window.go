// Package desktop implements window.Window on GLFW with a WebGPU surface.
package desktop

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Carmen-Shannon/oxy-frost/engine/window"
)

// Window is the GLFW-backed window.Window.
type Window struct {
	*window.Callbacks

	config  window.Config
	window  *glfw.Window
	running bool
}

var _ window.Window = &Window{}

// NewWindow creates the GLFW window with input callbacks. The calling goroutine is locked to its
// OS thread; every later call, including ProcessMessages, must come from the same goroutine.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
//
// Parameters:
//   - options: window configuration options
//
// Returns:
//   - *Window: the window
//   - error: an error if GLFW fails to initialize or create the window
func NewWindow(options ...window.WindowBuilderOption) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	w := &Window{
		Callbacks: window.NewCallbacks(),
		config:    window.NewConfig(options...),
		running:   true,
	}

	win, err := glfw.CreateWindow(w.config.Width, w.config.Height, w.config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	w.window = win
	win.SetSizeLimits(w.config.MinWidth, w.config.MinHeight, w.config.MaxWidth, w.config.MaxHeight)

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.EmitKeyDown(uint32(key))
		case glfw.Release:
			w.EmitKeyUp(uint32(key))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.EmitScroll(float32(yoff))
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := mouseButtons[button]
		if !ok {
			return
		}
		x, y := w.framebufferCursor()
		switch action {
		case glfw.Press:
			w.EmitMouseDown(b, x, y)
		case glfw.Release:
			w.EmitMouseUp(b, x, y)
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		x, y := w.toFramebuffer(xpos, ypos)
		w.EmitMouseMove(x, y)
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.EmitFocus(focused)
	})

	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		w.EmitIconify(iconified)
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.config.Width = width
		w.config.Height = height
		w.EmitResize(width, height)
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	w.config.Width, w.config.Height = win.GetFramebufferSize()
	return w, nil
}

var mouseButtons = map[glfw.MouseButton]window.MouseButton{
	glfw.MouseButtonLeft:   window.MouseButtonLeft,
	glfw.MouseButtonRight:  window.MouseButtonRight,
	glfw.MouseButtonMiddle: window.MouseButtonMiddle,
}

// toFramebuffer converts screen coordinates to framebuffer pixels.
func (w *Window) toFramebuffer(x, y float64) (float64, float64) {
	sw, sh := w.window.GetSize()
	if sw <= 0 || sh <= 0 {
		return x, y
	}
	return x * float64(w.config.Width) / float64(sw), y * float64(w.config.Height) / float64(sh)
}

func (w *Window) framebufferCursor() (float64, float64) {
	return w.toFramebuffer(w.window.GetCursorPos())
}

// SurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
//
// Returns:
//   - *wgpu.SurfaceDescriptor: the surface descriptor for gpu.NewBackend
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

// ContentScale returns the monitor content scale, used as the device pixel ratio.
//
// Returns:
//   - float64: the horizontal content scale
func (w *Window) ContentScale() float64 {
	x, _ := w.window.GetContentScale()
	return float64(x)
}

func (w *Window) IsRunning() bool {
	return w.running && !w.window.ShouldClose()
}

func (w *Window) Close() error {
	if w.window == nil {
		return fmt.Errorf("window is not initialized")
	}
	w.running = false
	w.window.SetShouldClose(true)
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	return nil
}

// ProcessMessages polls GLFW for pending events without blocking, then runs the update callback.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func (w *Window) ProcessMessages() {
	for w.window != nil && w.IsRunning() {
		glfw.PollEvents()
		if w.window == nil || !w.IsRunning() {
			break
		}
		w.EmitUpdate()
		runtime.Gosched()
	}
}

func (w *Window) Width() int {
	return w.config.Width
}

func (w *Window) Height() int {
	return w.config.Height
}
