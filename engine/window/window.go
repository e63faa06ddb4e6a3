package window

import (
	"sync"
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	// MouseButtonLeft is the primary button.
	MouseButtonLeft MouseButton = iota

	// MouseButtonRight is the secondary button.
	MouseButtonRight

	// MouseButtonMiddle is the wheel button.
	MouseButtonMiddle
)

// Window defines the interface for a platform window. It delivers input and lifecycle
// events through callbacks and drives the frame loop through ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called once per loop iteration after events are processed.
	//
	// Parameters:
	//   - callback: the per-frame function
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: receives the new size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function called on vertical scroll.
	//
	// Parameters:
	//   - callback: receives the scroll delta
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function called on key press and repeat.
	//
	// Parameters:
	//   - callback: receives the key code (see common key codes)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function called on key release.
	//
	// Parameters:
	//   - callback: receives the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the function called when a pointer button is pressed.
	//
	// Parameters:
	//   - callback: receives the button and the cursor position in pixels
	SetMouseDownCallback(callback func(button MouseButton, x, y float64))

	// SetMouseUpCallback sets the function called when a pointer button is released.
	//
	// Parameters:
	//   - callback: receives the button and the cursor position in pixels
	SetMouseUpCallback(callback func(button MouseButton, x, y float64))

	// SetMouseMoveCallback sets the function called when the cursor moves.
	//
	// Parameters:
	//   - callback: receives the cursor position in pixels, origin top left
	SetMouseMoveCallback(callback func(x, y float64))

	// SetFocusCallback sets the function called when the window gains or loses focus.
	//
	// Parameters:
	//   - callback: receives true on focus
	SetFocusCallback(callback func(focused bool))

	// SetIconifyCallback sets the function called when the window is minimized or restored.
	//
	// Parameters:
	//   - callback: receives true when minimized
	SetIconifyCallback(callback func(iconified bool))

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: true until the window is closed
	IsRunning() bool

	// Close closes the window and ends ProcessMessages.
	//
	// Returns:
	//   - error: error if the window is not initialized
	Close() error

	// ProcessMessages runs the event loop, calling the update callback once per iteration,
	// until the window closes. It blocks and must run on the thread that created the window.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	//
	// Returns:
	//   - int: width
	Width() int

	// Height returns the framebuffer height in pixels.
	//
	// Returns:
	//   - int: height
	Height() int
}

// Callbacks holds the registered event callbacks and is embedded by Window implementations.
// The Emit methods are called by the platform layer (or by tests through the headless window).
type Callbacks struct {
	mu *sync.Mutex

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseDown func(button MouseButton, x, y float64)
	onMouseUp   func(button MouseButton, x, y float64)
	onMouseMove func(x, y float64)
	onFocus     func(focused bool)
	onIconify   func(iconified bool)
}

// NewCallbacks creates an empty callback set.
//
// Returns:
//   - *Callbacks: the callback set
func NewCallbacks() *Callbacks {
	return &Callbacks{mu: &sync.Mutex{}}
}

func (c *Callbacks) SetUpdateCallback(callback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = callback
}

func (c *Callbacks) SetResizeCallback(callback func(width, height int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResize = callback
}

func (c *Callbacks) SetScrollCallback(callback func(delta float32)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onScroll = callback
}

func (c *Callbacks) SetKeyDownCallback(callback func(keyCode uint32)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onKeyDown = callback
}

func (c *Callbacks) SetKeyUpCallback(callback func(keyCode uint32)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onKeyUp = callback
}

func (c *Callbacks) SetMouseDownCallback(callback func(button MouseButton, x, y float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMouseDown = callback
}

func (c *Callbacks) SetMouseUpCallback(callback func(button MouseButton, x, y float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMouseUp = callback
}

func (c *Callbacks) SetMouseMoveCallback(callback func(x, y float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMouseMove = callback
}

func (c *Callbacks) SetFocusCallback(callback func(focused bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFocus = callback
}

func (c *Callbacks) SetIconifyCallback(callback func(iconified bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIconify = callback
}

// EmitUpdate invokes the update callback if set.
func (c *Callbacks) EmitUpdate() {
	c.mu.Lock()
	fn := c.onUpdate
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// EmitResize invokes the resize callback if set.
func (c *Callbacks) EmitResize(width, height int) {
	c.mu.Lock()
	fn := c.onResize
	c.mu.Unlock()
	if fn != nil {
		fn(width, height)
	}
}

// EmitScroll invokes the scroll callback if set.
func (c *Callbacks) EmitScroll(delta float32) {
	c.mu.Lock()
	fn := c.onScroll
	c.mu.Unlock()
	if fn != nil {
		fn(delta)
	}
}

// EmitKeyDown invokes the key down callback if set.
func (c *Callbacks) EmitKeyDown(keyCode uint32) {
	c.mu.Lock()
	fn := c.onKeyDown
	c.mu.Unlock()
	if fn != nil {
		fn(keyCode)
	}
}

// EmitKeyUp invokes the key up callback if set.
func (c *Callbacks) EmitKeyUp(keyCode uint32) {
	c.mu.Lock()
	fn := c.onKeyUp
	c.mu.Unlock()
	if fn != nil {
		fn(keyCode)
	}
}

// EmitMouseDown invokes the mouse down callback if set.
func (c *Callbacks) EmitMouseDown(button MouseButton, x, y float64) {
	c.mu.Lock()
	fn := c.onMouseDown
	c.mu.Unlock()
	if fn != nil {
		fn(button, x, y)
	}
}

// EmitMouseUp invokes the mouse up callback if set.
func (c *Callbacks) EmitMouseUp(button MouseButton, x, y float64) {
	c.mu.Lock()
	fn := c.onMouseUp
	c.mu.Unlock()
	if fn != nil {
		fn(button, x, y)
	}
}

// EmitMouseMove invokes the mouse move callback if set.
func (c *Callbacks) EmitMouseMove(x, y float64) {
	c.mu.Lock()
	fn := c.onMouseMove
	c.mu.Unlock()
	if fn != nil {
		fn(x, y)
	}
}

// EmitFocus invokes the focus callback if set.
func (c *Callbacks) EmitFocus(focused bool) {
	c.mu.Lock()
	fn := c.onFocus
	c.mu.Unlock()
	if fn != nil {
		fn(focused)
	}
}

// EmitIconify invokes the iconify callback if set.
func (c *Callbacks) EmitIconify(iconified bool) {
	c.mu.Lock()
	fn := c.onIconify
	c.mu.Unlock()
	if fn != nil {
		fn(iconified)
	}
}
