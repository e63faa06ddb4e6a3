package window

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// HeadlessWindow is a Window without a display. Events are injected through the embedded
// Callbacks' Emit methods, and ProcessMessages runs the update callback until Close is called
// or the optional frame limit is reached.
type HeadlessWindow struct {
	*Callbacks

	mu      *sync.Mutex
	config  Config
	running atomic.Bool
	frames  int
	limit   int
}

var _ Window = &HeadlessWindow{}

// NewHeadlessWindow creates a running headless window.
//
// Parameters:
//   - options: window configuration options (size is used, title is ignored)
//
// Returns:
//   - *HeadlessWindow: the window
func NewHeadlessWindow(options ...WindowBuilderOption) *HeadlessWindow {
	w := &HeadlessWindow{
		Callbacks: NewCallbacks(),
		mu:        &sync.Mutex{},
		config:    NewConfig(options...),
	}
	w.running.Store(true)
	return w
}

// SetFrameLimit stops ProcessMessages after n updates. Zero or negative means no limit.
//
// Parameters:
//   - n: maximum number of update iterations
func (w *HeadlessWindow) SetFrameLimit(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limit = n
}

// Frames returns the number of update iterations run so far.
//
// Returns:
//   - int: completed iterations
func (w *HeadlessWindow) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Resize changes the framebuffer size and emits the resize callback.
//
// Parameters:
//   - width, height: new size in pixels
func (w *HeadlessWindow) Resize(width, height int) {
	w.mu.Lock()
	w.config.Width = width
	w.config.Height = height
	w.mu.Unlock()
	w.EmitResize(width, height)
}

func (w *HeadlessWindow) IsRunning() bool {
	return w.running.Load()
}

func (w *HeadlessWindow) Close() error {
	if !w.running.Swap(false) {
		return errors.New("window is not running")
	}
	return nil
}

func (w *HeadlessWindow) ProcessMessages() {
	for w.IsRunning() {
		w.EmitUpdate()

		w.mu.Lock()
		w.frames++
		done := w.limit > 0 && w.frames >= w.limit
		w.mu.Unlock()
		if done {
			w.running.Store(false)
			break
		}

		runtime.Gosched()
	}
}

func (w *HeadlessWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config.Width
}

func (w *HeadlessWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config.Height
}
