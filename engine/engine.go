package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/animator"
	"github.com/Carmen-Shannon/oxy-frost/engine/camera"
	"github.com/Carmen-Shannon/oxy-frost/engine/component"
	"github.com/Carmen-Shannon/oxy-frost/engine/compositor"
	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/device"
	"github.com/Carmen-Shannon/oxy-frost/engine/frame"
	"github.com/Carmen-Shannon/oxy-frost/engine/gesture"
	"github.com/Carmen-Shannon/oxy-frost/engine/inspector"
	"github.com/Carmen-Shannon/oxy-frost/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frost/engine/quality"
	"github.com/Carmen-Shannon/oxy-frost/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frost/engine/scene"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
	"github.com/Carmen-Shannon/oxy-frost/engine/window"
)

// ErrQuit is returned by RunFrame once Quit has been called.
var ErrQuit = errors.New("engine: quit")

// cameraEpsilon is the distance below which an externally written camera position is treated
// as the engine's own echo.
const cameraEpsilon = 1e-4

// engine implements the Engine interface.
// Every frame runs on the window's message thread; other goroutines reach it through Post.
type engine struct {
	mu *sync.Mutex

	window     window.Window
	renderer   renderer.Renderer
	scene      scene.Scene
	compositor compositor.Compositor
	profiler   profiler.Profiler
	gesture    gesture.Machine
	camera     camera.Camera
	appState   *store.AppState

	signals     device.Signals
	device      device.Profile
	reclassify  bool
	initialTier *quality.Tier

	projects          []content.Project
	sceneOptions      []scene.SceneBuilderOption
	compositorOptions []compositor.CompositorBuilderOption
	profilerOptions   []profiler.ProfilerBuilderOption
	gestureOptions    []gesture.MachineBuilderOption

	entryRadius   float32
	entryDuration time.Duration
	entryEase     animator.EaseFunc

	posted      chan func()
	quitChannel chan struct{}
	quitOnce    sync.Once

	clock            func() time.Time
	renderFrameLimit time.Duration
	profilerLogging  bool

	start     time.Time
	last      time.Time
	elapsed   float64
	frames    int
	pointer   frame.PointerState
	focused   bool
	iconified bool

	unsubscribe []func()
}

// Engine drives the scene: input, camera, entry gesture, sequencer, compositor and adaptive
// quality, one frame per window update.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer the compositor draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Scene returns the composed scene.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Compositor returns the post-processing compositor.
	//
	// Returns:
	//   - compositor.Compositor: the compositor
	Compositor() compositor.Compositor

	// Profiler returns the adaptive performance controller.
	//
	// Returns:
	//   - profiler.Profiler: the profiler
	Profiler() profiler.Profiler

	// Gesture returns the entry gesture state machine.
	//
	// Returns:
	//   - gesture.Machine: the machine
	Gesture() gesture.Machine

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Store returns the application store the engine publishes into.
	//
	// Returns:
	//   - *store.AppState: the store
	Store() *store.AppState

	// Device returns the device profile the quality ceiling is derived from.
	//
	// Returns:
	//   - device.Profile: the current profile
	Device() device.Profile

	// Bounds returns the resource bounds for the current quality tier and device.
	//
	// Returns:
	//   - quality.Bounds: the bounds used by the next frame
	Bounds() quality.Bounds

	// Init builds the scene on the renderer and arms the entry gesture.
	//
	// Returns:
	//   - error: error if the scene fails to build
	Init() error

	// Post enqueues fn to run at the start of the next frame on the frame thread.
	// Safe to call from any goroutine.
	//
	// Parameters:
	//   - fn: the work to run
	//
	// Returns:
	//   - bool: false if the queue is full or the engine has quit
	Post(fn func()) bool

	// RunFrame runs one frame at the given instant.
	//
	// Parameters:
	//   - now: the frame time
	//
	// Returns:
	//   - error: error if the scene is not built, the engine quit, or rendering failed
	RunFrame(now time.Time) error

	// HandleCommand applies a remote input command. It must run on the frame thread; the
	// inspector reaches it through Post.
	//
	// Parameters:
	//   - cmd: the command
	//
	// Returns:
	//   - error: the first error a command field produced
	HandleCommand(cmd inspector.Command) error

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// EnableProfiler enables the per-sample profiler log line.
	EnableProfiler()

	// DisableProfiler disables the per-sample profiler log line.
	DisableProfiler()

	// Run builds the scene if needed and runs the window's message loop until the window
	// closes or Quit is called, then releases every GPU resource.
	//
	// Returns:
	//   - error: error if the scene fails to build
	Run() error

	// Quit stops the loop at the next frame. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine. Anything not supplied through options is created with its
// defaults: a 1280x720 headless window, a headless renderer sized to it, an orbit camera at
// (-3, 2.5, 6) looking at the origin, the default projects, a fresh store, and a desktop
// device profile.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:            &sync.Mutex{},
		entryRadius:   5,
		entryDuration: 2 * time.Second,
		entryEase:     animator.Power2InOut,
		posted:        make(chan func(), 256),
		quitChannel:   make(chan struct{}),
		clock:         time.Now,
		focused:       true,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewHeadlessWindow()
	}
	width, height := e.window.Width(), e.window.Height()
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.WithSurfaceSize(width, height))
	}
	if e.appState == nil {
		e.appState = store.NewAppState()
	}
	if e.signals.ViewportWidth <= 0 {
		e.signals.ViewportWidth = device.LogicalWidth(width, e.signals.DevicePixelRatio)
	}
	e.device = device.Detect(e.signals)

	if e.camera == nil {
		e.camera = camera.NewCamera(
			camera.WithAspect(aspect(width, height)),
			camera.WithController(camera.NewCameraController(
				camera.WithTarget(mgl32.Vec3{0, 0, 0}),
				camera.WithPosition(mgl32.Vec3{-3, 2.5, 6}),
			)),
		)
	}
	if e.projects == nil {
		e.projects = content.Default()
	}
	if e.scene == nil {
		e.scene = scene.NewScene(e.projects, append([]scene.SceneBuilderOption{scene.WithCamera(e.camera)}, e.sceneOptions...)...)
	}
	if e.compositor == nil {
		e.compositor = compositor.NewCompositor(e.renderer, e.scene, e.compositorOptions...)
	}

	if e.profiler == nil {
		tier := quality.MaxTier
		if e.device.Mode == device.ModeLow {
			tier = quality.MinTier
		}
		if e.initialTier != nil {
			tier = *e.initialTier
		}
		e.profiler = profiler.NewProfiler(append(e.profilerOptions,
			profiler.WithAppState(e.appState),
			profiler.WithInitialTier(tier),
		)...)
	}

	if e.gesture == nil {
		e.gesture = gesture.NewMachine(append([]gesture.MachineBuilderOption{
			gesture.WithAppState(e.appState),
			gesture.WithZoomCallback(e.onEntryZoom),
		}, e.gestureOptions...)...)
	}

	e.publishCamera()
	e.unsubscribe = append(e.unsubscribe,
		e.appState.CameraPosition.Subscribe(func(p mgl32.Vec3) {
			if ctrl := e.camera.Controller(); ctrl != nil && !ctrl.Position().ApproxEqualThreshold(p, cameraEpsilon) {
				e.Post(func() { e.applyCameraPosition(p) })
			}
		}),
		e.appState.CameraTarget.Subscribe(func(t mgl32.Vec3) {
			if ctrl := e.camera.Controller(); ctrl != nil && !ctrl.Target().ApproxEqualThreshold(t, cameraEpsilon) {
				e.Post(func() { e.applyCameraTarget(t) })
			}
		}),
	)

	e.bindInput()

	log.Debug().
		Str("component", "engine").
		Str("device", e.device.Class.String()).
		Str("mode", e.device.Mode.String()).
		Bool("high_density", e.device.HighDensity).
		Int("width", width).
		Int("height", height).
		Msg("engine created")

	return e
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Compositor() compositor.Compositor {
	return e.compositor
}

func (e *engine) Profiler() profiler.Profiler {
	return e.profiler
}

func (e *engine) Gesture() gesture.Machine {
	return e.gesture
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Store() *store.AppState {
	return e.appState
}

func (e *engine) Device() device.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.device
}

func (e *engine) Bounds() quality.Bounds {
	return quality.Derive(e.profiler.Tier(), e.Device().Capabilities.Ceiling())
}

func (e *engine) Init() error {
	if e.scene.Ready() {
		return nil
	}
	if err := e.scene.Init(e.renderer); err != nil {
		return fmt.Errorf("init scene: %w", err)
	}
	e.gesture.Arm()
	return nil
}

func (e *engine) Post(fn func()) bool {
	select {
	case <-e.quitChannel:
		return false
	default:
	}
	select {
	case e.posted <- fn:
		return true
	default:
		log.Warn().Str("component", "engine").Msg("event queue full, dropping posted work")
		return false
	}
}

// drain runs every posted function queued at the start of the frame. Work posted while
// draining waits for the next frame.
func (e *engine) drain() {
	for n := len(e.posted); n > 0; n-- {
		select {
		case fn := <-e.posted:
			fn()
		default:
			return
		}
	}
}

func (e *engine) RunFrame(now time.Time) error {
	select {
	case <-e.quitChannel:
		return ErrQuit
	default:
	}
	if !e.scene.Ready() {
		return fmt.Errorf("run frame: %w", component.ErrNotInitialized)
	}

	e.drain()

	var delta float64
	if e.start.IsZero() {
		e.start, e.last = now, now
	} else if d := now.Sub(e.last).Seconds(); d > 0 {
		delta = d
		e.last = now
	}
	e.elapsed = max(e.elapsed, e.last.Sub(e.start).Seconds())

	if ctrl := e.camera.Controller(); ctrl != nil {
		ctrl.Advance(now)
	}
	e.camera.Update()
	e.gesture.Advance(now)
	e.scene.Sequencer().Advance(now)

	bounds := e.Bounds()
	width, height := e.renderer.SurfaceSize()
	ctx := frame.Context{
		Time:    e.elapsed,
		Delta:   delta,
		Now:     now,
		Camera:  e.camera.State(),
		Pointer: e.pointer,
		Tier:    e.profiler.Tier(),
		Bounds:  bounds,
		Width:   width,
		Height:  height,
	}
	e.scene.Update(ctx)
	e.publishCamera()

	e.compositor.SetBounds(bounds)
	if err := e.compositor.Render(e.elapsed * 1000); err != nil {
		return fmt.Errorf("render frame %d: %w", e.frames, err)
	}

	e.profiler.Tick(now)
	e.frames++
	return nil
}

func (e *engine) HandleCommand(cmd inspector.Command) error {
	now := e.clock()
	var errs []error

	if cmd.Pointer != nil {
		e.pointer = frame.PointerState{Position: mgl32.Vec2{
			common.Clamp(cmd.Pointer[0], -1, 1),
			common.Clamp(cmd.Pointer[1], -1, 1),
		}, Inside: true}
		e.hover()
	}
	if cmd.Gesture != "" {
		g, err := gesture.ParseGesture(cmd.Gesture)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.gesture.Handle(g, now)
		}
	}
	if cmd.Sequence != "" {
		if err := e.sequence(cmd.Sequence, now); err != nil {
			errs = append(errs, err)
		}
	}
	if cmd.Click {
		e.click(now)
	}
	if cmd.Zoom != 0 {
		e.zoom(cmd.Zoom)
	}
	if cmd.ToggleMenu {
		e.appState.ToggleMenu()
	}
	if cmd.Camera != nil {
		e.applyCameraPosition(mgl32.Vec3(*cmd.Camera))
	}
	return errors.Join(errs...)
}

func (e *engine) sequence(name string, now time.Time) error {
	var err error
	switch name {
	case "disassemble":
		_, err = e.scene.Sequencer().Disassemble(now)
	case "reassemble":
		_, err = e.scene.Sequencer().Reassemble(now)
	default:
		return fmt.Errorf("unknown sequence %q", name)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) EnableProfiler() {
	e.setProfilerLogging(true)
}

func (e *engine) DisableProfiler() {
	e.setProfilerLogging(false)
}

func (e *engine) setProfilerLogging(enabled bool) {
	e.mu.Lock()
	e.profilerLogging = enabled
	e.mu.Unlock()
	e.profiler.EnableLogging(enabled)
}

func (e *engine) Run() error {
	if err := e.Init(); err != nil {
		return err
	}
	e.window.SetUpdateCallback(e.update)
	defer e.shutdown()

	log.Info().Str("component", "engine").Msg("frame loop started")
	e.window.ProcessMessages()
	log.Info().Str("component", "engine").Int("frames", e.frames).Msg("frame loop stopped")
	return nil
}

// update is the window's per-iteration callback. A panic inside a frame is logged and ends
// the loop.
func (e *engine) update() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("component", "engine").Interface("panic", r).Msg("frame recovered from panic")
			e.Quit()
			_ = e.window.Close()
		}
	}()

	start := e.clock()
	if err := e.RunFrame(start); err != nil {
		if errors.Is(err, ErrQuit) {
			_ = e.window.Close()
			return
		}
		log.Warn().Str("component", "engine").Err(err).Msg("frame failed")
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.clock().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// shutdown releases the store subscriptions and every GPU resource.
func (e *engine) shutdown() {
	e.Quit()
	for _, unsubscribe := range e.unsubscribe {
		unsubscribe()
	}
	e.unsubscribe = nil
	e.compositor.Dispose()
	e.scene.Dispose(e.renderer)
	e.renderer.Release()
}

// onEntryZoom starts the entry camera move when the gesture machine triggers.
func (e *engine) onEntryZoom(now time.Time) {
	if ctrl := e.camera.Controller(); ctrl != nil {
		ctrl.ZoomTo(e.entryRadius, e.entryDuration, e.entryEase, now)
	}
	log.Info().Str("component", "engine").Msg("scene entered")
}

func (e *engine) zoom(delta float32) {
	if ctrl := e.camera.Controller(); ctrl != nil {
		ctrl.Zoom(delta)
	}
}

// publishCamera writes the controller pose into the store.
func (e *engine) publishCamera() {
	ctrl := e.camera.Controller()
	if ctrl == nil {
		return
	}
	target := ctrl.Target()
	e.appState.UpdateCamera(ctrl.Position(), &target)
}

// applyCameraPosition moves the controller to an externally written position, ignoring the
// engine's own publications.
func (e *engine) applyCameraPosition(p mgl32.Vec3) {
	ctrl := e.camera.Controller()
	if ctrl == nil || ctrl.Position().ApproxEqualThreshold(p, cameraEpsilon) {
		return
	}
	ctrl.SetPosition(p)
	e.camera.Update()
}

func (e *engine) applyCameraTarget(t mgl32.Vec3) {
	ctrl := e.camera.Controller()
	if ctrl == nil || ctrl.Target().ApproxEqualThreshold(t, cameraEpsilon) {
		return
	}
	ctrl.SetTarget(t)
	e.camera.Update()
}
