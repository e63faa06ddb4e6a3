// Package inspector exposes the application store over websockets and accepts remote input,
// which it posts onto the frame thread.
package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/engine/content"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

// ErrRejected is reported to control clients when the frame thread does not accept work.
var ErrRejected = errors.New("command rejected: engine not running")

// Snapshot is the JSON view of the application store sent to state clients.
type Snapshot struct {
	IsLoaded            bool             `json:"isLoaded"`
	CurrentSection      int              `json:"currentSection"`
	ScrollProgress      float64          `json:"scrollProgress"`
	IsMenuOpen          bool             `json:"isMenuOpen"`
	SelectedProject     *content.Project `json:"selectedProject"`
	FPS                 float64          `json:"fps"`
	QualityLevel        float64          `json:"qualityLevel"`
	RenderQuality       float64          `json:"renderQuality"`
	CameraPosition      [3]float32       `json:"cameraPosition"`
	CameraTarget        [3]float32       `json:"cameraTarget"`
	ParticleIntensity   float64          `json:"particleIntensity"`
	ShouldReduceQuality bool             `json:"shouldReduceQuality"`
}

// Command is a remote input message. Every set field is applied, in field order.
type Command struct {
	// Gesture is an entry gesture name: click, touch, enter or space.
	Gesture string `json:"gesture,omitempty"`
	// Sequence is "disassemble" or "reassemble".
	Sequence string `json:"sequence,omitempty"`
	// Pointer moves the pointer to a normalized position, y up.
	Pointer *[2]float32 `json:"pointer,omitempty"`
	// Click clicks at the current pointer.
	Click bool `json:"click,omitempty"`
	// Zoom changes the camera radius by the given delta.
	Zoom float32 `json:"zoom,omitempty"`
	// ToggleMenu flips the menu open state.
	ToggleMenu bool `json:"toggleMenu,omitempty"`
	// Camera sets the camera position through the store.
	Camera *[3]float32 `json:"camera,omitempty"`
}

// Reply acknowledges a control message.
type Reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// PosterFunc enqueues fn on the frame thread and reports whether it was accepted.
type PosterFunc func(fn func()) bool

// CommandHandler applies a command on the frame thread.
type CommandHandler func(cmd Command) error

// Inspector streams store snapshots to /state clients and applies /control commands.
type Inspector struct {
	mu      *sync.RWMutex
	writeMu *sync.Mutex

	state    *store.AppState
	post     PosterFunc
	handle   CommandHandler
	interval time.Duration

	clients     map[*websocket.Conn]bool
	dirty       bool
	unsubscribe []func()
	upgrader    websocket.Upgrader
}

// NewInspector creates an inspector over the given store. It subscribes to every store field
// and marks the snapshot dirty on change; Run broadcasts dirty snapshots every interval
// (100 ms by default).
//
// Parameters:
//   - state: the application store
//   - options: functional options applied after the defaults
//
// Returns:
//   - *Inspector: the new inspector
func NewInspector(state *store.AppState, options ...InspectorBuilderOption) *Inspector {
	in := &Inspector{
		mu:       &sync.RWMutex{},
		writeMu:  &sync.Mutex{},
		state:    state,
		interval: 100 * time.Millisecond,
		clients:  map[*websocket.Conn]bool{},
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	for _, opt := range options {
		opt(in)
	}
	if in.post == nil {
		in.post = func(fn func()) bool { fn(); return true }
	}

	markDirty := func() {
		in.mu.Lock()
		in.dirty = true
		in.mu.Unlock()
	}
	in.unsubscribe = []func(){
		state.IsLoaded.Subscribe(func(bool) { markDirty() }),
		state.CurrentSection.Subscribe(func(int) { markDirty() }),
		state.ScrollProgress.Subscribe(func(float64) { markDirty() }),
		state.IsMenuOpen.Subscribe(func(bool) { markDirty() }),
		state.SelectedProject.Subscribe(func(*content.Project) { markDirty() }),
		state.FPS.Subscribe(func(float64) { markDirty() }),
		state.QualityLevel.Subscribe(func(float64) { markDirty() }),
		state.RenderQuality.Subscribe(func(float64) { markDirty() }),
		state.CameraPosition.Subscribe(func(mgl32.Vec3) { markDirty() }),
		state.CameraTarget.Subscribe(func(mgl32.Vec3) { markDirty() }),
		state.ParticleIntensity.Subscribe(func(float64) { markDirty() }),
	}
	return in
}

// Snapshot reads the current store values.
//
// Returns:
//   - Snapshot: the snapshot
func (in *Inspector) Snapshot() Snapshot {
	s := in.state
	return Snapshot{
		IsLoaded:            s.IsLoaded.Get(),
		CurrentSection:      s.CurrentSection.Get(),
		ScrollProgress:      s.ScrollProgress.Get(),
		IsMenuOpen:          s.IsMenuOpen.Get(),
		SelectedProject:     s.SelectedProject.Get(),
		FPS:                 s.FPS.Get(),
		QualityLevel:        s.QualityLevel.Get(),
		RenderQuality:       s.RenderQuality.Get(),
		CameraPosition:      s.CameraPosition.Get(),
		CameraTarget:        s.CameraTarget.Get(),
		ParticleIntensity:   s.ParticleIntensity.Get(),
		ShouldReduceQuality: s.ShouldReduceQuality.Get(),
	}
}

// Handler returns the HTTP handler serving /state, /control and /health.
//
// Returns:
//   - http.Handler: the handler
func (in *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", in.HandleStateWS)
	mux.HandleFunc("/control", in.HandleControlWS)
	mux.HandleFunc("/health", in.HandleHealth)
	return mux
}

// HandleStateWS upgrades the connection and registers it for snapshot broadcasts. The current
// snapshot is sent immediately.
func (in *Inspector) HandleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := in.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Str("component", "inspector").Err(err).Msg("state upgrade")
		return
	}
	if err := in.send(conn, in.Snapshot()); err != nil {
		conn.Close()
		return
	}
	in.mu.Lock()
	in.clients[conn] = true
	in.mu.Unlock()

	go func() {
		defer func() {
			in.mu.Lock()
			delete(in.clients, conn)
			in.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleControlWS reads Command messages and answers each with a Reply.
func (in *Inspector) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := in.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Str("component", "inspector").Err(err).Msg("control upgrade")
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			_ = in.send(conn, Reply{Error: fmt.Sprintf("decode: %v", err)})
			continue
		}
		if err := in.apply(cmd); err != nil {
			_ = in.send(conn, Reply{Error: err.Error()})
			continue
		}
		_ = in.send(conn, Reply{OK: true})
	}
}

// HandleHealth writes the current snapshot as JSON.
func (in *Inspector) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(in.Snapshot())
}

// apply posts cmd to the frame thread and waits for its result.
func (in *Inspector) apply(cmd Command) error {
	if in.handle == nil {
		return errors.New("no command handler")
	}
	done := make(chan error, 1)
	if !in.post(func() { done <- in.handle(cmd) }) {
		return ErrRejected
	}
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		return errors.New("command timed out")
	}
}

// Flush broadcasts the current snapshot to every state client if it changed since the last
// broadcast.
//
// Returns:
//   - bool: true if a snapshot was sent
func (in *Inspector) Flush() bool {
	in.mu.Lock()
	if !in.dirty {
		in.mu.Unlock()
		return false
	}
	in.dirty = false
	conns := make([]*websocket.Conn, 0, len(in.clients))
	for c := range in.clients {
		conns = append(conns, c)
	}
	in.mu.Unlock()

	snap := in.Snapshot()
	for _, c := range conns {
		if err := in.send(c, snap); err != nil {
			log.Debug().Str("component", "inspector").Err(err).Msg("write snapshot")
		}
	}
	return true
}

// Run broadcasts dirty snapshots every interval until ctx is done.
//
// Parameters:
//   - ctx: cancels the loop
func (in *Inspector) Run(ctx context.Context) {
	ticker := time.NewTicker(in.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			in.Flush()
		}
	}
}

// ListenAndServe serves the inspector on addr and broadcasts snapshots until ctx is done.
//
// Parameters:
//   - ctx: stops the server
//   - addr: the listen address, e.g. "127.0.0.1:7878"
//
// Returns:
//   - error: the listen error, or nil after a clean shutdown
func (in *Inspector) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("inspector listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: in.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go in.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info().Str("component", "inspector").Str("addr", ln.Addr().String()).Msg("inspector listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close removes the store subscriptions and disconnects every state client.
func (in *Inspector) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, unsubscribe := range in.unsubscribe {
		unsubscribe()
	}
	in.unsubscribe = nil
	for c := range in.clients {
		c.Close()
		delete(in.clients, c)
	}
}

// send writes v as a JSON text message with a short deadline. gorilla connections allow one
// concurrent writer, so writes are serialized per inspector.
func (in *Inspector) send(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	in.writeMu.Lock()
	defer in.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return conn.WriteMessage(websocket.TextMessage, b)
}
