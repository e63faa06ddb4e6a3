// Package gesture implements the entry gesture that takes the scene from the loading overlay to
// the interactive view.
package gesture

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/common"
	"github.com/Carmen-Shannon/oxy-frost/engine/store"
)

// State is a step of the entry sequence. States only move forward.
type State int

const (
	StateIdle State = iota
	StateWaitingForGesture
	StateZoomTriggered
	StateEntered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingForGesture:
		return "waiting_for_gesture"
	case StateZoomTriggered:
		return "zoom_triggered"
	case StateEntered:
		return "entered"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Gesture is a user input that may trigger entry.
type Gesture int

const (
	GestureClick Gesture = iota
	GestureTouch
	GestureEnter
	GestureSpace
)

func (g Gesture) String() string {
	switch g {
	case GestureClick:
		return "click"
	case GestureTouch:
		return "touch"
	case GestureEnter:
		return "enter"
	case GestureSpace:
		return "space"
	default:
		return fmt.Sprintf("Gesture(%d)", int(g))
	}
}

// FromKey maps a key code to its entry gesture. Enter, keypad Enter and Space qualify.
//
// Parameters:
//   - key: the key code
//
// Returns:
//   - Gesture: the gesture
//   - bool: false for keys that are not entry gestures
func FromKey(key int) (Gesture, bool) {
	switch key {
	case common.KeyEnter, common.KeyKPEnter:
		return GestureEnter, true
	case common.KeySpace:
		return GestureSpace, true
	default:
		return 0, false
	}
}

// ParseGesture parses a gesture name as produced by Gesture.String.
//
// Parameters:
//   - name: the gesture name
//
// Returns:
//   - Gesture: the gesture
//   - error: an error for unknown names
func ParseGesture(name string) (Gesture, error) {
	for _, g := range []Gesture{GestureClick, GestureTouch, GestureEnter, GestureSpace} {
		if g.String() == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown gesture %q", name)
}

type machine struct {
	mu *sync.Mutex

	state       State
	triggeredAt time.Time
	delay       time.Duration
	fade        time.Duration

	onZoom      func(now time.Time)
	subscribers map[int]func(now time.Time)
	nextID      int
	appState    *store.AppState
}

// Machine is the entry gesture state machine: Idle, WaitingForGesture, ZoomTriggered and the
// terminal Entered. It is safe for concurrent use; callbacks run without the lock held.
type Machine interface {
	// State returns the current state.
	//
	// Returns:
	//   - State: the state
	State() State

	// Arm moves Idle to WaitingForGesture once the scene is built.
	//
	// Returns:
	//   - bool: false if the machine was not Idle
	Arm() bool

	// Handle consumes a gesture. The first gesture while WaitingForGesture triggers the entry
	// zoom: the zoom callback runs, the overlay removal is scheduled and subscribers are told
	// the scene has been entered. Every other gesture is a no-op.
	//
	// Parameters:
	//   - g: the gesture
	//   - now: the time of the gesture
	//
	// Returns:
	//   - bool: true if this gesture triggered the zoom
	Handle(g Gesture, now time.Time) bool

	// Advance moves ZoomTriggered to Entered once the overlay has been removed, and marks the
	// store loaded.
	//
	// Parameters:
	//   - now: the frame time
	Advance(now time.Time)

	// OverlayOpacity returns the loading overlay opacity: 1 until the removal delay has passed,
	// then a linear fade to 0.
	//
	// Parameters:
	//   - now: the frame time
	//
	// Returns:
	//   - float64: the opacity in [0, 1]
	OverlayOpacity(now time.Time) float64

	// RemovalAt returns the time the overlay is gone, or the zero time before the trigger.
	//
	// Returns:
	//   - time.Time: trigger time plus delay plus fade
	RemovalAt() time.Time

	// Subscribe registers a function called with the trigger time when the scene is entered.
	//
	// Parameters:
	//   - fn: the subscriber
	//
	// Returns:
	//   - func(): removes the subscription
	Subscribe(fn func(now time.Time)) func()
}

var _ Machine = &machine{}

// NewMachine creates an Idle machine with a 1000 ms overlay delay and a 500 ms fade.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Machine: the new machine
func NewMachine(options ...MachineBuilderOption) Machine {
	m := &machine{
		mu:          &sync.Mutex{},
		delay:       1000 * time.Millisecond,
		fade:        500 * time.Millisecond,
		subscribers: make(map[int]func(time.Time)),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *machine) Arm() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return false
	}
	m.state = StateWaitingForGesture
	log.Debug().Str("component", "gesture").Msg("waiting for entry gesture")
	return true
}

func (m *machine) Handle(g Gesture, now time.Time) bool {
	m.mu.Lock()
	if m.state != StateWaitingForGesture {
		m.mu.Unlock()
		return false
	}
	m.state = StateZoomTriggered
	m.triggeredAt = now
	onZoom := m.onZoom
	subs := make([]func(time.Time), 0, len(m.subscribers))
	for id := range m.nextID {
		if fn, ok := m.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	log.Info().Str("component", "gesture").Str("gesture", g.String()).Msg("entry zoom triggered")
	if onZoom != nil {
		onZoom(now)
	}
	for _, fn := range subs {
		fn(now)
	}
	return true
}

func (m *machine) Advance(now time.Time) {
	m.mu.Lock()
	if m.state != StateZoomTriggered || now.Before(m.triggeredAt.Add(m.delay+m.fade)) {
		m.mu.Unlock()
		return
	}
	m.state = StateEntered
	appState := m.appState
	m.mu.Unlock()

	log.Debug().Str("component", "gesture").Msg("overlay removed")
	if appState != nil {
		appState.SetLoaded(true)
	}
}

func (m *machine) OverlayOpacity(now time.Time) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateIdle, StateWaitingForGesture:
		return 1
	case StateEntered:
		return 0
	}
	elapsed := now.Sub(m.triggeredAt.Add(m.delay))
	if elapsed <= 0 {
		return 1
	}
	if m.fade <= 0 || elapsed >= m.fade {
		return 0
	}
	return 1 - float64(elapsed)/float64(m.fade)
}

func (m *machine) RemovalAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state < StateZoomTriggered {
		return time.Time{}
	}
	return m.triggeredAt.Add(m.delay + m.fade)
}

func (m *machine) Subscribe(fn func(now time.Time)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}
