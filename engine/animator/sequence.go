package animator

import (
	"sync"
	"time"
)

// Kind identifies what a sequence does to its target.
type Kind int

const (
	KindDisassemble Kind = iota
	KindReassemble
)

func (k Kind) String() string {
	switch k {
	case KindDisassemble:
		return "disassemble"
	case KindReassemble:
		return "reassemble"
	default:
		return "unknown"
	}
}

// State is the lifecycle of a sequence: Scheduled -> Running -> Completed.
type State int

const (
	StateScheduled State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Sequence is one triggered disassembly or reassembly.
type Sequence interface {
	// Kind returns what the sequence does.
	Kind() Kind

	// State returns the current lifecycle state.
	State() State

	// Start returns the trigger time.
	Start() time.Time

	// CompletesAt returns the earliest time the sequence can complete:
	// start + (N-1)*stagger + duration.
	CompletesAt() time.Time

	// CompletedAt returns the frame time at which completion was observed, or the zero time.
	CompletedAt() time.Time

	// Done returns a channel closed when the sequence completes.
	Done() <-chan struct{}

	// OnComplete registers fn to run at completion. If the sequence has already completed
	// fn runs immediately.
	OnComplete(fn func())
}

type sequence struct {
	mu *sync.Mutex

	kind     Kind
	start    time.Time
	total    time.Duration
	tweens   []Tween
	finished []bool

	state       State
	completedAt time.Time
	done        chan struct{}
	callbacks   []func()
}

var _ Sequence = &sequence{}

func newSequence(kind Kind, start time.Time, tweens []Tween) *sequence {
	var total time.Duration
	for _, tw := range tweens {
		total = max(total, tw.End())
	}
	return &sequence{
		mu:       &sync.Mutex{},
		kind:     kind,
		start:    start,
		total:    total,
		tweens:   tweens,
		finished: make([]bool, len(tweens)),
		state:    StateScheduled,
		done:     make(chan struct{}),
	}
}

func (s *sequence) Kind() Kind {
	return s.kind
}

func (s *sequence) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sequence) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state > s.state {
		s.state = state
	}
}

func (s *sequence) Start() time.Time {
	return s.start
}

func (s *sequence) CompletesAt() time.Time {
	return s.start.Add(s.total)
}

func (s *sequence) CompletedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedAt
}

func (s *sequence) Done() <-chan struct{} {
	return s.done
}

func (s *sequence) OnComplete(fn func()) {
	s.mu.Lock()
	if s.state != StateCompleted {
		s.callbacks = append(s.callbacks, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

func (s *sequence) complete(now time.Time) {
	s.mu.Lock()
	if s.state == StateCompleted {
		s.mu.Unlock()
		return
	}
	s.state = StateCompleted
	s.completedAt = now
	callbacks := s.callbacks
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
