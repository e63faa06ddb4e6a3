package animator

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// ErrSequenceInFlight is returned when a sequence is triggered while another one against the
// same target is still Scheduled or Running.
var ErrSequenceInFlight = errors.New("animation sequence already in flight")

// Target is a set of independently animated elements with original-transform snapshots.
type Target interface {
	// Len returns the number of elements.
	Len() int
	// Transform returns the current transform of element i.
	Transform(i int) common.Transform
	// SetTransform replaces the current transform of element i.
	SetTransform(i int, t common.Transform)
	// Snapshot returns the original transform of element i.
	Snapshot(i int) common.Transform
}

// Sequencer schedules staggered disassembly and reassembly sequences against a Target and
// advances them from the frame loop. At most one sequence is in flight at a time.
type Sequencer interface {
	// Disassemble scatters every element outward and upward with a random tumble.
	// Element i starts i*stagger after now and eases out over the configured duration.
	//
	// Parameters:
	//   - now: the trigger time
	//
	// Returns:
	//   - Sequence: the scheduled sequence
	//   - error: ErrSequenceInFlight if another sequence has not completed
	Disassemble(now time.Time) (Sequence, error)

	// Reassemble returns every element to its snapshot, easing in and out, with the
	// reassembly stagger.
	//
	// Parameters:
	//   - now: the trigger time
	//
	// Returns:
	//   - Sequence: the scheduled sequence
	//   - error: ErrSequenceInFlight if another sequence has not completed
	Reassemble(now time.Time) (Sequence, error)

	// Advance applies the in-flight sequence at now. Elements whose tween has ended are set
	// exactly to their end transform. On the first call at or after the completion time the
	// sequence is marked Completed, its Done channel is closed and callbacks fire.
	//
	// Parameters:
	//   - now: the frame time
	Advance(now time.Time)

	// Active returns the in-flight sequence, or nil.
	//
	// Returns:
	//   - Sequence: the current sequence or nil if idle
	Active() Sequence

	// Disassembled reports whether the last completed sequence left the target scattered.
	//
	// Returns:
	//   - bool: true after a completed disassembly and before the next reassembly completes
	Disassembled() bool
}

type sequencer struct {
	mu     *sync.Mutex
	target Target
	rng    common.Random

	duration           time.Duration
	disassembleStagger time.Duration
	reassembleStagger  time.Duration
	disassembleEase    EaseFunc
	reassembleEase     EaseFunc
	scatter            float32
	onComplete         func(Sequence)
	active             *sequence
	disassembled       bool
}

var _ Sequencer = &sequencer{}

// NewSequencer creates a Sequencer for target with defaults of a 2 s duration,
// 50 ms disassembly stagger (power2.out), 30 ms reassembly stagger (power2.inOut) and a
// 2.5x scatter.
//
// Parameters:
//   - target: the elements to animate
//   - options: functional options applied after the defaults
//
// Returns:
//   - Sequencer: the new sequencer
func NewSequencer(target Target, options ...SequencerBuilderOption) Sequencer {
	s := &sequencer{
		mu:                 &sync.Mutex{},
		target:             target,
		rng:                common.NewRandom(uint64(time.Now().UnixNano())),
		duration:           2 * time.Second,
		disassembleStagger: 50 * time.Millisecond,
		reassembleStagger:  30 * time.Millisecond,
		disassembleEase:    Power2Out,
		reassembleEase:     Power2InOut,
		scatter:            2.5,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *sequencer) Disassemble(now time.Time) (Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrSequenceInFlight
	}

	n := s.target.Len()
	tweens := make([]Tween, n)
	for i := range n {
		from := s.target.Transform(i)
		to := from
		to.Position = from.Position.Mul(s.scatter)
		to.Position[1] += float32(s.rng.Float64()*2 + 1)
		to.Rotation = from.Rotation.Add(mgl32.Vec3{
			float32((s.rng.Float64() - 0.5) * math.Pi),
			float32((s.rng.Float64() - 0.5) * math.Pi),
			float32((s.rng.Float64() - 0.5) * math.Pi),
		})
		tweens[i] = Tween{
			From:     from,
			To:       to,
			Delay:    time.Duration(i) * s.disassembleStagger,
			Duration: s.duration,
			Ease:     s.disassembleEase,
		}
	}
	return s.schedule(KindDisassemble, now, tweens), nil
}

func (s *sequencer) Reassemble(now time.Time) (Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrSequenceInFlight
	}

	n := s.target.Len()
	tweens := make([]Tween, n)
	for i := range n {
		tweens[i] = Tween{
			From:     s.target.Transform(i),
			To:       s.target.Snapshot(i),
			Delay:    time.Duration(i) * s.reassembleStagger,
			Duration: s.duration,
			Ease:     s.reassembleEase,
		}
	}
	return s.schedule(KindReassemble, now, tweens), nil
}

func (s *sequencer) schedule(kind Kind, now time.Time, tweens []Tween) *sequence {
	seq := newSequence(kind, now, tweens)
	s.active = seq
	log.Debug().
		Str("component", "sequencer").
		Str("kind", kind.String()).
		Int("elements", len(tweens)).
		Dur("total", seq.total).
		Msg("sequence scheduled")
	return seq
}

func (s *sequencer) Advance(now time.Time) {
	s.mu.Lock()
	seq := s.active
	if seq == nil {
		s.mu.Unlock()
		return
	}

	elapsed := now.Sub(seq.start)
	if elapsed < 0 {
		s.mu.Unlock()
		return
	}
	seq.setState(StateRunning)

	for i, tw := range seq.tweens {
		if seq.finished[i] {
			continue
		}
		if elapsed < tw.Delay {
			continue
		}
		t, done := tw.Sample(elapsed)
		s.target.SetTransform(i, t)
		seq.finished[i] = done
	}

	if elapsed < seq.total {
		s.mu.Unlock()
		return
	}
	for i, tw := range seq.tweens {
		if !seq.finished[i] {
			s.target.SetTransform(i, tw.To)
		}
	}
	s.active = nil
	s.disassembled = seq.kind == KindDisassemble
	onComplete := s.onComplete
	s.mu.Unlock()

	log.Debug().Str("component", "sequencer").Str("kind", seq.kind.String()).Dur("late", elapsed-seq.total).Msg("sequence completed")
	seq.complete(now)
	if onComplete != nil {
		onComplete(seq)
	}
}

func (s *sequencer) Active() Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return s.active
}

func (s *sequencer) Disassembled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disassembled
}
