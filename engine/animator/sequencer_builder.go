package animator

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frost/common"
)

// SequencerBuilderOption is a functional option for configuring a Sequencer.
type SequencerBuilderOption func(*sequencer)

// WithDuration sets the per-element tween duration. Values <= 0 are ignored.
func WithDuration(d time.Duration) SequencerBuilderOption {
	return func(s *sequencer) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithStagger sets the per-element start offsets for disassembly and reassembly.
// Negative values are ignored.
//
// Parameters:
//   - disassemble: offset between consecutive elements when scattering
//   - reassemble: offset between consecutive elements when restoring
//
// Returns:
//   - SequencerBuilderOption: option function to apply
func WithStagger(disassemble, reassemble time.Duration) SequencerBuilderOption {
	return func(s *sequencer) {
		if disassemble >= 0 {
			s.disassembleStagger = disassemble
		}
		if reassemble >= 0 {
			s.reassembleStagger = reassemble
		}
	}
}

// WithEasing replaces the disassembly and reassembly eases. Nil keeps the default.
func WithEasing(disassemble, reassemble EaseFunc) SequencerBuilderOption {
	return func(s *sequencer) {
		if disassemble != nil {
			s.disassembleEase = disassemble
		}
		if reassemble != nil {
			s.reassembleEase = reassemble
		}
	}
}

// WithScatter sets the factor applied to element positions when disassembling.
func WithScatter(factor float32) SequencerBuilderOption {
	return func(s *sequencer) {
		if factor > 0 {
			s.scatter = factor
		}
	}
}

// WithRandom injects the random source used for scatter heights and tumbles.
func WithRandom(rng common.Random) SequencerBuilderOption {
	return func(s *sequencer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithCompletionCallback registers a function called after every sequence completes.
func WithCompletionCallback(fn func(Sequence)) SequencerBuilderOption {
	return func(s *sequencer) {
		s.onComplete = fn
	}
}
