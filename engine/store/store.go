// Package store provides typed publish/subscribe values. Each field of the application
// state is its own Value, so subscribers only hear about the field they care about.
package store

import (
	"sort"
	"sync"
)

// Readable is the read side of a Value.
type Readable[T any] interface {
	// Get returns the current value.
	//
	// Returns:
	//   - T: the current value
	Get() T

	// Subscribe registers fn to receive every future value. fn is called once
	// immediately with the current value before Subscribe returns.
	//
	// Parameters:
	//   - fn: the subscriber callback
	//
	// Returns:
	//   - func(): unsubscribes fn; safe to call more than once
	Subscribe(fn func(T)) func()
}

// Value is a single-writer, multi-reader observable holding one T.
// Safe for concurrent use; subscribers run on the goroutine that calls Set.
type Value[T any] struct {
	mu   *sync.Mutex
	v    T
	next int
	subs map[int]func(T)
}

var _ Readable[int] = &Value[int]{}

// NewValue creates a Value holding initial.
//
// Parameters:
//   - initial: the starting value
//
// Returns:
//   - *Value[T]: the new value
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		mu:   &sync.Mutex{},
		v:    initial,
		subs: make(map[int]func(T)),
	}
}

func (s *Value[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// Set stores v and notifies subscribers in subscription order.
//
// Parameters:
//   - v: the new value
func (s *Value[T]) Set(v T) {
	s.mu.Lock()
	s.v = v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update replaces the value with fn(current) and notifies subscribers.
//
// Parameters:
//   - fn: maps the current value to the new one
func (s *Value[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.v = fn(s.v)
	v := s.v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
}

func (s *Value[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	v := s.v
	s.mu.Unlock()

	fn(v)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// snapshot copies the subscriber list in subscription order. Caller holds mu.
func (s *Value[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}

// Derived is a read-only value computed from a source value.
type Derived[S, T any] struct {
	out    *Value[T]
	cancel func()
}

var _ Readable[bool] = &Derived[int, bool]{}

// Derive creates a value that tracks fn(src) for every change of src.
//
// Parameters:
//   - src: the source value
//   - fn: maps a source value to the derived value
//
// Returns:
//   - *Derived[S, T]: the derived value
func Derive[S, T any](src Readable[S], fn func(S) T) *Derived[S, T] {
	d := &Derived[S, T]{out: NewValue(fn(src.Get()))}
	d.cancel = src.Subscribe(func(v S) {
		d.out.Set(fn(v))
	})
	return d
}

func (d *Derived[S, T]) Get() T {
	return d.out.Get()
}

func (d *Derived[S, T]) Subscribe(fn func(T)) func() {
	return d.out.Subscribe(fn)
}

// Close detaches the derived value from its source.
func (d *Derived[S, T]) Close() {
	d.cancel()
}
