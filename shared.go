package asyncseq

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync/atomic"
)

// ErrBusy is returned by [Shared.TryNext] when another fetch is already
// in flight on the shared sequence.
var ErrBusy = errors.New("asyncseq: shared sequence busy")

// Shared lets several independent consumers attempt pulls on one
// sequence without corrupting it and without ever blocking. The gate is
// acquire-or-fail-fast: an attempt that arrives while another fetch is
// in flight returns [ErrBusy] immediately instead of queuing.
//
// Create one with [Share].
type Shared[T any] struct {
	src  *Seq[T]
	gate *Guard[bool] // true while a fetch is in flight
	done atomic.Bool  // set once the source is observed exhausted
}

// Share wraps src for shared access. Panics if src is nil.
//
// The wrapped sequence must not be pulled directly once shared.
func Share[T any](src *Seq[T]) *Shared[T] {
	if src == nil {
		panic("asyncseq: Share requires a non-nil sequence")
	}
	return &Shared[T]{src: src, gate: NewGuard(false)}
}

// TryNext attempts to pull the next element from the shared sequence.
// If another fetch is in flight it returns [ErrBusy] without blocking.
// Once the sequence has been observed exhausted, every later attempt
// short-circuits to io.EOF without re-entering the gate.
func (s *Shared[T]) TryNext(ctx context.Context) (T, error) {
	var zero T
	if s.done.Load() {
		return zero, io.EOF
	}

	acquired := Locked(s.gate, func(busy *bool) bool {
		if *busy {
			return false
		}
		*busy = true
		return true
	})
	if !acquired {
		return zero, ErrBusy
	}

	v, err := s.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		s.done.Store(true)
	}
	Locked(s.gate, func(busy *bool) bool {
		*busy = false
		return true
	})

	// Yield once so other pending attempts get a fair chance to grab
	// the now-free gate or observe the exhausted state.
	runtime.Gosched()

	return v, err
}

// Exhausted reports whether the shared sequence has been observed
// exhausted. The value may be stale in concurrent contexts.
func (s *Shared[T]) Exhausted() bool {
	return s.done.Load()
}
