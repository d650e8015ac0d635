package asyncseq

import (
	"context"
	"io"
)

// Seq is a lazy, pull-based asynchronous sequence.
//
// Next returns io.EOF once the sequence is exhausted. Sequences are
// finite and not restartable: after a terminal signal, further Next
// calls keep returning the same signal, never earlier elements.
//
// Note: Seqs are single-consumer. Next must not be called concurrently.
// Use [Share] to let several consumers attempt pulls on one sequence.
type Seq[T any] struct {
	next func(ctx context.Context) (T, error)
}

// NewSeq creates a sequence from an iterator function. The function
// must return io.EOF on exhaustion.
func NewSeq[T any](next func(context.Context) (T, error)) *Seq[T] {
	if next == nil {
		panic("asyncseq: NewSeq requires a non-nil iterator")
	}
	return &Seq[T]{next: next}
}

// Next returns the next element in the sequence.
// Returns io.EOF when the sequence is exhausted.
func (s *Seq[T]) Next(ctx context.Context) (T, error) {
	return s.next(ctx)
}

// FromSlice creates a sequence that yields the items in order.
func FromSlice[T any](items []T) *Seq[T] {
	var idx int
	return NewSeq(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			var zero T
			return zero, io.EOF
		default:
		}
		if idx >= len(items) {
			var zero T
			return zero, io.EOF
		}
		val := items[idx]
		idx++
		return val, nil
	})
}

// FromChan creates a sequence that yields values received from ch
// until ch is closed.
func FromChan[T any](ch <-chan T) *Seq[T] {
	return NewSeq(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			var zero T
			return zero, io.EOF
		case v, ok := <-ch:
			if !ok {
				var zero T
				return zero, io.EOF
			}
			return v, nil
		}
	})
}

// FromFunc creates a sequence from a function.
func FromFunc[T any](fn func(context.Context) (T, error)) *Seq[T] {
	return NewSeq(fn)
}

// Of creates a sequence that yields the given values, then finishes.
func Of[T any](vs ...T) *Seq[T] {
	return FromSlice(vs)
}

// Empty creates a sequence that finishes immediately.
func Empty[T any]() *Seq[T] {
	return NewSeq(func(context.Context) (T, error) {
		var zero T
		return zero, io.EOF
	})
}

// Fail creates a sequence that fails immediately with err, and keeps
// returning err on every subsequent call. Panics if err is nil.
func Fail[T any](err error) *Seq[T] {
	if err == nil {
		panic("asyncseq: Fail requires a non-nil error")
	}
	return NewSeq(func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

// ToSlice collects all remaining elements into a slice. On error it
// returns the elements collected so far alongside the error, following
// io.Reader conventions.
func (s *Seq[T]) ToSlice(ctx context.Context) ([]T, error) {
	var items []T
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, val)
	}
}

// Collect is an alias for ToSlice.
func (s *Seq[T]) Collect(ctx context.Context) ([]T, error) {
	return s.ToSlice(ctx)
}

// ForEach applies fn to each remaining element.
func (s *Seq[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(val); err != nil {
			return err
		}
	}
}

// Count consumes the sequence and returns the number of elements.
func (s *Seq[T]) Count(ctx context.Context) (int, error) {
	var count int
	for {
		_, err := s.Next(ctx)
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		count++
	}
}
