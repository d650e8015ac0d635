package asyncseq

import (
	"context"
	"io"
)

// Filter returns a sequence of the elements for which fn reports true.
func (s *Seq[T]) Filter(fn func(T) bool) *Seq[T] {
	return NewSeq(func(ctx context.Context) (T, error) {
		for {
			val, err := s.Next(ctx)
			if err != nil {
				return val, err
			}
			if fn(val) {
				return val, nil
			}
		}
	})
}

// Take limits the sequence to n elements.
func (s *Seq[T]) Take(n int) *Seq[T] {
	var idx int
	return NewSeq(func(ctx context.Context) (T, error) {
		if idx >= n {
			var zero T
			return zero, io.EOF
		}
		val, err := s.Next(ctx)
		if err != nil {
			return val, err
		}
		idx++
		return val, nil
	})
}

// Skip skips the first n elements of the sequence.
func (s *Seq[T]) Skip(n int) *Seq[T] {
	var skipped int
	return NewSeq(func(ctx context.Context) (T, error) {
		for skipped < n {
			_, err := s.Next(ctx)
			if err != nil {
				var zero T
				return zero, err
			}
			skipped++
		}
		return s.Next(ctx)
	})
}

// Peek allows inspecting elements as they pass through the sequence.
func (s *Seq[T]) Peek(fn func(T)) *Seq[T] {
	return NewSeq(func(ctx context.Context) (T, error) {
		val, err := s.Next(ctx)
		if err == nil {
			fn(val)
		}
		return val, err
	})
}

// Map transforms a sequence using fn.
// Note: This is a function and not a method because Go does not support
// generic methods on generic types.
func Map[A, B any](s *Seq[A], fn func(context.Context, A) (B, error)) *Seq[B] {
	return NewSeq(func(ctx context.Context) (B, error) {
		val, err := s.Next(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(ctx, val)
	})
}

// Scan folds fn over the sequence and emits every running total along
// the way, starting with fn(initial, firstElement). Unlike a reduce, no
// element is held back until the end.
//
// Panics if s is nil or fn is nil.
func Scan[T, R any](s *Seq[T], initial R, fn func(R, T) R) *Seq[R] {
	if s == nil {
		panic("asyncseq: Scan requires a non-nil source sequence")
	}
	if fn == nil {
		panic("asyncseq: Scan requires a non-nil accumulator")
	}
	acc := initial
	return NewSeq(func(ctx context.Context) (R, error) {
		val, err := s.Next(ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		acc = fn(acc, val)
		return acc, nil
	})
}

// Pair is one element of a [Zip] output: a value from each input,
// pulled in the same step.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip walks two sequences in lockstep, yielding a [Pair] per step. It
// ends with the shorter input: once either side reports exhaustion, so
// does the zip.
//
// Each step pulls a, then b, in that order on the calling goroutine,
// which is fine for single-consumer sequences.
//
// Panics if a or b is nil.
func Zip[A, B any](a *Seq[A], b *Seq[B]) *Seq[Pair[A, B]] {
	if a == nil {
		panic("asyncseq: Zip requires a non-nil first sequence")
	}
	if b == nil {
		panic("asyncseq: Zip requires a non-nil second sequence")
	}
	return NewSeq(func(ctx context.Context) (Pair[A, B], error) {
		va, err := a.Next(ctx)
		if err != nil {
			var zero Pair[A, B]
			return zero, err
		}
		vb, err := b.Next(ctx)
		if err != nil {
			var zero Pair[A, B]
			return zero, err
		}
		return Pair[A, B]{First: va, Second: vb}, nil
	})
}
