package asyncseq

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// mergeState is the guarded buffer shared by a [Merged] stream's
// regulators and its consumer.
//
// Invariant: remaining decrements exactly once per source termination;
// reaching zero closes the buffer only after already-queued elements
// have drained. A delivered error element closes the buffer for good.
type mergeState[T any] struct {
	queue     []element[T]
	waiter    *waiter[T] // single parked consumer, nil if none
	closed    bool
	remaining int
}

// Merged is a fan-in of several sequences into one ordered stream,
// created with [Merge]. Its n-th output is the n-th regulated element
// to resolve in real time across all sources: first arrival wins, not
// round-robin. The stream terminates when all sources have terminated,
// or immediately upon the first error from any source, at which point
// the surviving sources' background drivers are cancelled.
//
// Merged streams are single-consumer: a second concurrent call to
// [Merged.Next] panics.
type Merged[T any] struct {
	state  *Guard[mergeState[T]]
	regs   []*regulator[T]
	cancel context.CancelFunc
	group  *errgroup.Group
	ids    atomic.Int64
}

// Merge combines the given sequences into a single [Merged] stream.
// One background driver per source runs until that source terminates,
// the merge fails, or the consumer stops; drivers fetch under pull
// backpressure, at most one element ahead of each [Merged.Next] call.
//
// Panics if any source is nil.
func Merge[T any](ctx context.Context, seqs ...*Seq[T]) *Merged[T] {
	for i, s := range seqs {
		if s == nil {
			panic(fmt.Sprintf("asyncseq: Merge source[%d] must not be nil", i))
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)

	m := &Merged[T]{
		state:  NewGuard(mergeState[T]{remaining: len(seqs), closed: len(seqs) == 0}),
		regs:   make([]*regulator[T], len(seqs)),
		cancel: cancel,
		group:  group,
	}
	for i, s := range seqs {
		r := newRegulator(s, m.onElement)
		m.regs[i] = r
		group.Go(func() error {
			r.run(runCtx)
			return nil
		})
	}
	return m
}

// onElement is the sink invoked by whichever regulator resolved next.
func (m *Merged[T]) onElement(e element[T]) {
	m.state.Do(func(st *mergeState[T]) func() {
		if st.closed {
			// Already terminated, typically because an error elsewhere
			// closed the buffer first.
			return nil
		}
		if e.term {
			st.remaining--
			if st.remaining > 0 {
				return nil
			}
			if len(st.queue) > 0 {
				// Deliver buffered elements before the final termination.
				st.queue = append(st.queue, element[T]{term: true})
				return nil
			}
			st.closed = true
			if w := st.waiter; w != nil {
				st.waiter = nil
				return func() { w.ch <- outcome[T]{err: io.EOF} }
			}
			return nil
		}
		if w := st.waiter; w != nil {
			st.waiter = nil
			if e.err != nil {
				// Fail fast: no further elements are accepted.
				st.closed = true
				return func() { w.ch <- outcome[T]{err: e.err} }
			}
			return func() { w.ch <- outcome[T]{val: e.val} }
		}
		st.queue = append(st.queue, e)
		return nil
	})
}

// Next returns the next element to arrive from any source. Each call
// first grants every live source permission for one more fetch, so no
// source is polled faster than the consumer drains.
//
// Next returns io.EOF once every source has terminated and the buffer
// has drained, or after [Merged.Stop]. The first source error is
// returned exactly once; afterwards Next returns io.EOF. Cancellation
// resolves to io.EOF and stops the merge.
//
// Only one Next call may be outstanding at a time; a second concurrent
// call panics.
func (m *Merged[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if ctx.Err() != nil {
		// Cancelled before entry: grant no fetches and shut down, the
		// same way cancellation while suspended does.
		m.Stop()
		return zero, io.EOF
	}

	for _, r := range m.regs {
		r.request()
	}

	w := waiter[T]{id: m.ids.Add(1), ch: make(chan outcome[T], 1)}
	var (
		immediate outcome[T]
		suspended bool
		failed    bool
		reentered bool
	)
	m.state.Do(func(st *mergeState[T]) func() {
		switch {
		case st.closed:
			immediate = outcome[T]{err: io.EOF}
		case len(st.queue) > 0:
			e := st.queue[0]
			st.queue = st.queue[1:]
			switch {
			case e.term:
				st.closed = true
				st.queue = nil
				immediate = outcome[T]{err: io.EOF}
			case e.err != nil:
				st.closed = true
				st.queue = nil
				failed = true
				immediate = outcome[T]{err: e.err}
			default:
				immediate = outcome[T]{val: e.val}
			}
		case st.waiter != nil:
			reentered = true
		default:
			st.waiter = &w
			suspended = true
		}
		return nil
	})
	if reentered {
		panic("asyncseq: concurrent Merged.Next calls are not supported")
	}
	if failed {
		m.cancel()
	}
	if !suspended {
		return immediate.val, immediate.err
	}

	select {
	case res := <-w.ch:
		if res.err != nil && res.err != io.EOF {
			// Fail fast: cancel the surviving sources' drivers.
			m.cancel()
		}
		return res.val, res.err
	case <-ctx.Done():
		m.Stop()
		// Stop resumed the waiter if it was still parked; otherwise a
		// racing element resolved it first. Either way the handle holds
		// a resolution, which cancellation overrides with end of data.
		<-w.ch
		return zero, io.EOF
	}
}

// Stop closes the merged stream: a parked consumer resumes with end of
// data, buffered elements are discarded, and every source's background
// driver is cancelled and joined. Safe to call at any time, from any
// goroutine, and more than once.
func (m *Merged[T]) Stop() {
	m.state.Do(func(st *mergeState[T]) func() {
		st.closed = true
		st.queue = nil
		if w := st.waiter; w != nil {
			st.waiter = nil
			return func() { w.ch <- outcome[T]{err: io.EOF} }
		}
		return nil
	})
	m.cancel()
	_ = m.group.Wait() // drivers always return nil
}

// Seq adapts the merged stream into a [Seq].
func (m *Merged[T]) Seq() *Seq[T] {
	return NewSeq(m.Next)
}
