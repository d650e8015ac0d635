package asyncseq

import (
	"context"
	"io"
	"sync/atomic"
)

// outcome is what a resumed receiver observes: an element, end of data
// (io.EOF), or a terminal error.
type outcome[T any] struct {
	val T
	err error
}

// waiter is a suspended receiver: a process-unique id plus a one-shot
// resumable handle. The handle is buffered so a resume never blocks,
// and state transitions guarantee it is resumed at most once. The id is
// the only mechanism for locating a specific waiter on cancellation.
type waiter[T any] struct {
	id int64
	ch chan outcome[T]
}

// chanState is the guarded state shared by [Channel] and
// [ThrowingChannel].
//
// Invariants: queue and waiters are never both non-empty (a send
// satisfies the oldest waiter before it would queue), and once terminal
// is set neither grows again. draining marks a termination queued
// behind buffered elements; it takes effect when the queue empties.
type chanState[T any] struct {
	queue    []T
	waiters  []waiter[T]
	draining bool
	terminal bool
	err      error // non-nil only when a ThrowingChannel failed
}

// channelCore is the buffered-channel state machine backing [Channel]
// and [ThrowingChannel].
type channelCore[T any] struct {
	guard *Guard[chanState[T]]
	ids   atomic.Int64
}

func newChannelCore[T any]() channelCore[T] {
	return channelCore[T]{guard: NewGuard(chanState[T]{})}
}

// send enqueues v, or hands it directly to the oldest waiting receiver.
// Sends against a terminated (or terminating) channel are dropped.
func (c *channelCore[T]) send(v T) {
	c.guard.Do(func(st *chanState[T]) func() {
		if st.terminal || st.draining {
			return nil
		}
		if len(st.waiters) > 0 {
			w := st.waiters[0]
			st.waiters = st.waiters[1:]
			return func() { w.ch <- outcome[T]{val: v} }
		}
		st.queue = append(st.queue, v)
		return nil
	})
}

// terminate ends the channel: with err == nil it finishes cleanly, with
// a non-nil err it fails. Buffered elements are delivered before the
// termination takes effect. All currently suspended receivers resume
// with the terminal signal. Idempotent.
func (c *channelCore[T]) terminate(err error) {
	c.guard.Do(func(st *chanState[T]) func() {
		if st.terminal || st.draining {
			return nil
		}
		if len(st.queue) > 0 {
			st.draining = true
			st.err = err
			return nil
		}
		st.terminal = true
		st.err = err
		if len(st.waiters) == 0 {
			return nil
		}
		ws := st.waiters
		st.waiters = nil
		res := terminalOutcome[T](err)
		return func() {
			for _, w := range ws {
				w.ch <- res
			}
		}
	})
}

func terminalOutcome[T any](err error) outcome[T] {
	if err == nil {
		err = io.EOF
	}
	return outcome[T]{err: err}
}

// next resolves with the next element, suspending the caller while the
// channel is empty and alive. Past the terminal state it resolves
// immediately with the terminal signal, repeatably and without side
// effects. A receiver whose ctx is cancelled while suspended is removed
// from the waiter list by id and resolves to io.EOF; it never hangs.
func (c *channelCore[T]) next(ctx context.Context) (T, error) {
	var zero T

	w := waiter[T]{id: c.ids.Add(1), ch: make(chan outcome[T], 1)}
	var (
		immediate outcome[T]
		suspended bool
	)
	c.guard.Do(func(st *chanState[T]) func() {
		switch {
		case ctx.Err() != nil:
			// Cancellation observed before registration. Checked inside
			// the critical section so it cannot race with an in-flight
			// termination and hang.
			immediate = outcome[T]{err: io.EOF}
		case st.terminal:
			immediate = terminalOutcome[T](st.err)
		case len(st.queue) > 0:
			immediate = outcome[T]{val: st.queue[0]}
			st.queue = st.queue[1:]
			if len(st.queue) == 0 && st.draining {
				st.draining = false
				st.terminal = true
			}
		default:
			st.waiters = append(st.waiters, w)
			suspended = true
		}
		return nil
	})
	if !suspended {
		return immediate.val, immediate.err
	}

	select {
	case res := <-w.ch:
		return res.val, res.err
	case <-ctx.Done():
		removed := Locked(c.guard, func(st *chanState[T]) bool {
			for i := range st.waiters {
				if st.waiters[i].id == w.id {
					st.waiters = append(st.waiters[:i], st.waiters[i+1:]...)
					return true
				}
			}
			return false
		})
		if !removed {
			// A send or termination already claimed this waiter; its
			// resolution is in flight and the element must not be lost.
			res := <-w.ch
			return res.val, res.err
		}
		return zero, io.EOF
	}
}

// hasBuffered reports whether a pull would resolve without suspending:
// elements are queued, or the channel is terminal. This lets a consumer
// distinguish "drained but alive" from "drained and done".
func (c *channelCore[T]) hasBuffered() bool {
	return Locked(c.guard, func(st *chanState[T]) bool {
		return len(st.queue) > 0 || st.terminal
	})
}

// Channel is an unbounded FIFO buffer connecting producers to
// consumers. Any number of goroutines may send; any number may receive.
// Each sent value is delivered to exactly one receiver, in send order:
// when receivers are suspended, a send resumes the one that has waited
// longest.
//
// A Channel is created with [NewChannel] and terminated with
// [Channel.Finish]; sends after termination are silently dropped.
type Channel[T any] struct {
	core channelCore[T]
}

// NewChannel creates an empty channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{core: newChannelCore[T]()}
}

// Send enqueues v, or delivers it directly to the oldest waiting
// receiver. It never blocks. Send is a no-op once the channel has
// finished.
func (c *Channel[T]) Send(v T) {
	c.core.send(v)
}

// Finish terminates the channel without error. Buffered values are
// delivered first; all suspended receivers resume with io.EOF.
// Idempotent.
func (c *Channel[T]) Finish() {
	c.core.terminate(nil)
}

// Next returns the next value, suspending while the channel is empty
// and alive. It returns io.EOF once the channel has finished and
// drained, and keeps returning io.EOF on every later call.
//
// Cancellation resolves to io.EOF, the same clean end-of-data signal as
// exhaustion; it is never surfaced as an error.
func (c *Channel[T]) Next(ctx context.Context) (T, error) {
	return c.core.next(ctx)
}

// HasBuffered reports whether Next would resolve without suspending.
func (c *Channel[T]) HasBuffered() bool {
	return c.core.hasBuffered()
}

// Seq adapts the channel's consuming side into a [Seq].
func (c *Channel[T]) Seq() *Seq[T] {
	return NewSeq(c.core.next)
}
