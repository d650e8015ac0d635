package asyncseq

import "context"

// ThrowingChannel is a [Channel] extended with a failure terminal
// state. [ThrowingChannel.Fail] terminates the channel with an error;
// the error is raised to every receiver suspended at that moment and
// remembered, so every subsequent [ThrowingChannel.Next] call returns
// the same error. [ThrowingChannel.Finish] still terminates cleanly
// with io.EOF.
//
// Whichever of Finish and Fail happens first wins; the loser is a no-op.
type ThrowingChannel[T any] struct {
	core channelCore[T]
}

// NewThrowingChannel creates an empty throwing channel.
func NewThrowingChannel[T any]() *ThrowingChannel[T] {
	return &ThrowingChannel[T]{core: newChannelCore[T]()}
}

// Send enqueues v, or delivers it directly to the oldest waiting
// receiver. It never blocks. Send is a no-op once the channel has
// finished or failed.
func (c *ThrowingChannel[T]) Send(v T) {
	c.core.send(v)
}

// Finish terminates the channel without error. Buffered values are
// delivered first; all suspended receivers resume with io.EOF.
// Idempotent.
func (c *ThrowingChannel[T]) Finish() {
	c.core.terminate(nil)
}

// Fail terminates the channel with err. Buffered values are delivered
// first; the error then surfaces to the pulling receiver and is
// remembered for every later Next call. All receivers suspended at the
// moment of failure resume with err.
//
// Panics if err is nil. A Fail after the channel already terminated is
// a no-op.
func (c *ThrowingChannel[T]) Fail(err error) {
	if err == nil {
		panic("asyncseq: Fail requires a non-nil error")
	}
	c.core.terminate(err)
}

// Next returns the next value, suspending while the channel is empty
// and alive. Once the channel has finished and drained it returns
// io.EOF; once it has failed and drained it returns the failure error,
// on this and every later call.
//
// Cancellation resolves to io.EOF; it is never surfaced as an error.
func (c *ThrowingChannel[T]) Next(ctx context.Context) (T, error) {
	return c.core.next(ctx)
}

// HasBuffered reports whether Next would resolve without suspending.
func (c *ThrowingChannel[T]) HasBuffered() bool {
	return c.core.hasBuffered()
}

// Seq adapts the channel's consuming side into a [Seq].
func (c *ThrowingChannel[T]) Seq() *Seq[T] {
	return NewSeq(c.core.next)
}
