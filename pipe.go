package asyncseq

// Sender is the producer half of a [Pipe].
type Sender[T any] struct {
	ch *Channel[T]
}

// Send enqueues v, or delivers it directly to a waiting receiver.
// No-op after Finish.
func (s *Sender[T]) Send(v T) {
	s.ch.Send(v)
}

// Finish terminates the pipe; the consumer half sees io.EOF once the
// buffer drains. Idempotent.
func (s *Sender[T]) Finish() {
	s.ch.Finish()
}

// Pipe creates a connected producer/consumer pair over a fresh
// [Channel]. It is a convenience for handing the two halves of one
// stream to different components.
func Pipe[T any]() (*Sender[T], *Seq[T]) {
	ch := NewChannel[T]()
	return &Sender[T]{ch: ch}, ch.Seq()
}

// ThrowingSender is the producer half of a [ThrowingPipe].
type ThrowingSender[T any] struct {
	ch *ThrowingChannel[T]
}

// Send enqueues v, or delivers it directly to a waiting receiver.
// No-op after Finish or Fail.
func (s *ThrowingSender[T]) Send(v T) {
	s.ch.Send(v)
}

// Finish terminates the pipe cleanly. Idempotent.
func (s *ThrowingSender[T]) Finish() {
	s.ch.Finish()
}

// Fail terminates the pipe with err; the consumer half sees err once
// the buffer drains, and on every call after that. Panics if err is nil.
func (s *ThrowingSender[T]) Fail(err error) {
	s.ch.Fail(err)
}

// ThrowingPipe creates a connected producer/consumer pair over a fresh
// [ThrowingChannel].
func ThrowingPipe[T any]() (*ThrowingSender[T], *Seq[T]) {
	ch := NewThrowingChannel[T]()
	return &ThrowingSender[T]{ch: ch}, ch.Seq()
}
