// Package asyncseq provides pull-based asynchronous sequences for Go,
// built around a buffered many-producer/many-consumer channel with
// cancellation support and a fan-in combinator that merges several
// sequences into one under explicit pull backpressure.
//
// # Sequences
//
// [Seq] is the consuming surface: a lazy, finite, single-consumer
// sequence pulled one element at a time with [Seq.Next], which returns
// [io.EOF] once the sequence is exhausted. Sequences are not
// restartable; after a terminal signal, further calls keep returning
// it. Create sequences with [NewSeq], [FromSlice], [FromChan],
// [FromFunc], [Of], [Empty], or [Fail], and fold them with
// [Seq.ToSlice], [Seq.ForEach], or [Seq.Count]. Thin combinators
// ([Seq.Filter], [Seq.Take], [Seq.Skip], [Seq.Peek], [Map], [Scan],
// [Zip]) are evaluated lazily.
//
// # Channels
//
// [Channel] is an unbounded FIFO buffer connecting producers to
// consumers. [Channel.Send] enqueues a value or hands it directly to
// the oldest waiting receiver; [Channel.Finish] terminates the channel
// after any buffered values drain. Values are delivered point-to-point:
// when several consumers iterate one channel concurrently, each sent
// value reaches exactly one of them, in send order. A consumer
// suspended on an empty channel resolves cleanly to [io.EOF] when its
// context is cancelled; it never hangs.
//
// [ThrowingChannel] adds [ThrowingChannel.Fail]: the channel terminates
// with an error that is delivered to every pending receiver and
// remembered, so every later [ThrowingChannel.Next] call returns the
// same error.
//
// # Merging
//
// [Merge] combines N sequences into one. Each source is driven by its
// own background goroutine, fetching at most one element ahead of
// demand: every [Merged.Next] call grants each live source permission
// for one more fetch, so no source runs ahead of the consumer. Output
// order is real-time arrival order across sources. The first error from
// any source ends the merge and cancels the remaining sources.
//
// Merged streams are single-consumer; concurrent [Merged.Next] calls panic.
//
// # Sharing
//
// [Shared] guards one sequence against concurrent pulls without ever
// blocking a caller: [Shared.TryNext] either performs the fetch or
// fails fast with [ErrBusy] while another fetch is in flight.
//
// # Cancellation
//
// Every suspension point in this package observes its context.
// Cancellation is never surfaced as an error: a cancelled pull resolves
// to [io.EOF], the same clean end-of-data signal as normal exhaustion.
// Cancelling the consumer of a [Merged] stream also cancels every
// source's background driver. This layer has no timers or timeouts;
// compose those on top with contexts.
package asyncseq
