package asyncseq

import (
	"context"
	"errors"
	"io"
)

// element is a regulated element as it flows from a regulator into the
// merge state machine: a fetched value, the source's failure, or the
// source's termination signal.
type element[T any] struct {
	val  T
	err  error
	term bool
}

type regPhase int

const (
	// regIdle: no fetch in flight and none requested.
	regIdle regPhase = iota
	// regSuspended: the driver loop is parked waiting for a request.
	regSuspended
	// regActive: permission granted; a fetch is (about to be) in flight.
	regActive
	// regFinished: the source terminated or the driver was cancelled.
	regFinished
)

type regState struct {
	phase  regPhase
	resume chan struct{} // set while suspended, signalled by request
}

// regulator drives exactly one upstream sequence, fetching at most one
// element ahead of demand. Each fetched element, failure, or
// termination is reported to the sink. The sink must not block.
type regulator[T any] struct {
	src    *Seq[T]
	state  *Guard[regState]
	report func(element[T])
}

func newRegulator[T any](src *Seq[T], report func(element[T])) *regulator[T] {
	return &regulator[T]{
		src:    src,
		state:  NewGuard(regState{}),
		report: report,
	}
}

// request grants permission for exactly one fetch. It is idempotent: a
// request while a fetch is already in flight, or after the source
// terminated, is a no-op. No double fetch, no fetch after done.
func (r *regulator[T]) request() {
	r.state.Do(func(st *regState) func() {
		switch st.phase {
		case regSuspended:
			st.phase = regActive
			resume := st.resume
			st.resume = nil
			return func() { resume <- struct{}{} }
		case regIdle:
			st.phase = regActive
		}
		return nil
	})
}

// run is the driver loop. Parking until armed is its sole suspension
// point besides the upstream fetch itself. The loop exits when the
// source is exhausted, fails, or ctx is cancelled.
func (r *regulator[T]) run(ctx context.Context) {
	for {
		var wait chan struct{}
		r.state.Do(func(st *regState) func() {
			if st.phase != regActive {
				wait = make(chan struct{}, 1)
				st.phase = regSuspended
				st.resume = wait
			}
			return nil
		})
		if wait != nil {
			select {
			case <-wait:
				// Armed; phase was set to regActive by request.
			case <-ctx.Done():
				r.finish()
				return
			}
		}

		v, err := r.src.Next(ctx)
		switch {
		case err == nil:
			// Return to idle before reporting: the consumer may issue
			// its next request from inside the report callback, and that
			// request must arm the next fetch rather than hit the
			// in-flight no-op and be dropped.
			r.state.Do(func(st *regState) func() {
				if st.phase == regActive {
					st.phase = regIdle
				}
				return nil
			})
			r.report(element[T]{val: v})
		case errors.Is(err, io.EOF):
			r.finish()
			r.report(element[T]{term: true})
			return
		case ctx.Err() != nil:
			// Cancelled mid-fetch during teardown; report nothing.
			r.finish()
			return
		default:
			r.finish()
			r.report(element[T]{err: err})
			return
		}
	}
}

func (r *regulator[T]) finish() {
	r.state.Do(func(st *regState) func() {
		st.phase = regFinished
		st.resume = nil
		return nil
	})
}
