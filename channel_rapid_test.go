package asyncseq

import (
	"context"
	"io"
	"testing"

	"pgregory.net/rapid"
)

// Property: for any interleaving of sends and receives by a single
// consumer, the observed order is exactly the send order, and after
// Finish the terminal signal replays forever.
func TestChannel_FIFOProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOfN(rapid.Int(), 0, 64).Draw(t, "vals")
		split := rapid.IntRange(0, len(vals)).Draw(t, "split")

		ctx := context.Background()
		ch := NewChannel[int]()

		for _, v := range vals[:split] {
			ch.Send(v)
		}

		var got []int
		drain := rapid.IntRange(0, split).Draw(t, "drain")
		for i := 0; i < drain; i++ {
			v, err := ch.Next(ctx)
			if err != nil {
				t.Fatalf("unexpected error mid-stream: %v", err)
			}
			got = append(got, v)
		}

		for _, v := range vals[split:] {
			ch.Send(v)
		}
		ch.Finish()

		for {
			v, err := ch.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got = append(got, v)
		}

		if len(got) != len(vals) {
			t.Fatalf("received %d values, sent %d", len(got), len(vals))
		}
		for i := range vals {
			if got[i] != vals[i] {
				t.Fatalf("position %d: got %d, want %d", i, got[i], vals[i])
			}
		}

		// Idempotent terminal replay.
		for i := 0; i < 3; i++ {
			if _, err := ch.Next(ctx); err != io.EOF {
				t.Fatalf("terminal replay %d: got %v, want io.EOF", i, err)
			}
		}
	})
}

// Property: a failure queued behind buffered values surfaces only after
// the queue drains, then is remembered.
func TestThrowingChannel_DrainThenFailProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOfN(rapid.Int(), 0, 32).Draw(t, "vals")

		ctx := context.Background()
		ch := NewThrowingChannel[int]()
		for _, v := range vals {
			ch.Send(v)
		}
		ch.Fail(errBoom)

		for i := range vals {
			v, err := ch.Next(ctx)
			if err != nil {
				t.Fatalf("position %d: unexpected error %v", i, err)
			}
			if v != vals[i] {
				t.Fatalf("position %d: got %d, want %d", i, v, vals[i])
			}
		}
		for i := 0; i < 2; i++ {
			if _, err := ch.Next(ctx); err != errBoom {
				t.Fatalf("terminal call %d: got %v, want stored error", i, err)
			}
		}
	})
}
