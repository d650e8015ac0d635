package asyncseq

import (
	"context"
	"io"
	"testing"
)

func BenchmarkChannelSendNext(b *testing.B) {
	ch := NewChannel[int]()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch.Send(i)
		if _, err := ch.Next(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkChannelPingPong(b *testing.B) {
	ch := NewChannel[int]()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, err := ch.Next(ctx); err == io.EOF {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch.Send(i)
	}
	ch.Finish()
	<-done
}

func BenchmarkMergeNext(b *testing.B) {
	ctx := context.Background()

	var n int
	src := NewSeq(func(ctx context.Context) (int, error) {
		n++
		return n, nil
	})
	m := Merge(ctx, src)
	defer m.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Next(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSeqFromSlice(b *testing.B) {
	items := make([]int, 1024)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := FromSlice(items)
		for {
			if _, err := s.Next(ctx); err == io.EOF {
				break
			}
		}
	}
}
