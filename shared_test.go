package asyncseq

import (
	"context"
	"io"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShared_SequentialPulls(t *testing.T) {
	sh := Share(FromSlice([]int{1, 2, 3}))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		v, err := sh.TryNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err := sh.TryNext(ctx)
	assert.Equal(t, io.EOF, err)
	assert.True(t, sh.Exhausted())
}

func TestShared_BusyFailsFast(t *testing.T) {
	ctx := context.Background()

	inFetch := make(chan struct{})
	release := make(chan struct{})
	src := NewSeq(func(ctx context.Context) (int, error) {
		close(inFetch)
		<-release
		return 42, nil
	})
	sh := Share(src)

	go func() {
		_, _ = sh.TryNext(ctx)
	}()
	<-inFetch // the first attempt holds the gate inside the fetch

	start := time.Now()
	_, err := sh.TryNext(ctx)
	assert.Equal(t, ErrBusy, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "busy attempt must not block")

	close(release)
}

func TestShared_ExhaustionShortCircuits(t *testing.T) {
	ctx := context.Background()

	var pulls int
	src := NewSeq(func(ctx context.Context) (int, error) {
		pulls++
		return 0, io.EOF
	})
	sh := Share(src)

	_, err := sh.TryNext(ctx)
	require.Equal(t, io.EOF, err)

	// Later attempts short-circuit without touching the source.
	for i := 0; i < 3; i++ {
		_, err = sh.TryNext(ctx)
		assert.Equal(t, io.EOF, err)
	}
	assert.Equal(t, 1, pulls)
}

func TestShared_ConcurrentConsumersPartition(t *testing.T) {
	const n = 200
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	sh := Share(FromSlice(items))
	ctx := context.Background()

	var mu sync.Mutex
	var got []int

	var wg sync.WaitGroup
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, err := sh.TryNext(ctx)
				if err == ErrBusy {
					runtime.Gosched() // retry; the gate never queues us
					continue
				}
				if err == io.EOF {
					return
				}
				require.NoError(t, err)
				mu.Lock()
				got = append(got, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The iterator was never corrupted: every element delivered exactly once.
	sort.Ints(got)
	require.Len(t, got, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, i, got[i])
	}
}

func TestShared_ErrorPassesThrough(t *testing.T) {
	sh := Share(Fail[int](errBoom))

	_, err := sh.TryNext(context.Background())
	assert.Equal(t, errBoom, err)
	assert.False(t, sh.Exhausted(), "a failure is not exhaustion")
}

func TestShare_NilPanics(t *testing.T) {
	assert.Panics(t, func() { Share[int](nil) })
}
