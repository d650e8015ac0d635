package asyncseq

import (
	"context"
	"io"
	"reflect"
	"testing"
)

func TestPipe(t *testing.T) {
	send, recv := Pipe[int]()

	send.Send(1)
	send.Send(2)
	send.Finish()
	send.Send(3) // dropped

	got, err := recv.ToSlice(context.Background())
	if err != nil {
		t.Fatalf("ToSlice failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestThrowingPipe(t *testing.T) {
	send, recv := ThrowingPipe[string]()

	send.Send("a")
	send.Fail(errBoom)

	ctx := context.Background()
	v, err := recv.Next(ctx)
	if err != nil || v != "a" {
		t.Fatalf("got %q, %v; want a, nil", v, err)
	}
	if _, err = recv.Next(ctx); err != errBoom {
		t.Fatalf("got %v; want boom", err)
	}
	if _, err = recv.Next(ctx); err != errBoom {
		t.Fatalf("got %v; want boom replayed", err)
	}
}

func TestThrowingPipe_CleanFinish(t *testing.T) {
	send, recv := ThrowingPipe[int]()
	send.Finish()

	if _, err := recv.Next(context.Background()); err != io.EOF {
		t.Fatalf("got %v; want io.EOF", err)
	}
}
