package reactor

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestReactorDispatchesOnReadable(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	rp, wp, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	defer rp.Close()
	defer wp.Close()

	fired := make(chan struct{}, 1)
	if err := r.Register(int(rp.Fd()), func() {
		buf := make([]byte, 16)
		rp.Read(buf)
		select {
		case fired <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go r.Run(ctx)

	if _, err := wp.Write([]byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire within timeout")
	}
}

func TestReactorStopsOnContextCancel(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}
