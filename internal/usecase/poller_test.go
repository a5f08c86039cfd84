package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerFiresImmediately(t *testing.T) {
	p := NewPoller()
	fired := make(chan struct{}, 1)

	p.Start(context.Background(), func(ctx context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, func() time.Duration { return time.Hour })
	defer p.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("effect did not fire on start")
	}
}

func TestPollerSchedulesAfterCompletion(t *testing.T) {
	p := NewPoller()
	var runs atomic.Int32
	started := make(chan struct{})

	p.Start(context.Background(), func(ctx context.Context) {
		if runs.Add(1) == 1 {
			close(started)
			// Simulate a slow run. The second run must not begin until
			// interval after this returns.
			time.Sleep(150 * time.Millisecond)
		}
	}, func() time.Duration { return 100 * time.Millisecond })
	defer p.Stop()

	<-started
	time.Sleep(200 * time.Millisecond)
	if n := runs.Load(); n != 1 {
		t.Fatalf("second run started before first completed plus interval, runs=%d", n)
	}

	time.Sleep(150 * time.Millisecond)
	if n := runs.Load(); n < 2 {
		t.Fatalf("expected second run by now, runs=%d", n)
	}
}

func TestPollerIntervalConsultedEachTick(t *testing.T) {
	p := NewPoller()
	var calls atomic.Int32
	var runs atomic.Int32

	p.Start(context.Background(), func(ctx context.Context) {
		runs.Add(1)
	}, func() time.Duration {
		calls.Add(1)
		return 30 * time.Millisecond
	})
	defer p.Stop()

	time.Sleep(200 * time.Millisecond)
	if calls.Load() < 2 {
		t.Fatalf("interval func called %d times, want at least 2", calls.Load())
	}
	if runs.Load() < 3 {
		t.Fatalf("expected several runs, got %d", runs.Load())
	}
}

func TestPollerStopCancelsAndWaits(t *testing.T) {
	p := NewPoller()
	done := make(chan struct{}, 1)

	p.Start(context.Background(), func(ctx context.Context) {
		<-ctx.Done()
		done <- struct{}{}
	}, func() time.Duration { return time.Hour })

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	select {
	case <-done:
	default:
		t.Fatal("Stop returned before the in-flight run observed cancellation")
	}
}

func TestPollerStopIdempotent(t *testing.T) {
	p := NewPoller()
	p.Start(context.Background(), func(ctx context.Context) {}, func() time.Duration { return time.Hour })
	p.Stop()
	p.Stop()
}
