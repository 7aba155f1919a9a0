package stream

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerStartStop(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoller(10*time.Millisecond, func(context.Context) {
		ticks.Add(1)
	})

	p.Start()
	if !p.Running() {
		t.Fatal("poller not running after Start")
	}

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks before deadline", ticks.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	p.Stop()
	if p.Running() {
		t.Fatal("poller still running after Stop")
	}

	// No ticks after Stop returns.
	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != settled {
		t.Errorf("ticks after Stop: %d -> %d", settled, got)
	}
}

func TestPollerFirstTickIsImmediate(t *testing.T) {
	fired := make(chan struct{}, 1)
	p := NewPoller(time.Hour, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	p.Start()
	defer p.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("first tick did not fire immediately")
	}
}

func TestPollerIdempotentStartStop(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoller(time.Hour, func(context.Context) { ticks.Add(1) })

	p.Start()
	p.Start()
	p.Stop()
	p.Stop()

	// One immediate tick from the single running loop.
	if got := ticks.Load(); got != 1 {
		t.Errorf("ticks = %d, want 1", got)
	}

	// The poller can be restarted after a stop.
	p.Start()
	defer p.Stop()
	if !p.Running() {
		t.Error("poller not running after restart")
	}
}

func TestPollerContextCancelledOnStop(t *testing.T) {
	cancelled := make(chan struct{})
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) {
		go func() {
			<-ctx.Done()
			select {
			case <-cancelled:
			default:
				close(cancelled)
			}
		}()
	})

	p.Start()
	p.Stop()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("poll context not cancelled by Stop")
	}
}
