package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsEveryTask(t *testing.T) {
	pool := NewPool(4, 100)
	results := pool.Run(context.Background())

	var ran atomic.Int32
	errBoom := errors.New("boom")
	for i := 0; i < 100; i++ {
		i := i
		if !pool.Submit(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i%10 == 0 {
				return errBoom
			}
			return nil
		}) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	pool.Close()

	var total, failed int
	for r := range results {
		total++
		if errors.Is(r.Err, errBoom) {
			failed++
		}
	}
	if total != 100 || ran.Load() != 100 {
		t.Fatalf("expected 100 results, got %d (ran %d)", total, ran.Load())
	}
	if failed != 10 {
		t.Fatalf("expected 10 failures, got %d", failed)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(3, 30)
	results := pool.Run(context.Background())

	var active, peak atomic.Int32
	for i := 0; i < 30; i++ {
		pool.Submit(context.Background(), func(context.Context) error {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			active.Add(-1)
			return nil
		})
	}
	pool.Close()
	for range results {
	}

	if peak.Load() > 3 {
		t.Fatalf("expected at most 3 concurrent tasks, saw %d", peak.Load())
	}
}

func TestPool_CancelSkipsQueuedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(1, 10)
	results := pool.Run(ctx)

	var ran atomic.Int32
	pool.Submit(ctx, func(context.Context) error {
		ran.Add(1)
		cancel()
		return nil
	})
	for i := 0; i < 9; i++ {
		pool.Submit(ctx, func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	pool.Close()

	for range results {
	}
	if ran.Load() != 1 {
		t.Fatalf("expected queued tasks to be skipped after cancel, ran %d", ran.Load())
	}
}

func TestPool_SubmitRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(1, 0)
	if pool.Submit(ctx, func(context.Context) error { return nil }) {
		t.Fatalf("expected submit to be rejected on a cancelled context")
	}
	pool.Close()
}
