package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerTicksPeriodically(t *testing.T) {
	var count int64
	s := New(func() { atomic.AddInt64(&count, 1) }, 20*time.Millisecond, discardLogger())

	ctx := context.Background()
	s.Start(ctx)
	time.Sleep(90 * time.Millisecond)
	s.Stop()

	if atomic.LoadInt64(&count) < 2 {
		t.Errorf("expected at least 2 ticks, got %d", count)
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := New(func() {}, time.Hour, discardLogger())
	ctx := context.Background()
	s.Start(ctx)
	s.Stop()
	s.Stop()

	if s.IsRunning() {
		t.Error("expected scheduler to not be running after Stop")
	}
}

func TestSchedulerStartTwiceIsNoOp(t *testing.T) {
	var count int64
	s := New(func() { atomic.AddInt64(&count, 1) }, 15*time.Millisecond, discardLogger())

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	if atomic.LoadInt64(&count) == 0 {
		t.Error("expected ticks to occur")
	}
}

func TestSchedulerRecoversFromPanickingTick(t *testing.T) {
	var count int64
	s := New(func() {
		atomic.AddInt64(&count, 1)
		panic("boom")
	}, 15*time.Millisecond, discardLogger())

	ctx := context.Background()
	s.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	if atomic.LoadInt64(&count) < 2 {
		t.Errorf("expected scheduler to keep ticking after a panic, got %d ticks", count)
	}
}

func TestSchedulerStats(t *testing.T) {
	s := New(func() {}, 10*time.Millisecond, discardLogger())
	ctx := context.Background()
	s.Start(ctx)
	time.Sleep(40 * time.Millisecond)
	s.Stop()

	stats := s.Stats()
	if stats.Running {
		t.Error("expected Running=false after Stop")
	}
	if stats.TickCount == 0 {
		t.Error("expected non-zero tick count")
	}
	if stats.LastTick.IsZero() {
		t.Error("expected non-zero LastTick")
	}
}
