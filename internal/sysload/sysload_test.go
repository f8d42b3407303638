package sysload

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSamplerInitialStateAfterStart(t *testing.T) {
	s := NewSampler(time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	state := s.State()
	if state.Timestamp.IsZero() {
		t.Error("expected an initial sample to be taken synchronously on Start")
	}
	if state.CPUPercent < 0 || state.CPUPercent > 100 {
		t.Errorf("invalid CPU percent: %f", state.CPUPercent)
	}
	if state.MemPercent < 0 || state.MemPercent > 100 {
		t.Errorf("invalid memory percent: %f", state.MemPercent)
	}
}

func TestSamplerPolls(t *testing.T) {
	s := NewSampler(20*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	first := s.State()
	time.Sleep(80 * time.Millisecond)
	second := s.State()

	if !second.Timestamp.After(first.Timestamp) {
		t.Error("expected a later sample to have a newer timestamp")
	}
}

func TestSamplerStopHaltsPolling(t *testing.T) {
	s := NewSampler(10*time.Millisecond, discardLogger())

	ctx := context.Background()
	s.Start(ctx)
	s.Stop()

	afterStop := s.State()
	time.Sleep(50 * time.Millisecond)
	stillSame := s.State()

	if !stillSame.Timestamp.Equal(afterStop.Timestamp) {
		t.Error("expected no further samples after Stop")
	}
}
