// Package sysload samples real host CPU and memory load and exposes it as
// a demo burden source for the controller: a background-work setting whose
// measured cost is genuine host CPU usage, not a synthetic number.
package sysload

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// State is one sample of host load.
type State struct {
	CPUPercent float64
	MemPercent float64
	Timestamp  time.Time
}

// Sampler polls host CPU and memory usage on a fixed interval. It carries
// only the two axes a soft-real-time app plausibly reacts to; GPU, disk and
// process-table sampling have no corresponding quality knob in this system
// and were dropped rather than collected and left unused.
type Sampler struct {
	interval time.Duration
	logger   *slog.Logger

	mu    sync.RWMutex
	state State
	done  chan struct{}
}

// NewSampler creates a Sampler that polls at the given interval.
func NewSampler(interval time.Duration, logger *slog.Logger) *Sampler {
	return &Sampler{
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start takes one synchronous sample and then begins polling in the
// background until ctx is cancelled or Stop is called.
func (s *Sampler) Start(ctx context.Context) {
	s.sample()
	go s.runLoop(ctx)
}

// Stop halts the polling goroutine.
func (s *Sampler) Stop() {
	close(s.done)
}

// State returns the most recently sampled host load.
func (s *Sampler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Sampler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sample()
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

func (s *Sampler) sample() {
	next := State{Timestamp: time.Now()}

	percentages, err := cpu.Percent(0, false)
	if err != nil {
		s.logger.Warn("cpu sample failed", "error", err)
	} else if len(percentages) > 0 {
		next.CPUPercent = percentages[0]
	}

	v, err := mem.VirtualMemory()
	if err != nil {
		s.logger.Warn("memory sample failed", "error", err)
	} else {
		next.MemPercent = v.UsedPercent
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}
