// Package storage persists the goblin controller's learned profile to disk
// and keeps it flushed on a background schedule.
package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Storage coordinates periodic, atomic persistence of a single on-disk
// artifact under dataDir. It tracks a dirty flag so the flush loop only
// writes when something actually changed.
type Storage struct {
	dataDir       string
	flushInterval time.Duration
	logger        *slog.Logger

	mu     sync.RWMutex
	dirty  bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new Storage instance rooted at dataDir.
func New(dataDir string, flushInterval time.Duration, logger *slog.Logger) *Storage {
	return &Storage{
		dataDir:       dataDir,
		flushInterval: flushInterval,
		logger:        logger,
		done:          make(chan struct{}),
	}
}

// Start begins the periodic flush goroutine. flush is called whenever the
// store is dirty at a tick boundary.
func (s *Storage) Start(ctx context.Context, flush func() error) {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.flushLoop(ctx, flush)
}

// Stop stops the periodic flush and performs one final flush.
func (s *Storage) Stop(flush func() error) error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	return flush()
}

func (s *Storage) flushLoop(ctx context.Context, flush func() error) {
	defer close(s.done)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			dirty := s.dirty
			s.mu.RUnlock()

			if !dirty {
				continue
			}
			if err := flush(); err != nil {
				s.logger.Error("failed to flush profile", "error", err)
				continue
			}
			s.ClearDirty()
		}
	}
}

// MarkDirty marks the store as needing to be flushed.
func (s *Storage) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

// ClearDirty clears the dirty flag, typically after a successful save.
func (s *Storage) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// IsDirty returns whether the store has unflushed changes.
func (s *Storage) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}
