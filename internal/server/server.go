// Package server exposes the running controller's state over HTTP:
// health, the current anomaly signal with host load and tick count, the
// learned profile, and the settings it is driving. It is read-only by design — nothing here can
// change a setting's choice; that stays the controller's job.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/haskel/goblin/internal/config"
	"github.com/haskel/goblin/internal/controller"
	"github.com/haskel/goblin/internal/scheduler"
	"github.com/haskel/goblin/internal/server/middleware"
	"github.com/haskel/goblin/internal/storage"
	"github.com/haskel/goblin/internal/sysload"
)

// Server serves the goblin controller's state for whichever burden algebra
// B/capacity type C the process was wired up with.
type Server[B any, C any] struct {
	httpServer *http.Server

	ctrl           *controller.Controller[B, C]
	profileStorage *storage.ProfileStorage
	sampler        *sysload.Sampler
	tickScheduler  *scheduler.Scheduler

	config     *config.Config
	logger     *slog.Logger
	version    string
	authConfig *middleware.AuthConfig
}

// New builds a Server around an already-constructed controller.
func New[B any, C any](
	cfg *config.Config,
	ctrl *controller.Controller[B, C],
	profileStorage *storage.ProfileStorage,
	sampler *sysload.Sampler,
	tickScheduler *scheduler.Scheduler,
	logger *slog.Logger,
	version string,
) *Server[B, C] {
	authConfig := &middleware.AuthConfig{
		Enabled:  cfg.Auth.Enabled,
		User:     cfg.Auth.User,
		Password: cfg.Auth.Password,
	}

	s := &Server[B, C]{
		ctrl:           ctrl,
		profileStorage: profileStorage,
		sampler:        sampler,
		tickScheduler:  tickScheduler,
		config:         cfg,
		logger:         logger,
		version:        version,
		authConfig:     authConfig,
	}

	mux := s.setupRoutes()

	rateLimit := middleware.PerIPRateLimit(&middleware.PerIPRateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		Enabled:           true,
	})

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.SecurityHeaders(),
		rateLimit,
		middleware.Auth(authConfig, "/health"),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// ReloadConfig applies configuration that can change without a restart.
// Host/port changes still require one.
func (s *Server[B, C]) ReloadConfig(cfg *config.Config) {
	s.logger.Info("reloading configuration")

	s.authConfig.Update(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)
	s.config = cfg
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server[B, C]) Start() error {
	s.logger.Info("server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server[B, C]) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is bound to.
func (s *Server[B, C]) Addr() string {
	return s.httpServer.Addr
}
