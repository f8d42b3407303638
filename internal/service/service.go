// Package service wires the ambient layers — config, storage, sysload,
// scheduler, server — around one controller.Controller instance, and owns
// the single goroutine that calls Controller.Update once per tick. It is
// the one place a demo caller (the serve/tick CLI commands) needs to touch
// to get a fully running goblin.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haskel/goblin/internal/config"
	"github.com/haskel/goblin/internal/controller"
	"github.com/haskel/goblin/internal/economy"
	"github.com/haskel/goblin/internal/profile"
	"github.com/haskel/goblin/internal/scheduler"
	"github.com/haskel/goblin/internal/server"
	"github.com/haskel/goblin/internal/setting"
	"github.com/haskel/goblin/internal/storage"
	"github.com/haskel/goblin/internal/sysload"
)

// demoCapacity is the percentage-of-host budget the demo background-work
// setting competes for. There is only one setting registered in the demo
// wiring today, so this is generous by design — it exists to give the
// controller a real (if slack) constraint rather than an unbounded one.
const demoCapacity = 80.0

// App is a fully wired goblin: one controller instance, real host load
// feeding its one demo setting, a profile persisted to disk between runs,
// and a read-only HTTP surface over all of it.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	version string

	ctrl *controller.Controller[float64, float64]
	demo *setting.FixedArray

	store          *storage.Storage
	profileStorage *storage.ProfileStorage
	sampler        *sysload.Sampler
	ticker         *scheduler.Scheduler
	srv            *server.Server[float64, float64]
}

// New builds an App from cfg. It registers one demo setting
// ("demo.background_work") whose measured burden is real host CPU usage,
// standing in for whatever settings a real embedder would register.
func New(cfg *config.Config, logger *slog.Logger, version string) *App {
	ctrl := controller.New[float64, float64](
		economy.Scalar{},
		controller.ScalarBurdenFromStat(cfg.Controller.PessimismSD),
		controller.Config{
			RecentAlpha:  cfg.Controller.RecentAlpha,
			AnomalyAlpha: cfg.Controller.AnomalyAlpha,
			MeasureQuota: cfg.Controller.MeasureQuota,
			ExploreValue: cfg.Controller.ExploreValue,
			PessimismSD:  cfg.Controller.PessimismSD,
		},
	)

	demo := setting.NewOnOff("demo.background_work", 10.0)
	ctrl.Register(demo)

	store := storage.New(cfg.Persistence.DataDir, cfg.FlushInterval(), logger)
	profileStorage := storage.NewProfileStorage(store, cfg.Persistence.ProfileFile)
	sampler := sysload.NewSampler(cfg.PollInterval(), logger)
	app := &App{
		cfg:            cfg,
		logger:         logger,
		version:        version,
		ctrl:           ctrl,
		demo:           demo,
		store:          store,
		profileStorage: profileStorage,
		sampler:        sampler,
	}
	app.ticker = scheduler.New(app.tick, cfg.PollInterval(), logger)
	app.srv = server.New(cfg, ctrl, profileStorage, sampler, app.ticker, logger, version)
	return app
}

// Start loads any profile persisted by a previous run, and starts the
// sysload sampler, the periodic storage flush and the tick scheduler. It
// does not block; call Serve to run the HTTP server.
func (a *App) Start(ctx context.Context) {
	past := profile.New()
	if err := a.profileStorage.LoadProfile(past); err != nil {
		a.logger.Warn("failed to load persisted profile", "error", err)
	} else if len(past.Tasks()) > 0 {
		a.ctrl.SetPastProfile(past)
		a.logger.Info("fused past-run profile", "tasks", len(past.Tasks()))
	}

	a.sampler.Start(ctx)
	a.store.Start(ctx, a.flush)
	a.ticker.Start(ctx)
}

// Serve blocks running the HTTP server until it is shut down.
func (a *App) Serve() error {
	a.logger.Info("goblin ready", "addr", a.srv.Addr())
	return a.srv.Start()
}

// Shutdown stops the scheduler and sampler, flushes the profile one last
// time and gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	a.ticker.Stop()
	a.sampler.Stop()

	if err := a.store.Stop(a.flush); err != nil {
		a.logger.Error("final profile flush failed", "error", err)
	}

	return a.srv.Shutdown(ctx)
}

// ReloadConfig applies configuration that can change without a restart:
// auth, and the solver precision used by later ticks.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.cfg = cfg
	a.srv.ReloadConfig(cfg)
}

// Tick runs exactly one harvest+decide cycle against the current host
// load and persists the resulting profile, without starting the
// scheduler or HTTP server. It backs the `tick` CLI command.
func (a *App) Tick(ctx context.Context) (feasible bool, err error) {
	past := profile.New()
	if err := a.profileStorage.LoadProfile(past); err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	} else if len(past.Tasks()) > 0 {
		a.ctrl.SetPastProfile(past)
	}

	a.sampler.Start(ctx)
	defer a.sampler.Stop()

	feasible = a.tickOnce()

	if err := a.flush(); err != nil {
		return feasible, fmt.Errorf("flush profile: %w", err)
	}
	return feasible, nil
}

// Controller exposes the wired controller for read-only inspection (the
// TUI viewer runs against the HTTP API instead, but the tick command wants
// direct access to print what just happened).
func (a *App) Controller() *controller.Controller[float64, float64] { return a.ctrl }

func (a *App) tick() {
	a.tickOnce()
	a.store.MarkDirty()
}

func (a *App) tickOnce() bool {
	load := a.sampler.State()
	a.demo.Report(load.CPUPercent)
	return a.ctrl.Update(demoCapacity, a.cfg.Solver.Precision)
}

func (a *App) flush() error {
	return a.profileStorage.SaveProfile(a.ctrl.Profile())
}
