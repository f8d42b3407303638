package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/goblin/internal/config"
	"github.com/haskel/goblin/internal/logger"
	"github.com/haskel/goblin/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the goblin controller as a long-lived server",
	Long:  `Start the goblin controller in foreground mode: sample host load, tick the solver on a schedule, and serve its state over HTTP.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("goblin starting", "version", Version, "config", cfgFile)

	app := service.New(cfg, log, Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.Start(ctx)

	sighupCh := make(chan os.Signal, 1)
	sigCh := make(chan os.Signal, 1)
	shutdownDone := make(chan struct{})

	signal.Notify(sighupCh, syscall.SIGHUP)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			select {
			case <-sighupCh:
				log.Info("SIGHUP received, reloading configuration")

				newCfg := config.LoadOrDefault(cfgFile)
				if err := newCfg.Validate(); err != nil {
					log.Error("invalid configuration, reload aborted", "error", err)
					continue
				}

				app.ReloadConfig(newCfg)
			case <-shutdownDone:
				return
			}
		}
	}()

	go func() {
		<-sigCh

		log.Info("shutdown signal received")

		signal.Stop(sighupCh)
		signal.Stop(sigCh)
		close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}

		cancel()
	}()

	if err := app.Serve(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("goblin stopped")
	return nil
}
