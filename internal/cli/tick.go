package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/goblin/internal/config"
	"github.com/haskel/goblin/internal/logger"
	"github.com/haskel/goblin/internal/service"
	"github.com/haskel/goblin/internal/setting"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run a single harvest+decide cycle against real host load",
	Long: `Sample current host CPU/memory once, run one controller update against
it, print what was decided, and persist the resulting profile — without
starting the scheduler or the HTTP server.`,
	RunE: runTick,
}

func init() {
	rootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	app := service.New(cfg, log, Version)

	feasible, err := app.Tick(context.Background())
	if err != nil {
		return fmt.Errorf("tick failed: %w", err)
	}

	ctrl := app.Controller()

	if jsonOut {
		fmt.Printf(`{"feasible":%t,"anomaly_latest":%g,"anomaly_recent":%g}`+"\n",
			feasible, ctrl.Anomaly.Latest, ctrl.Anomaly.Recent)
		return nil
	}

	fmt.Println("=== Tick ===")
	fmt.Printf("Feasible: %t\n", feasible)
	fmt.Printf("Anomaly:  latest %.3f  recent %.3f\n", ctrl.Anomaly.Latest, ctrl.Anomaly.Recent)
	for _, s := range ctrl.Settings() {
		choice := "?"
		if reader, ok := s.(setting.ChoiceReader); ok {
			choice = fmt.Sprintf("%d", reader.Choice())
		}
		fmt.Printf("Setting %-24s choice=%s options=%v\n", s.ID(), choice, s.Options())
	}

	return nil
}
