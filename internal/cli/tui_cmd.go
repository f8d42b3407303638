package cli

import (
	"time"

	"github.com/haskel/goblin/internal/cli/tui"
	"github.com/spf13/cobra"
)

var (
	refreshInterval time.Duration
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch a live status viewer",
	Long: `Launch a small read-only terminal dashboard showing the running
controller's anomaly signal, host load, and each registered setting's
current choice.

Examples:
  goblin tui                    # Basic launch with default settings
  goblin tui --refresh 500ms    # Faster refresh rate
  goblin tui --host 10.0.0.1    # Connect to remote server`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&refreshInterval, "refresh", time.Second, "dashboard refresh interval")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	config := tui.Config{
		ServerURL:       GetServerURL(),
		RefreshInterval: refreshInterval,
		User:            user,
		Password:        password,
	}

	return tui.Run(config)
}
