package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get current controller status",
	Long:  `Query the running goblin server for its current anomaly signal, host load and tick count.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusResult struct {
	Anomaly struct {
		Latest float64 `json:"latest"`
		Recent float64 `json:"recent"`
	} `json:"anomaly"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	TickCount  int64   `json:"tick_count"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient()

	data, status, err := client.Get("/status")
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(data))
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	var result statusResult
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	fmt.Println("=== Controller Status ===")
	fmt.Printf("Anomaly:  latest %.3f  recent %.3f\n", result.Anomaly.Latest, result.Anomaly.Recent)
	fmt.Printf("CPU:      %.1f%%\n", result.CPUPercent)
	fmt.Printf("Memory:   %.1f%%\n", result.MemPercent)
	fmt.Printf("Ticks:    %d\n", result.TickCount)

	return nil
}
