package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratus-io/stratus/internal/config"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recent execution history",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	running, _, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		return fmt.Errorf("stratusd is not running; start it with 'stratus daemon start'")
	}

	c, err := daemonClient("")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := c.History(ctx, historyLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No execution history yet. Run 'stratus status' first.")
		return nil
	}

	fmt.Printf("Last %d executions (oldest first):\n", len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("  %s  %-22s  %d agents, %d errors, %.2fs",
			e.StartTime.Local().Format("2006-01-02 15:04:05"),
			e.OverallStatus, e.AgentCount, e.ErrorCount, e.DurationSeconds)
		fmt.Println(line)
	}
	return nil
}
