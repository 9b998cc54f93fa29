package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratus-io/stratus/internal/config"
)

var logsCmd = &cobra.Command{
	Use:   "logs <agent>",
	Short: "Print an agent's execution log",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
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

	logs, err := c.AgentLogs(ctx, args[0])
	if err != nil {
		return err
	}

	if logs.Message != "" {
		fmt.Printf("%s: %s\n", logs.AgentName, logs.Message)
		return nil
	}

	fmt.Printf("%s [%s]", styleName.Render(logs.AgentName), logs.State)
	if logs.Execution != nil && logs.Execution.StartTime != nil {
		fmt.Printf("  started %s, %.2fs",
			logs.Execution.StartTime.Local().Format("15:04:05"),
			logs.Execution.DurationSeconds)
	}
	fmt.Println()

	if len(logs.Messages) == 0 {
		fmt.Println("  (no messages)")
	}
	for _, msg := range logs.Messages {
		fmt.Println("  " + msg)
	}

	if logs.Error != "" {
		fmt.Println(styleError.Render("  Error: " + logs.Error))
	}
	return nil
}
