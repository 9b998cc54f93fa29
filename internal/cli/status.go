package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratus-io/stratus/internal/client"
	"github.com/stratus-io/stratus/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run all agents once and print the results",
	Long: `Run every agent through the daemon and print the aggregated cloud
status as a table. Starts stratusd if it is not already running.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := EnsureDaemon(); err != nil {
		return err
	}
	c, err := daemonClient("")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("Running agents...")
	report, err := c.RetrieveStatus(ctx)
	if err != nil {
		if client.IsBusy(err) {
			return fmt.Errorf("an execution is already in progress; try again shortly")
		}
		return err
	}

	rows := status.Aggregate(report.AgentSummaries)

	nameWidth := 12
	statusWidth := len(status.CriticalOutage)
	for _, r := range rows {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
	}

	fmt.Printf("\nCloud status at %s (%d agents, %.2fs):\n\n",
		time.Now().Format("15:04:05"), len(rows), report.TotalDuration)
	for _, r := range rows {
		dot := styleStatus(r.Status).Render("●")
		fmt.Printf("  %s %-*s  %-*s  %s\n",
			dot, nameWidth, r.Name, statusWidth, r.Status, styleHint.Render(r.Summary))
	}

	if len(report.Errors) > 0 {
		fmt.Println()
		for _, e := range report.Errors {
			fmt.Println(styleError.Render("  " + e))
		}
	}

	worst := status.Worst(rows)
	fmt.Printf("\nOverall: %s\n", styleStatus(worst).Render(worst))
	return nil
}
