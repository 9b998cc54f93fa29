// Package cli implements the stratus CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratus",
	Short: "Monitor cloud provider health from your terminal",
	Long: `Stratus watches the status pages of the cloud providers you depend on.
It runs monitoring agents on a schedule, aggregates their findings, and
shows everything on a live terminal dashboard.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
