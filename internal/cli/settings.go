package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratus-io/stratus/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Long: `Show the effective settings and where they come from. Missing values
fall back to defaults; edit the file and restart stratusd to apply changes.`,
	RunE: runSettings,
}

func runSettings(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}

	source := path
	if !config.FileExists(path) {
		source = path + " (not written yet; showing defaults)"
	}

	fmt.Printf("Settings from %s\n\n", source)
	fmt.Printf("  Server address:     %s\n", settings.Server.Addr())
	fmt.Printf("  Agent timeout:      %s\n", settings.Execution.AgentTimeout())
	fmt.Printf("  Max concurrency:    %d\n", settings.Execution.MaxConcurrentAgents)
	fmt.Printf("  Message cap:        %d\n", settings.Execution.MaxAgentMessages)
	fmt.Printf("  Auto-refresh:       %s\n", settings.Dashboard.RefreshInterval())
	fmt.Printf("  Update checks:      %v (%s)\n", settings.Updates.CheckOnStartup, settings.Updates.CheckFrequency)
	fmt.Printf("  Telemetry:          %v\n", settings.Telemetry.Enabled)
	return nil
}
