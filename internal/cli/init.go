package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the stratus home directory",
	Long: `Initialize the stratus home directory.

This will:
  1. Create ~/.stratus and ~/.stratus/agents.d/
  2. Write settings.yaml with defaults if it does not exist
  3. Seed the stock agent descriptors (existing files are left alone)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create stratus directory: %w", err)
	}

	settingsPath, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}
	if config.FileExists(settingsPath) {
		fmt.Printf("Settings already present at %s\n", settingsPath)
	} else {
		if err := config.SaveSettings(models.NewSettings()); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		fmt.Printf("Created %s\n", settingsPath)
	}

	seeded, err := config.SeedAgentsDir()
	if err != nil {
		return fmt.Errorf("failed to seed agents: %w", err)
	}
	agentsDir, err := config.AgentsDir()
	if err != nil {
		return err
	}
	if seeded == 0 {
		fmt.Printf("Agent descriptors already present in %s\n", agentsDir)
	} else {
		fmt.Println(styleSuccess.Render(fmt.Sprintf("Seeded %d agent descriptors into %s", seeded, agentsDir)))
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  - Run 'stratus daemon start' to launch the background service")
	fmt.Println("  - Run 'stratus dash' to open the live dashboard")

	return nil
}
