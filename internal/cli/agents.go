package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratus-io/stratus/internal/agent"
	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

var agentsCmd = &cobra.Command{
	Use:     "agents",
	Aliases: []string{"ls"},
	Short:   "List the discovered agents",
	Long: `List the discovered monitoring agents. When stratusd is running the
listing includes each agent's last known state; otherwise the descriptor
directory is scanned directly.`,
	RunE: runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	running, _, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		c, err := daemonClient("")
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		list, err := c.ListAgents(ctx)
		if err != nil {
			return err
		}
		printAgents(list.Agents)
		return nil
	}

	// No daemon; scan the descriptor directory directly.
	dir, err := config.AgentsDir()
	if err != nil {
		return err
	}
	registry := agent.NewRegistry(dir)
	sink := agent.LogFunc(func(level feed.Level, source, message string) {
		fmt.Fprintln(os.Stderr, styleWarning.Render(message))
	})
	if err := registry.Discover(sink); err != nil {
		return err
	}

	descs := registry.List()
	infos := make([]models.AgentInfo, 0, len(descs))
	for _, d := range descs {
		infos = append(infos, models.AgentInfo{
			Name:        d.Name,
			Type:        d.Kind,
			Status:      models.StateIdle,
			Description: d.Description,
		})
	}
	printAgents(infos)
	return nil
}

func printAgents(agents []models.AgentInfo) {
	if len(agents) == 0 {
		fmt.Println("No agents found. Run 'stratus init' to seed the defaults.")
		return
	}

	nameWidth := 12
	for _, a := range agents {
		if len(a.Name) > nameWidth {
			nameWidth = len(a.Name)
		}
	}

	fmt.Printf("Agents (%d):\n", len(agents))
	for _, a := range agents {
		desc := a.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Printf("  %-*s  %-12s  %-10s  %s\n",
			nameWidth, a.Name, a.Type, a.Status, styleHint.Render(desc))
	}
}
