package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stratus-io/stratus/internal/agent"
	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/orchestrator"
	"github.com/stratus-io/stratus/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the live dashboard",
	Long: `Open the live terminal dashboard.

By default the dashboard attaches to stratusd, starting it if needed, so
agent state survives across sessions. With --local, agents run inside the
dashboard process instead and their log lines stream straight into the
activity feed.`,
	RunE: runDash,
}

var (
	dashLocal  bool
	dashServer string
)

func init() {
	dashCmd.Flags().BoolVar(&dashLocal, "local", false, "run agents in-process instead of through stratusd")
	dashCmd.Flags().StringVar(&dashServer, "server", "", "daemon address, e.g. 127.0.0.1:8000 (implies no autostart)")
}

func runDash(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the dashboard needs a terminal; use 'stratus status' for plain output")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	opts := tui.Options{Refresh: settings.Dashboard.RefreshInterval()}

	if dashLocal {
		dir, err := config.AgentsDir()
		if err != nil {
			return err
		}
		registry := agent.NewRegistry(dir)
		discoverySink := agent.LogFunc(func(level feed.Level, source, message string) {
			fmt.Fprintln(os.Stderr, styleWarning.Render(message))
		})
		if err := registry.Discover(discoverySink); err != nil {
			return fmt.Errorf("agent discovery failed: %w", err)
		}
		if registry.Len() == 0 {
			return fmt.Errorf("no agents found in %s; run 'stratus init' first", dir)
		}

		relay := tui.NewRelay()
		opts.Relay = relay
		orch := orchestrator.New(registry, settings, relay)
		return tui.Run(tui.NewLocalBackend(orch), opts)
	}

	if dashServer == "" {
		if err := EnsureDaemon(); err != nil {
			return err
		}
	}
	c, err := daemonClient(dashServer)
	if err != nil {
		return err
	}
	return tui.Run(tui.NewRemoteBackend(c), opts)
}
