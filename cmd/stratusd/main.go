// Package main is the entry point for the stratusd daemon.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stratus-io/stratus/internal/agent"
	"github.com/stratus-io/stratus/internal/buildinfo"
	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/daemon/server"
	"github.com/stratus-io/stratus/internal/daemon/tray"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/orchestrator"
	"github.com/stratus-io/stratus/internal/telemetry"
)

func main() {
	// Parse flags
	foreground := flag.Bool("foreground", false, "Run in foreground (no system tray, log to stderr)")
	port := flag.Int("port", 0, "Port to listen on (overrides the configured port)")
	flag.Parse()

	log.SetPrefix("[stratusd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure global directory exists
	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	// Detached daemons have no useful stderr; log to the rotating file.
	if !*foreground {
		if w, err := config.DaemonLogWriter(); err == nil {
			log.SetOutput(w)
			defer w.Close()
		} else {
			log.Printf("Rotating log unavailable, keeping stderr: %v", err)
		}
	}

	// Check if daemon is already running
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	telemetry.Init(settings)
	defer telemetry.Close()

	orch, err := buildOrchestrator(settings)
	if err != nil {
		log.Fatalf("Failed to build orchestrator: %v", err)
	}

	host := settings.Server.Host
	listenPort := settings.Server.Port
	if *port != 0 {
		listenPort = *port
	}

	if *foreground {
		log.Println("Running in foreground mode (no system tray)")
		runForeground(host, listenPort, orch)
	} else {
		log.Println("Running in background mode (with system tray)")
		runWithTray(host, listenPort, orch)
	}
}

// buildOrchestrator discovers agents and wires them into an orchestrator.
// Discovery warnings and agent log lines both land in the daemon log.
func buildOrchestrator(settings *models.Settings) (*orchestrator.Orchestrator, error) {
	dir, err := config.AgentsDir()
	if err != nil {
		return nil, err
	}
	logSink := agent.LogFunc(func(level feed.Level, source, message string) {
		log.Printf("[%s] %s", source, message)
	})
	registry := agent.NewRegistry(dir)
	if err := registry.Discover(logSink); err != nil {
		return nil, err
	}
	if registry.Len() == 0 {
		log.Printf("No agents discovered in %s; run 'stratus init' to seed the defaults", dir)
	} else {
		log.Printf("Discovered %d agent(s)", registry.Len())
	}
	return orchestrator.New(registry, settings, logSink), nil
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(host string, port int, orch *orchestrator.Orchestrator) {
	srv, err := server.New(host, port, orch)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	daemonInfo := models.NewDaemonInfo(host, srv.Port(), os.Getpid(), buildinfo.Version)
	if err := config.SaveDaemonInfo(daemonInfo); err != nil {
		log.Fatalf("Failed to write daemon info: %v", err)
	}

	log.Printf("Daemon started on %s:%d (PID %d)", host, srv.Port(), os.Getpid())
	telemetry.Capture("daemon_started", map[string]any{
		"agent_count": orch.Registry().Len(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	srv.Stop()

	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}

	fmt.Println("Daemon stopped")
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(host string, port int, orch *orchestrator.Orchestrator) {
	var srv *server.Server

	onStart := func() {
		var err error
		srv, err = server.New(host, port, orch)
		if err != nil {
			log.Fatalf("Failed to create server: %v", err)
		}

		daemonInfo := models.NewDaemonInfo(host, srv.Port(), os.Getpid(), buildinfo.Version)
		if err := config.SaveDaemonInfo(daemonInfo); err != nil {
			log.Fatalf("Failed to write daemon info: %v", err)
		}

		log.Printf("Daemon started on %s:%d (PID %d)", host, srv.Port(), os.Getpid())
		telemetry.Capture("daemon_started", map[string]any{
			"agent_count": orch.Registry().Len(),
		})

		// Serve HTTP in background
		go func() {
			if err := srv.Serve(); err != nil {
				log.Printf("Server error: %v", err)
				tray.Quit()
			}
		}()

		// Quit the tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	onExit := func() {
		if srv != nil {
			srv.Stop()
		}

		if err := config.RemoveDaemonInfo(); err != nil {
			log.Printf("Failed to remove daemon info: %v", err)
		}

		fmt.Println("Daemon stopped")
	}

	// We need a DaemonState before the server is created, so we use a
	// lazy wrapper that defers to the real TrayState once the server exists.
	lazyState := &lazyDaemonState{getSrv: func() *server.Server { return srv }}

	// This blocks the main goroutine until tray exits.
	tray.Run(lazyState, onStart, onExit)
}

// lazyDaemonState wraps server.TrayState with lazy initialization.
// The server is nil at tray startup and created inside onStart.
type lazyDaemonState struct {
	getSrv func() *server.Server
}

func (l *lazyDaemonState) Port() int {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).Port()
	}
	return 0
}

func (l *lazyDaemonState) AgentCount() int {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).AgentCount()
	}
	return 0
}

func (l *lazyDaemonState) Executing() bool {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).Executing()
	}
	return false
}

func (l *lazyDaemonState) OverallStatus() string {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).OverallStatus()
	}
	return "no runs yet"
}

func (l *lazyDaemonState) UpdateHint() string {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).UpdateHint()
	}
	return ""
}

func (l *lazyDaemonState) TriggerRunAll() {
	if srv := l.getSrv(); srv != nil {
		server.NewTrayState(srv).TriggerRunAll()
	}
}

func (l *lazyDaemonState) RequestShutdown() {
	if srv := l.getSrv(); srv != nil {
		server.NewTrayState(srv).RequestShutdown()
	}
}

var _ tray.DaemonState = (*lazyDaemonState)(nil)
