// Package server implements the HTTP API for the daemon.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/daemon/tray"
	"github.com/stratus-io/stratus/internal/daemon/watcher"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/orchestrator"
)

// Server is the daemon's HTTP server.
type Server struct {
	httpServer  *http.Server
	listener    net.Listener
	port        int
	orch        *orchestrator.Orchestrator
	watcher     *watcher.Watcher
	updateState UpdateState
}

// New creates a new server over the given orchestrator, listening on the
// specified host and port. Pass port 0 for dynamic allocation.
func New(host string, port int, orch *orchestrator.Orchestrator) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	srv := &Server{
		listener: listener,
		port:     actualPort,
		orch:     orch,
	}
	srv.httpServer = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Orchestrator returns the orchestrator behind the API.
func (s *Server) Orchestrator() *orchestrator.Orchestrator {
	return s.orch
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	s.startWatcher()
	s.startUpdateCheck()
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		_ = s.httpServer.Close()
	}
}

// startWatcher begins watching the config tree so edits to agents.d and
// settings.yaml take effect without a daemon restart.
func (s *Server) startWatcher() {
	w, err := watcher.New()
	if err != nil {
		log.Printf("[server] File watcher unavailable: %v", err)
		return
	}
	if err := w.Start(); err != nil {
		log.Printf("[server] File watcher failed to start: %v", err)
		w.Stop()
		return
	}
	s.watcher = w

	go func() {
		for ev := range w.Events() {
			switch ev {
			case watcher.EventAgentsChanged:
				if err := s.orch.Registry().Discover(discoverSink{}); err != nil {
					log.Printf("[server] Agent rediscovery failed: %v", err)
					continue
				}
				log.Printf("[server] Agent registry reloaded: %d agent(s)", s.orch.Registry().Len())
			case watcher.EventSettingsChanged:
				settings, err := config.LoadSettings()
				if err != nil {
					log.Printf("[server] Settings reload failed: %v", err)
					continue
				}
				s.orch.UpdateSettings(settings)
				log.Printf("[server] Settings reloaded")
			}
		}
	}()
}

// discoverSink routes registry discovery warnings to the daemon log.
type discoverSink struct{}

func (discoverSink) Log(level feed.Level, source, message string) {
	log.Printf("[%s] %s", source, message)
}

// TrayState adapts a Server to the tray.DaemonState interface.
type TrayState struct {
	srv *Server
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server) *TrayState {
	return &TrayState{srv: srv}
}

// Port returns the port the server is listening on.
func (t *TrayState) Port() int {
	return t.srv.Port()
}

// AgentCount returns the number of registered agents.
func (t *TrayState) AgentCount() int {
	return t.srv.orch.Registry().Len()
}

// Executing reports whether a batch run is in flight.
func (t *TrayState) Executing() bool {
	return t.srv.orch.Executing()
}

// OverallStatus summarizes the last batch for the tray menu.
func (t *TrayState) OverallStatus() string {
	report := t.srv.orch.LastReport()
	if report == nil {
		return "no runs yet"
	}
	return report.OverallStatus
}

// TriggerRunAll starts a batch execution in the background. Busy errors
// are ignored; the menu item is a convenience, not a queue.
func (t *TrayState) TriggerRunAll() {
	go func() {
		if _, err := t.srv.orch.RunAll(context.Background()); err != nil && !errors.Is(err, orchestrator.ErrBusy) {
			log.Printf("[server] Tray-triggered run failed: %v", err)
		}
	}()
}

// UpdateHint returns a short menu line when a newer release is known.
func (t *TrayState) UpdateHint() string {
	available, version, _ := t.srv.GetUpdateState()
	if !available {
		return ""
	}
	return fmt.Sprintf("Update available: v%s", version)
}

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (t *TrayState) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}

var _ tray.DaemonState = (*TrayState)(nil)
