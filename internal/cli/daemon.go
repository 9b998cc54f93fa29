package cli

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/stratus-io/stratus/internal/config"
)

// EnsureDaemon makes sure stratusd is running, starting it if necessary.
func EnsureDaemon() error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	return startDaemon()
}

// startDaemon starts the daemon process in the background.
func startDaemon() error {
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(daemonPath)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	// Wait for daemon to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("daemon failed to start within timeout")
}

// findDaemonBinary locates the stratusd binary.
func findDaemonBinary() (string, error) {
	// Try PATH first
	path, err := exec.LookPath("stratusd")
	if err == nil {
		return path, nil
	}

	// Try relative to current executable
	execPath, err := os.Executable()
	if err == nil {
		daemonPath := execPath[:len(execPath)-len("stratus")] + "stratusd"
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	// Try build directory
	if _, err := os.Stat("./build/stratusd"); err == nil {
		return "./build/stratusd", nil
	}

	return "", fmt.Errorf("stratusd not found. Install or build it first")
}
