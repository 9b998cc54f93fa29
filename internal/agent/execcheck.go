package agent

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// execProbe runs a local check command under a PTY, so tools that detect a
// terminal keep their normal output. Captured lines are ANSI-stripped and
// funneled into the sink; the exit status decides the outcome.
type execProbe struct {
	name    string
	command string
}

func (p *execProbe) Run(ctx context.Context, sink LogSink) (models.Metrics, string, error) {
	sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Running check: %s", p.command))

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", p.command)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("start check command: %w", err)
	}
	defer ptmx.Close()

	lines := 0
	scanner := bufio.NewScanner(ptmx)
	for scanner.Scan() {
		line := strings.TrimSpace(ansi.Strip(scanner.Text()))
		if line == "" {
			continue
		}
		sink.Log(feed.LevelInfo, p.name, line)
		lines++
	}
	// The PTY read fails with EIO once the child exits; the exit status is
	// what matters.

	if err := cmd.Wait(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("check command exited with code %d", exitCode)
	}

	summary := fmt.Sprintf("Check passed with %d output line(s).", lines)
	return models.OpaqueMetrics{"exit_code": 0, "output_lines": lines}, summary, nil
}
