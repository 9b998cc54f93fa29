// Package agent implements the monitoring agents: descriptor discovery,
// the probes that do the actual polling, and the engine that runs any
// probe under its timeout budget.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

var ErrTimeout = errString("task execution timed out")

type errString string

func (e errString) Error() string { return string(e) }

// LogSink receives leveled log lines from an executing agent. Implementations
// must be safe to call from the goroutine running the unit of work.
type LogSink interface {
	Log(level feed.Level, source, message string)
}

// LogFunc adapts a function to a LogSink.
type LogFunc func(level feed.Level, source, message string)

func (f LogFunc) Log(level feed.Level, source, message string) { f(level, source, message) }

// NopSink discards all log lines.
var NopSink = LogFunc(func(feed.Level, string, string) {})

// Unit is one agent's runnable work. It should honor ctx cancellation but
// the engine does not depend on it doing so.
type Unit func(ctx context.Context) error

// Engine races a unit of work against its descriptor's timeout budget.
type Engine struct {
	DefaultTimeout time.Duration
}

// Execute runs unit under the descriptor's budget and reports the outcome
// through both the returned error and the sink. Exactly one terminal log
// line is emitted per call: success on completion, error on failure or
// timeout. A unit that loses the race may keep running in the background;
// its eventual result is discarded.
func (e *Engine) Execute(ctx context.Context, desc models.Descriptor, unit Unit, sink LogSink) error {
	timeout := desc.Timeout(e.DefaultTimeout)
	sink.Log(feed.LevelInfo, desc.Name, fmt.Sprintf("Starting %s...", desc.Name))

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- unit(runCtx) }()

	var err error
	select {
	case err = <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
	case <-runCtx.Done():
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = ErrTimeout
		} else {
			err = runCtx.Err()
		}
	}

	switch {
	case err == nil:
		sink.Log(feed.LevelSuccess, desc.Name, fmt.Sprintf("%s completed in %.2fs", desc.Name, time.Since(start).Seconds()))
	case errors.Is(err, ErrTimeout):
		sink.Log(feed.LevelError, desc.Name, fmt.Sprintf("%s timed out after %s", desc.Name, timeout))
		err = fmt.Errorf("%s: %w", desc.Name, ErrTimeout)
	default:
		sink.Log(feed.LevelError, desc.Name, fmt.Sprintf("%s failed: %v", desc.Name, err))
	}
	return err
}
