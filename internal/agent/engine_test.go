package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// recordingSink captures log lines for assertions. Units run on their own
// goroutine, so access is locked.
type recordingSink struct {
	mu    sync.Mutex
	lines []feed.Entry
}

func (s *recordingSink) Log(level feed.Level, source, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, feed.Entry{Level: level, Source: source, Message: message})
}

func (s *recordingSink) snapshot() []feed.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]feed.Entry, len(s.lines))
	copy(out, s.lines)
	return out
}

func TestExecuteSuccess(t *testing.T) {
	e := &Engine{DefaultTimeout: time.Second}
	sink := &recordingSink{}
	desc := models.Descriptor{Name: "FastAgent"}

	err := e.Execute(context.Background(), desc, func(ctx context.Context) error {
		return nil
	}, sink)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	lines := sink.snapshot()
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2 (start + terminal)", len(lines))
	}
	if lines[0].Level != feed.LevelInfo || !strings.Contains(lines[0].Message, "Starting") {
		t.Errorf("first line = %v %q, want info starting line", lines[0].Level, lines[0].Message)
	}
	if lines[1].Level != feed.LevelSuccess || lines[1].Source != "FastAgent" {
		t.Errorf("terminal line = %v source=%q, want success from FastAgent", lines[1].Level, lines[1].Source)
	}
}

func TestExecuteFailure(t *testing.T) {
	e := &Engine{DefaultTimeout: time.Second}
	sink := &recordingSink{}
	desc := models.Descriptor{Name: "BrokenAgent"}

	err := e.Execute(context.Background(), desc, func(ctx context.Context) error {
		return errors.New("connection refused")
	}, sink)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("Execute() error = %v, want connection refused", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("failure outcome reported as timeout")
	}

	lines := sink.snapshot()
	last := lines[len(lines)-1]
	if last.Level != feed.LevelError || !strings.Contains(last.Message, "connection refused") {
		t.Errorf("terminal line = %v %q, want error with underlying message", last.Level, last.Message)
	}
}

func TestExecuteTimeout(t *testing.T) {
	e := &Engine{DefaultTimeout: 20 * time.Millisecond}
	sink := &recordingSink{}
	desc := models.Descriptor{Name: "SlowAgent"}

	// The unit ignores ctx entirely; the engine must stop waiting anyway.
	err := e.Execute(context.Background(), desc, func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	}, sink)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}

	// The losing branch may finish later; it must never add a success line.
	time.Sleep(250 * time.Millisecond)
	lines := sink.snapshot()
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2 (start + timeout)", len(lines))
	}
	if lines[1].Level != feed.LevelError || !strings.Contains(lines[1].Message, "timed out") {
		t.Errorf("terminal line = %v %q, want timeout error", lines[1].Level, lines[1].Message)
	}
	for _, l := range lines {
		if l.Level == feed.LevelSuccess {
			t.Errorf("success line emitted for a timed out invocation: %q", l.Message)
		}
	}
}

func TestExecuteNormalizesDeadlineError(t *testing.T) {
	e := &Engine{DefaultTimeout: 20 * time.Millisecond}
	sink := &recordingSink{}
	desc := models.Descriptor{Name: "PoliteAgent"}

	// A unit that honors ctx and returns its error still reports a timeout.
	err := e.Execute(context.Background(), desc, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, sink)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
}

func TestExecuteUsesDescriptorBudget(t *testing.T) {
	e := &Engine{DefaultTimeout: 10 * time.Millisecond}
	sink := &recordingSink{}
	// The descriptor budget is generous, so the default must not fire.
	desc := models.Descriptor{Name: "BudgetAgent", TimeoutSeconds: 5}

	err := e.Execute(context.Background(), desc, func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}, sink)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil (descriptor budget overrides default)", err)
	}
}
