// Package orchestrator coordinates agent execution and holds the live
// state the dashboard and the HTTP API read: per-agent statuses, the last
// batch report, and a capped execution history.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stratus-io/stratus/internal/agent"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/telemetry"
)

// maxHistory bounds the retained execution history.
const maxHistory = 10

// ErrBusy is returned when a batch execution is requested while another
// one is still in flight.
var ErrBusy = errors.New("orchestrator is already running")

// ErrUnknownAgent is returned for agent names the registry does not know.
var ErrUnknownAgent = errors.New("unknown agent")

// Orchestrator runs agents and retains what the dashboard needs between
// runs. All mutable state is guarded by mu; agent executions run on their
// own goroutines and funnel log lines back through per-agent sinks.
type Orchestrator struct {
	registry  *agent.Registry
	engine    *agent.Engine
	client    *http.Client
	settings  *models.Settings
	broadcast agent.LogSink

	mu          sync.Mutex
	executing   bool
	executionID string
	statuses    map[string]*models.AgentStatus
	lastReport  *models.Report
	history     []models.HistoryEntry
}

// New creates an orchestrator over the given registry. The broadcast sink
// receives a copy of every agent log line; pass nil to discard them.
func New(registry *agent.Registry, settings *models.Settings, broadcast agent.LogSink) *Orchestrator {
	if settings == nil {
		settings = models.NewSettings()
	}
	if broadcast == nil {
		broadcast = agent.NopSink
	}
	timeout := settings.Execution.AgentTimeout()
	return &Orchestrator{
		registry:  registry,
		engine:    &agent.Engine{DefaultTimeout: timeout},
		client:    &http.Client{Timeout: timeout},
		settings:  settings,
		broadcast: broadcast,
		statuses:  make(map[string]*models.AgentStatus),
	}
}

// RunAll executes every registered agent and returns the aggregated
// report. Concurrency is bounded by max_concurrent_agents; only one batch
// runs at a time.
func (o *Orchestrator) RunAll(ctx context.Context) (*models.Report, error) {
	o.mu.Lock()
	if o.executing {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.executing = true
	id := uuid.New().String()
	o.executionID = id
	o.mu.Unlock()

	report := models.NewReport(id)
	descs := o.registry.List()

	results := make([]models.AgentResult, len(descs))
	sem := make(chan struct{}, o.maxConcurrent())
	var wg sync.WaitGroup
	for i, desc := range descs {
		wg.Add(1)
		go func(i int, desc models.Descriptor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.runAgent(ctx, desc)
		}(i, desc)
	}
	wg.Wait()

	for _, res := range results {
		report.AgentSummaries = append(report.AgentSummaries, res)
		if res.Status == string(models.StateError) {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", res.AgentName, res.Error))
		}
	}
	switch {
	case ctx.Err() != nil:
		report.OverallStatus = models.OverallFailed
		report.Errors = append(report.Errors, fmt.Sprintf("Orchestrator error: %v", ctx.Err()))
	case len(report.Errors) > 0:
		report.OverallStatus = models.OverallCompletedWithErrors
	default:
		report.OverallStatus = models.OverallSuccess
	}
	report.Finish()

	o.mu.Lock()
	o.lastReport = report
	o.history = append(o.history, report.Condense())
	if len(o.history) > maxHistory {
		o.history = o.history[len(o.history)-maxHistory:]
	}
	o.executing = false
	o.executionID = ""
	o.mu.Unlock()

	telemetry.Capture("batch_completed", map[string]any{
		"overall_status": report.OverallStatus,
		"agent_count":    len(report.AgentSummaries),
		"error_count":    len(report.Errors),
		"duration_s":     report.TotalDuration,
	})

	return report, nil
}

// RunOne executes a single agent and returns its refreshed status. It
// shares the busy guard with RunAll: one execution at a time, batch or
// single.
func (o *Orchestrator) RunOne(ctx context.Context, name string) (models.AgentStatus, error) {
	desc, ok := o.registry.Get(name)
	if !ok {
		return models.AgentStatus{}, fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}

	o.mu.Lock()
	if o.executing {
		o.mu.Unlock()
		return models.AgentStatus{}, ErrBusy
	}
	o.executing = true
	o.mu.Unlock()

	o.runAgent(ctx, desc)

	o.mu.Lock()
	o.executing = false
	o.mu.Unlock()

	st, _ := o.Status(name)
	return st, nil
}

// runAgent executes one agent end to end and settles its result. The live
// status record is created up front in the thinking state so the dashboard
// sees the agent as executing while the probe runs.
func (o *Orchestrator) runAgent(ctx context.Context, desc models.Descriptor) models.AgentResult {
	start := time.Now()
	st := models.NewAgentStatus(desc.Name)
	st.State = models.StateThinking
	st.StartTime = &start
	o.mu.Lock()
	o.statuses[desc.Name] = st
	eng, client := o.engine, o.client
	o.mu.Unlock()

	sink := o.agentSink(desc.Name)

	var (
		metrics models.Metrics
		summary string
	)
	probe, err := agent.NewProbe(desc, client)
	if err == nil {
		err = eng.Execute(ctx, desc, func(ctx context.Context) error {
			m, s, runErr := probe.Run(ctx, sink)
			if runErr != nil {
				return runErr
			}
			metrics = m
			summary = s
			return nil
		}, sink)
	}

	end := time.Now()
	res := models.AgentResult{AgentName: desc.Name}

	o.mu.Lock()
	defer o.mu.Unlock()
	st.EndTime = &end
	switch {
	case err == nil:
		st.State = models.StateCompleted
		if metrics == nil {
			summary = "Agent completed but returned no data."
		}
		st.Metrics = metrics
		res.Metrics = metrics
		res.Summary = summary
	case errors.Is(err, agent.ErrTimeout):
		st.State = models.StateWarning
		st.ErrorMessage = "Task execution timed out"
		res.Summary = "Agent completed with warnings. Check logs for details."
		res.Error = st.ErrorMessage
	default:
		st.State = models.StateError
		st.ErrorMessage = err.Error()
		res.Summary = fmt.Sprintf("Agent failed with error: %s", err)
		res.Error = err.Error()
	}
	res.Status = string(st.State)
	res.ExecutionTime = st.DurationSeconds()
	res.Messages = append([]string(nil), st.Messages...)
	return res
}

// agentSink feeds one agent's log lines into its live status record and
// mirrors them to the broadcast sink.
func (o *Orchestrator) agentSink(name string) agent.LogSink {
	return agent.LogFunc(func(level feed.Level, source, message string) {
		o.mu.Lock()
		if st, ok := o.statuses[name]; ok {
			st.AddMessage(message)
			st.TrimMessages(o.settings.Execution.MaxAgentMessages)
		}
		o.mu.Unlock()
		o.broadcast.Log(level, source, message)
	})
}

func (o *Orchestrator) maxConcurrent() int {
	o.mu.Lock()
	n := o.settings.Execution.MaxConcurrentAgents
	o.mu.Unlock()
	if n > 0 {
		return n
	}
	return 1
}

// UpdateSettings swaps in freshly loaded settings. New timeout and
// concurrency bounds apply from the next execution; in-flight runs keep
// the engine they started with.
func (o *Orchestrator) UpdateSettings(settings *models.Settings) {
	if settings == nil {
		return
	}
	timeout := settings.Execution.AgentTimeout()
	o.mu.Lock()
	o.settings = settings
	o.engine = &agent.Engine{DefaultTimeout: timeout}
	o.client = &http.Client{Timeout: timeout}
	o.mu.Unlock()
}

// Executing reports whether a batch run is in flight.
func (o *Orchestrator) Executing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.executing
}

// ExecutionID returns the in-flight execution ID, or "" between runs.
func (o *Orchestrator) ExecutionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.executionID
}

// Statuses returns a snapshot of every agent's live status.
func (o *Orchestrator) Statuses() map[string]models.AgentStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]models.AgentStatus, len(o.statuses))
	for name, st := range o.statuses {
		out[name] = copyStatus(st)
	}
	return out
}

// Status returns a snapshot of one agent's live status.
func (o *Orchestrator) Status(name string) (models.AgentStatus, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.statuses[name]
	if !ok {
		return models.AgentStatus{}, false
	}
	return copyStatus(st), true
}

// History returns up to limit history entries, oldest first.
func (o *Orchestrator) History(limit int) []models.HistoryEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	h := o.history
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	out := make([]models.HistoryEntry, len(h))
	copy(out, h)
	return out
}

// LastReport returns a copy of the most recent batch report, or nil before
// the first run.
func (o *Orchestrator) LastReport() *models.Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastReport == nil {
		return nil
	}
	cp := *o.lastReport
	cp.AgentSummaries = append([]models.AgentResult(nil), o.lastReport.AgentSummaries...)
	cp.Errors = append([]string(nil), o.lastReport.Errors...)
	return &cp
}

// Agents lists the registered descriptors.
func (o *Orchestrator) Agents() []models.Descriptor {
	return o.registry.List()
}

// Registry exposes the descriptor registry so the daemon can rediscover
// on watcher events.
func (o *Orchestrator) Registry() *agent.Registry {
	return o.registry
}

func copyStatus(st *models.AgentStatus) models.AgentStatus {
	cp := *st
	cp.Messages = append([]string(nil), st.Messages...)
	return cp
}
