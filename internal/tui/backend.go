package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/stratus-io/stratus/internal/client"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/orchestrator"
)

// Backend is the narrow surface the dashboard drives. The local variant
// runs agents in-process; the remote variant proxies the stratusd HTTP API.
type Backend interface {
	// Target describes where agents run, for the status bar. The local
	// variant returns "local"; the remote variant returns the daemon URL.
	Target() string

	// RunAll executes every agent and returns the assembled report.
	RunAll(ctx context.Context) (*models.Report, error)

	// RunAgent executes one agent by name.
	RunAgent(ctx context.Context, name string) (models.AgentStatus, error)

	// Agents lists the discovered agents with their last known state.
	Agents(ctx context.Context) ([]models.AgentInfo, error)

	// AgentLogs returns one agent's execution log payload.
	AgentLogs(ctx context.Context, name string) (models.AgentLogs, error)

	// History returns up to limit condensed past executions, oldest first.
	History(ctx context.Context, limit int) ([]models.HistoryEntry, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Relay forwards engine log lines into the running dashboard's feed. It
// satisfies agent.LogSink, so the local variant passes it to the
// orchestrator as the broadcast sink. Lines sent while no program is
// attached are dropped.
type Relay struct {
	ref *programRef
}

// NewRelay returns an unattached relay.
func NewRelay() *Relay {
	return &Relay{}
}

func (r *Relay) attach(ref *programRef) {
	r.ref = ref
}

// Log implements agent.LogSink.
func (r *Relay) Log(level feed.Level, source, message string) {
	if r.ref == nil {
		return
	}
	r.ref.Send(FeedLineMsg{Entry: feed.Entry{
		Time:    time.Now(),
		Level:   level,
		Source:  source,
		Message: message,
	}})
}

// LocalBackend runs agents in-process through the orchestrator.
type LocalBackend struct {
	orch *orchestrator.Orchestrator
}

// NewLocalBackend wraps an orchestrator as a dashboard backend.
func NewLocalBackend(orch *orchestrator.Orchestrator) *LocalBackend {
	return &LocalBackend{orch: orch}
}

func (b *LocalBackend) Target() string { return "local" }

func (b *LocalBackend) RunAll(ctx context.Context) (*models.Report, error) {
	return b.orch.RunAll(ctx)
}

func (b *LocalBackend) RunAgent(ctx context.Context, name string) (models.AgentStatus, error) {
	return b.orch.RunOne(ctx, name)
}

func (b *LocalBackend) Agents(ctx context.Context) ([]models.AgentInfo, error) {
	descs := b.orch.Agents()
	infos := make([]models.AgentInfo, 0, len(descs))
	for _, d := range descs {
		info := models.AgentInfo{
			Name:        d.Name,
			Type:        d.Kind,
			Status:      models.StateIdle,
			Description: d.Description,
		}
		if st, ok := b.orch.Status(d.Name); ok {
			info.Status = st.State
			info.LastExecution = st.EndTime
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (b *LocalBackend) AgentLogs(ctx context.Context, name string) (models.AgentLogs, error) {
	if _, ok := b.orch.Registry().Get(name); !ok {
		return models.AgentLogs{}, fmt.Errorf("agent %q not found", name)
	}
	st, ok := b.orch.Status(name)
	if !ok {
		return models.IdleLogs(name), nil
	}
	return models.LogsFromStatus(st), nil
}

func (b *LocalBackend) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	return b.orch.History(limit), nil
}

func (b *LocalBackend) Ping(ctx context.Context) error { return nil }

// RemoteBackend proxies a running stratusd over its HTTP API.
type RemoteBackend struct {
	client *client.Client
}

// NewRemoteBackend wraps a daemon client as a dashboard backend.
func NewRemoteBackend(c *client.Client) *RemoteBackend {
	return &RemoteBackend{client: c}
}

func (b *RemoteBackend) Target() string { return b.client.BaseURL() }

func (b *RemoteBackend) RunAll(ctx context.Context) (*models.Report, error) {
	return b.client.RetrieveStatus(ctx)
}

func (b *RemoteBackend) RunAgent(ctx context.Context, name string) (models.AgentStatus, error) {
	return b.client.ExecuteAgent(ctx, name)
}

func (b *RemoteBackend) Agents(ctx context.Context) ([]models.AgentInfo, error) {
	list, err := b.client.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	return list.Agents, nil
}

func (b *RemoteBackend) AgentLogs(ctx context.Context, name string) (models.AgentLogs, error) {
	return b.client.AgentLogs(ctx, name)
}

func (b *RemoteBackend) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	return b.client.History(ctx, limit)
}

func (b *RemoteBackend) Ping(ctx context.Context) error {
	return b.client.Health(ctx)
}

var (
	_ Backend = (*LocalBackend)(nil)
	_ Backend = (*RemoteBackend)(nil)
)
