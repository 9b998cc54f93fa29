package tui

import (
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// FeedLineMsg carries one log line into the feed. Engine lines arrive this
// way through the relay when agents run in-process.
type FeedLineMsg struct {
	Entry feed.Entry
}

// BatchDoneMsg carries the outcome of a run-all batch.
type BatchDoneMsg struct {
	Report *models.Report
	Err    error
}

// AgentRunDoneMsg carries the outcome of a single-agent run.
type AgentRunDoneMsg struct {
	Name   string
	Status models.AgentStatus
	Err    error
}

// AgentsListedMsg carries the discovered agent set. Show requests a feed
// listing; the silent form only refreshes the idle rows.
type AgentsListedMsg struct {
	Agents []models.AgentInfo
	Show   bool
	Err    error
}

// AgentLogsMsg carries one agent's execution log payload.
type AgentLogsMsg struct {
	Name string
	Logs models.AgentLogs
	Err  error
}

// HistoryMsg carries recent condensed executions, oldest first.
type HistoryMsg struct {
	Entries []models.HistoryEntry
	Err     error
}

// RefreshTickMsg fires the periodic run-all scheduler.
type RefreshTickMsg struct{}

// ConnTickMsg fires the connection indicator poll.
type ConnTickMsg struct{}

// PingMsg carries the outcome of a backend health probe.
type PingMsg struct {
	Err error
}
