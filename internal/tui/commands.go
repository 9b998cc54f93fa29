package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Request budgets. Batches are bounded per agent by the engine; these only
// cap how long the dashboard waits for an answer at all.
const (
	batchBudget   = 5 * time.Minute
	agentBudget   = 2 * time.Minute
	queryBudget   = 5 * time.Second
	connPollEvery = 10 * time.Second
)

func runAllCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchBudget)
		defer cancel()

		report, err := b.RunAll(ctx)
		return BatchDoneMsg{Report: report, Err: err}
	}
}

func runAgentCmd(b Backend, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), agentBudget)
		defer cancel()

		st, err := b.RunAgent(ctx, name)
		return AgentRunDoneMsg{Name: name, Status: st, Err: err}
	}
}

func loadAgentsCmd(b Backend, show bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryBudget)
		defer cancel()

		agents, err := b.Agents(ctx)
		return AgentsListedMsg{Agents: agents, Show: show, Err: err}
	}
}

func agentLogsCmd(b Backend, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryBudget)
		defer cancel()

		logs, err := b.AgentLogs(ctx, name)
		return AgentLogsMsg{Name: name, Logs: logs, Err: err}
	}
}

func historyCmd(b Backend, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryBudget)
		defer cancel()

		entries, err := b.History(ctx, limit)
		return HistoryMsg{Entries: entries, Err: err}
	}
}

func pingCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryBudget)
		defer cancel()

		return PingMsg{Err: b.Ping(ctx)}
	}
}

func refreshTick(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(_ time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

func connTick() tea.Cmd {
	return tea.Tick(connPollEvery, func(_ time.Time) tea.Msg {
		return ConnTickMsg{}
	})
}
