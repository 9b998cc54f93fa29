package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/status"
)

// View modes.
const (
	modeDashboard = 0
	modeDetail    = 1
)

// Model is the root Bubbletea model for the dashboard.
type Model struct {
	backend Backend
	target  string

	// Data: the last settled result set and the rows derived from it.
	// Rows are recomputed in full on every completion, never patched.
	results []models.AgentResult
	rows    []status.Row
	agents  []models.AgentInfo

	// Activity feed and its viewport cursor.
	feed *feed.Feed

	// Execution state. At most one batch or single run is outstanding.
	executing bool
	lastRun   time.Time
	overall   string

	// Connection state, refreshed by the conn tick.
	connected bool
	connKnown bool
	streams   bool

	// View state.
	mode      int
	detailIdx int
	showHelp  bool

	// Command input and palette.
	input       textinput.Model
	paletteOpen bool
	paletteSel  int

	spin    spinner.Model
	refresh time.Duration
	width   int
	height  int
}

// NewModel creates the initial dashboard model.
func NewModel(b Backend, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type / for commands"
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorCyan)

	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = 5 * time.Minute
	}

	f := feed.New()
	f.Log(feed.LevelSystem, "", "Dashboard ready. Type /help for commands.")
	f.Log(feed.LevelSystem, "", fmt.Sprintf("Auto-refresh every %s", refresh))

	return Model{
		backend: b,
		target:  b.Target(),
		feed:    f,
		input:   ti,
		spin:    sp,
		refresh: refresh,
		streams: opts.Relay != nil,
	}
}

// Init returns the initial commands: load the agent list, probe the
// backend, and arm both tickers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		loadAgentsCmd(m.backend, false),
		pingCmd(m.backend),
		refreshTick(m.refresh),
		connTick(),
	)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	// ── Window resize ──────────────────────────────────────────────
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	// ── Key events ─────────────────────────────────────────────────
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	// ── Spinner ────────────────────────────────────────────────────
	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	// ── Feed lines from the engine relay ───────────────────────────
	case FeedLineMsg:
		m.feed.Append(msg.Entry)
		return m, nil

	// ── Batch completion ───────────────────────────────────────────
	case BatchDoneMsg:
		m.executing = false
		if msg.Err != nil {
			m.feed.Log(feed.LevelError, "", msg.Err.Error())
			return m, nil
		}
		m.applyReport(msg.Report)
		return m, nil

	// ── Single-agent completion ────────────────────────────────────
	case AgentRunDoneMsg:
		m.executing = false
		if msg.Err != nil {
			m.feed.Log(feed.LevelError, msg.Name, msg.Err.Error())
			return m, nil
		}
		m.applyAgentStatus(msg.Name, msg.Status)
		return m, nil

	// ── Agent listing ──────────────────────────────────────────────
	case AgentsListedMsg:
		if msg.Err != nil {
			m.feed.Log(feed.LevelError, "", msg.Err.Error())
			return m, nil
		}
		m.agents = msg.Agents
		if msg.Show {
			m.feed.Log(feed.LevelInfo, "", fmt.Sprintf("Available agents (%d):", len(msg.Agents)))
			for _, a := range msg.Agents {
				line := fmt.Sprintf("  %s (%s)", a.Name, a.Type)
				if a.Description != "" {
					line += ": " + a.Description
				}
				m.feed.Log(feed.LevelInfo, "", line)
			}
		}
		return m, nil

	// ── Agent logs ─────────────────────────────────────────────────
	case AgentLogsMsg:
		if msg.Err != nil {
			m.feed.Log(feed.LevelError, msg.Name, msg.Err.Error())
			return m, nil
		}
		if msg.Logs.Message != "" {
			m.feed.Log(feed.LevelInfo, msg.Name, msg.Logs.Message)
			return m, nil
		}
		m.feed.Log(feed.LevelInfo, "", fmt.Sprintf("%s execution log (%d messages):", msg.Name, len(msg.Logs.Messages)))
		for _, line := range msg.Logs.Messages {
			m.feed.Log(feed.LevelInfo, msg.Name, line)
		}
		if msg.Logs.Error != "" {
			m.feed.Log(feed.LevelError, msg.Name, msg.Logs.Error)
		}
		return m, nil

	// ── Execution history ──────────────────────────────────────────
	case HistoryMsg:
		if msg.Err != nil {
			m.feed.Log(feed.LevelError, "", msg.Err.Error())
			return m, nil
		}
		if len(msg.Entries) == 0 {
			m.feed.Log(feed.LevelInfo, "", "No execution history yet.")
			return m, nil
		}
		m.feed.Log(feed.LevelInfo, "", fmt.Sprintf("Last %d executions:", len(msg.Entries)))
		for _, e := range msg.Entries {
			m.feed.Log(feed.LevelInfo, "", fmt.Sprintf("  %s  %s, %d agents, %d errors, %.2fs",
				e.StartTime.Format("15:04:05"), e.OverallStatus, e.AgentCount, e.ErrorCount, e.DurationSeconds))
		}
		return m, nil

	// ── Refresh scheduler ──────────────────────────────────────────
	case RefreshTickMsg:
		cmds = append(cmds, refreshTick(m.refresh))
		if m.executing {
			m.feed.Log(feed.LevelSystem, "", "Scheduled refresh skipped: execution in progress")
			return m, tea.Batch(cmds...)
		}
		m.feed.Log(feed.LevelSystem, "", "Scheduled refresh: running all agents")
		m.executing = true
		cmds = append(cmds, runAllCmd(m.backend), m.spin.Tick)
		return m, tea.Batch(cmds...)

	// ── Connection poll ────────────────────────────────────────────
	case ConnTickMsg:
		cmds = append(cmds, pingCmd(m.backend), connTick())
		return m, tea.Batch(cmds...)

	case PingMsg:
		up := msg.Err == nil
		if m.connKnown && up != m.connected {
			if up {
				m.feed.Log(feed.LevelSystem, "", "Connection to stratusd restored")
			} else {
				m.feed.Log(feed.LevelSystem, "", "Connection to stratusd lost")
			}
		}
		m.connected = up
		m.connKnown = true
		return m, nil
	}

	return m, nil
}

// ── Key handling ─────────────────────────────────────────────────

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, globalKeys.Quit) {
		return tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, helpKeys.Close) || msg.Type == tea.KeyEnter {
			m.showHelp = false
		}
		return nil
	}

	if m.mode == modeDetail {
		return m.handleDetailKey(msg)
	}

	if m.paletteOpen {
		return m.handlePaletteKey(msg)
	}

	return m.handleDashboardKey(msg)
}

// handleDetailKey covers the detail view: lateral navigation clamped to
// the result bounds, cancel back to the dashboard, everything else
// suppressed.
func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, detailKeys.Back):
		m.mode = modeDashboard
	case key.Matches(msg, detailKeys.Prev):
		if m.detailIdx > 0 {
			m.detailIdx--
		}
	case key.Matches(msg, detailKeys.Next):
		if m.detailIdx < len(m.results)-1 {
			m.detailIdx++
		}
	}
	return nil
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	matches := m.paletteMatches()

	switch {
	case key.Matches(msg, paletteKeys.Cancel):
		m.paletteOpen = false
		return nil
	case key.Matches(msg, paletteKeys.Up):
		if m.paletteSel > 0 {
			m.paletteSel--
		}
		return nil
	case key.Matches(msg, paletteKeys.Down):
		if m.paletteSel < len(matches)-1 {
			m.paletteSel++
		}
		return nil
	}

	if msg.Type == tea.KeyEnter {
		if len(matches) > 0 {
			sel := m.paletteSel
			if sel >= len(matches) {
				sel = len(matches) - 1
			}
			m.input.SetValue(commandPrefix + matches[sel].name + " ")
			m.input.CursorEnd()
			m.paletteOpen = false
			return nil
		}
		m.paletteOpen = false
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncPalette()
	return cmd
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	h := m.feedHeight()

	switch {
	case key.Matches(msg, feedKeys.Up):
		m.feed.ScrollUp(1, h)
		return nil
	case key.Matches(msg, feedKeys.Down):
		m.feed.ScrollDown(1, h)
		return nil
	case key.Matches(msg, feedKeys.PageUp):
		m.feed.ScrollUp(feed.PageMultiple, h)
		return nil
	case key.Matches(msg, feedKeys.PageDown):
		m.feed.ScrollDown(feed.PageMultiple, h)
		return nil
	case key.Matches(msg, feedKeys.Home):
		m.feed.Top()
		return nil
	case key.Matches(msg, feedKeys.End):
		m.feed.Follow()
		return nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.submitInput()
	case tea.KeyEsc:
		m.input.SetValue("")
		m.paletteOpen = false
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncPalette()
	return cmd
}

// syncPalette re-derives the palette from the input buffer after an edit:
// it opens when the buffer is exactly the prefix, closes when the prefix
// is gone, and keeps the selection inside the filtered set.
func (m *Model) syncPalette() {
	v := m.input.Value()
	if !strings.HasPrefix(v, commandPrefix) {
		m.paletteOpen = false
		return
	}
	if v == commandPrefix && !m.paletteOpen {
		m.paletteOpen = true
		m.paletteSel = 0
	}
	if m.paletteOpen {
		if n := len(m.paletteMatches()); m.paletteSel >= n {
			m.paletteSel = n - 1
			if m.paletteSel < 0 {
				m.paletteSel = 0
			}
		}
	}
}

// paletteMatches returns the registry entries matching the buffer's query.
func (m *Model) paletteMatches() []command {
	return filterCommands(strings.TrimPrefix(m.input.Value(), commandPrefix))
}

// submitInput parses and dispatches the input buffer. The buffer is
// cleared on every submission; non-command text is ignored and an unknown
// command becomes one error line.
func (m *Model) submitInput() tea.Cmd {
	raw := m.input.Value()
	m.input.SetValue("")
	m.paletteOpen = false

	name, args, ok := parseCommand(raw)
	if !ok {
		return nil
	}
	c, found := lookupCommand(name)
	if !found {
		m.feed.Log(feed.LevelError, "", fmt.Sprintf("Unknown command: %s%s", commandPrefix, name))
		return nil
	}
	return c.run(m, args)
}

// ── Commands ─────────────────────────────────────────────────────

func (m *Model) cmdStartAgents(args []string) tea.Cmd {
	return m.startBatch()
}

func (m *Model) cmdRunAgent(args []string) tea.Cmd {
	if len(args) == 0 {
		m.feed.Log(feed.LevelWarn, "", "Usage: /run-agent <name> or /run-agent --auto")
		return nil
	}
	if args[0] == "--auto" {
		return m.startBatch()
	}
	if m.executing {
		m.feed.Log(feed.LevelWarn, "", "Execution already in progress")
		return nil
	}
	name := args[0]
	m.executing = true
	m.feed.Log(feed.LevelInfo, name, fmt.Sprintf("Running %s...", name))
	return tea.Batch(runAgentCmd(m.backend, name), m.spin.Tick)
}

func (m *Model) cmdListAgents(args []string) tea.Cmd {
	return loadAgentsCmd(m.backend, true)
}

func (m *Model) cmdDetail(args []string) tea.Cmd {
	if len(m.results) == 0 {
		m.feed.Log(feed.LevelWarn, "", "No agent results to browse. Run /start-agents first.")
		return nil
	}
	m.mode = modeDetail
	m.detailIdx = 0
	return nil
}

func (m *Model) cmdLogs(args []string) tea.Cmd {
	if len(args) == 0 {
		m.feed.Log(feed.LevelWarn, "", "Usage: /logs <agent>")
		return nil
	}
	return agentLogsCmd(m.backend, args[0])
}

func (m *Model) cmdHistory(args []string) tea.Cmd {
	return historyCmd(m.backend, 10)
}

func (m *Model) cmdHelp(args []string) tea.Cmd {
	m.showHelp = true
	return nil
}

func (m *Model) cmdExit(args []string) tea.Cmd {
	return tea.Quit
}

// startBatch kicks off a run-all unless one is already outstanding.
func (m *Model) startBatch() tea.Cmd {
	if m.executing {
		m.feed.Log(feed.LevelWarn, "", "Execution already in progress")
		return nil
	}
	m.executing = true
	m.feed.Log(feed.LevelInfo, "", "Running all agents...")
	return tea.Batch(runAllCmd(m.backend), m.spin.Tick)
}

// ── Result application ───────────────────────────────────────────

// applyReport replaces the result set with a settled batch and rebuilds
// the dashboard rows from scratch.
func (m *Model) applyReport(report *models.Report) {
	if report == nil {
		return
	}
	m.results = report.AgentSummaries
	m.rows = status.Aggregate(m.results)
	m.lastRun = time.Now()
	m.overall = report.OverallStatus

	if m.detailIdx >= len(m.results) {
		m.detailIdx = len(m.results) - 1
		if m.detailIdx < 0 {
			m.detailIdx = 0
		}
	}
	if len(m.results) == 0 && m.mode == modeDetail {
		m.mode = modeDashboard
	}

	if !m.streams {
		for _, r := range m.results {
			m.logResult(r)
		}
	}
	level := feed.LevelSuccess
	if report.OverallStatus != models.OverallSuccess {
		level = feed.LevelWarn
	}
	m.feed.Log(level, "", fmt.Sprintf("Batch %s finished: %s (%.2fs)",
		shortID(report.ExecutionID), report.OverallStatus, report.TotalDuration))
}

// applyAgentStatus supersedes one agent's result after a single run and
// rebuilds the rows.
func (m *Model) applyAgentStatus(name string, st models.AgentStatus) {
	res := models.AgentResult{
		AgentName:     name,
		Status:        string(st.State),
		Metrics:       st.Metrics,
		Messages:      st.Messages,
		ExecutionTime: st.DurationSeconds(),
		Error:         st.ErrorMessage,
	}

	replaced := false
	for i := range m.results {
		if m.results[i].AgentName == name {
			m.results[i] = res
			replaced = true
			break
		}
	}
	if !replaced {
		m.results = append(m.results, res)
	}
	m.rows = status.Aggregate(m.results)

	if !m.streams {
		m.logResult(res)
	}
}

// logResult appends one terminal feed line for a settled result, mirroring
// what the engine emits when agents run in-process.
func (m *Model) logResult(r models.AgentResult) {
	switch r.Status {
	case string(models.StateCompleted):
		m.feed.Log(feed.LevelSuccess, r.AgentName,
			fmt.Sprintf("%s completed in %.2fs", r.AgentName, r.ExecutionTime))
	case string(models.StateWarning):
		note := r.Error
		if note == "" {
			note = r.Summary
		}
		if note == "" {
			note = "warning"
		}
		m.feed.Log(feed.LevelWarn, r.AgentName, fmt.Sprintf("%s: %s", r.AgentName, note))
	case string(models.StateError):
		m.feed.Log(feed.LevelError, r.AgentName,
			fmt.Sprintf("%s failed: %s", r.AgentName, r.Error))
	default:
		m.feed.Log(feed.LevelInfo, r.AgentName, fmt.Sprintf("%s: %s", r.AgentName, r.Status))
	}
}

// shortID abbreviates a UUID for feed lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ── Layout helpers ───────────────────────────────────────────────

// tableLines is the agent table's height including its column header.
func (m Model) tableLines() int {
	n := len(m.rows)
	if n == 0 {
		n = len(m.agents)
	}
	if n == 0 {
		n = 1
	}
	return n + 1
}

// feedHeight is the number of feed lines visible inside the frame:
// everything left after the header, table, frame border, input line, and
// status bar.
func (m Model) feedHeight() int {
	h := m.height - 1 - m.tableLines() - 2 - 1 - 1
	if h < 3 {
		h = 3
	}
	return h
}

// ── View ─────────────────────────────────────────────────────────

// View renders the dashboard or the detail view.
func (m Model) View() string {
	if m.width < 80 || m.height < 24 {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					"Need 80x24, have "+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	if m.mode == modeDetail {
		return m.viewDetail()
	}
	return m.viewDashboard()
}
