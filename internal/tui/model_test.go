package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/status"
)

type fakeBackend struct {
	target  string
	report  *models.Report
	runErr  error
	status  models.AgentStatus
	agents  []models.AgentInfo
	logs    models.AgentLogs
	history []models.HistoryEntry
	pingErr error

	runAllCalls int
	runAgentArg string
}

func (f *fakeBackend) Target() string {
	if f.target == "" {
		return "local"
	}
	return f.target
}

func (f *fakeBackend) RunAll(ctx context.Context) (*models.Report, error) {
	f.runAllCalls++
	return f.report, f.runErr
}

func (f *fakeBackend) RunAgent(ctx context.Context, name string) (models.AgentStatus, error) {
	f.runAgentArg = name
	return f.status, f.runErr
}

func (f *fakeBackend) Agents(ctx context.Context) ([]models.AgentInfo, error) {
	return f.agents, nil
}

func (f *fakeBackend) AgentLogs(ctx context.Context, name string) (models.AgentLogs, error) {
	return f.logs, nil
}

func (f *fakeBackend) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeBackend) Ping(ctx context.Context) error { return f.pingErr }

func testReport() *models.Report {
	return &models.Report{
		ExecutionID: "0c89a2be-5a8b-4eb6-9735-3a4a3d7a8d11",
		StartTime:   time.Now(),
		AgentSummaries: []models.AgentResult{
			{AgentName: "AWSAgent", Status: "completed", Metrics: models.StatusPageMetrics{Indicator: "none"}, ExecutionTime: 1.2},
			{AgentName: "GCPAgent", Status: "completed", Metrics: models.IncidentFeedMetrics{CurrentIncidents: 2}, ExecutionTime: 0.8},
			{AgentName: "BrokenAgent", Status: "error", Error: "connect: connection refused", ExecutionTime: 0.1},
		},
		OverallStatus: models.OverallCompletedWithErrors,
		TotalDuration: 2.1,
	}
}

func newTestModel(t *testing.T, b Backend) Model {
	t.Helper()
	m := NewModel(b, Options{Refresh: time.Minute})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	mm, cmd := m.Update(msg)
	return mm.(Model), cmd
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		m, _ = update(m, msg)
	}
	return m
}

func entries(m Model) []feed.Entry {
	return m.feed.Window(m.feed.Len())
}

func lastEntry(t *testing.T, m Model) feed.Entry {
	t.Helper()
	all := entries(m)
	if len(all) == 0 {
		t.Fatal("feed is empty")
	}
	return all[len(all)-1]
}

func TestPaletteOpensOnlyOnBareSlash(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m = typeString(m, "/")
	if !m.paletteOpen {
		t.Fatal("palette did not open on /")
	}
	if got := len(m.paletteMatches()); got != len(commands) {
		t.Errorf("bare slash shows %d commands, want %d", got, len(commands))
	}

	m = typeString(m, "ru")
	if !m.paletteOpen {
		t.Error("palette closed while narrowing the query")
	}
	if got := len(m.paletteMatches()); got != 2 {
		t.Errorf("query \"ru\" shows %d commands, want 2", got)
	}

	m2 := newTestModel(t, &fakeBackend{})
	m2 = typeString(m2, "x/")
	if m2.paletteOpen {
		t.Error("palette opened for a slash that is not the whole buffer")
	}
}

func TestPaletteCommitInsertsCommand(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeString(m, "/det")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.paletteOpen {
		t.Error("palette still open after commit")
	}
	if got := m.input.Value(); got != "/detail " {
		t.Errorf("buffer after commit = %q, want %q", got, "/detail ")
	}
}

func TestPaletteSelectionMovesAndClamps(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeString(m, "/")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.paletteSel != 0 {
		t.Errorf("selection above the first row: %d", m.paletteSel)
	}
	for i := 0; i < len(commands)+3; i++ {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.paletteSel != len(commands)-1 {
		t.Errorf("selection = %d, want clamp at %d", m.paletteSel, len(commands)-1)
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeString(m, "/")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.paletteOpen {
		t.Fatal("esc did not close the palette")
	}
	if got := m.input.Value(); got != "/" {
		t.Errorf("esc cleared the buffer: %q", got)
	}

	m = typeString(m, "x")
	if m.paletteOpen {
		t.Error("palette reopened while extending a closed query")
	}
}

func TestUnknownCommandWarns(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeString(m, "/frobnicate")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	e := lastEntry(t, m)
	if e.Level != feed.LevelError || e.Message != "Unknown command: /frobnicate" {
		t.Errorf("unknown command entry = {%v %q}", e.Level, e.Message)
	}
	if m.input.Value() != "" {
		t.Errorf("buffer not cleared after submission: %q", m.input.Value())
	}
}

func TestPlainTextIsIgnored(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	before := m.feed.Len()
	m = typeString(m, "hello there")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("plain text submission produced a command")
	}
	if m.feed.Len() != before {
		t.Errorf("plain text submission logged %d entries", m.feed.Len()-before)
	}
	if m.input.Value() != "" {
		t.Errorf("buffer not cleared: %q", m.input.Value())
	}
}

func TestRunAgentAutoFallsThroughPalette(t *testing.T) {
	fb := &fakeBackend{report: testReport()}
	m := newTestModel(t, fb)

	m = typeString(m, "/run-agent --auto")
	if !m.paletteOpen {
		t.Fatal("palette should stay open while the buffer keeps its prefix")
	}
	if got := len(m.paletteMatches()); got != 0 {
		t.Fatalf("query with arguments still matches %d commands", got)
	}

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submission produced no command")
	}
	if !m.executing {
		t.Fatal("--auto did not start a batch")
	}
	if e := lastEntry(t, m); e.Message != "Running all agents..." {
		t.Errorf("start entry = %q", e.Message)
	}

	m, _ = update(m, runAllCmd(fb)().(BatchDoneMsg))
	if m.executing {
		t.Error("still executing after batch completion")
	}
	if fb.runAllCalls != 1 {
		t.Errorf("RunAll called %d times, want 1", fb.runAllCalls)
	}
	if len(m.rows) != 3 {
		t.Errorf("dashboard has %d rows, want 3", len(m.rows))
	}
}

func TestBatchDoneAppliesReport(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m, _ = update(m, BatchDoneMsg{Report: testReport()})
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
	if m.rows[0].Status != status.Operational {
		t.Errorf("rows[0].Status = %q, want %q", m.rows[0].Status, status.Operational)
	}
	if m.rows[1].Status != status.Issues {
		t.Errorf("rows[1].Status = %q, want %q", m.rows[1].Status, status.Issues)
	}
	if m.lastRun.IsZero() {
		t.Error("lastRun not stamped")
	}

	var sawFailure, sawBatch bool
	for _, e := range entries(m) {
		if e.Level == feed.LevelError && e.Source == "BrokenAgent" {
			sawFailure = true
		}
		if strings.HasPrefix(e.Message, "Batch 0c89a2be finished: completed_with_errors") {
			sawBatch = true
			if e.Level != feed.LevelWarn {
				t.Errorf("batch entry level = %v, want warn for a partial batch", e.Level)
			}
		}
	}
	if !sawFailure {
		t.Error("no error entry attributed to the failing agent")
	}
	if !sawBatch {
		t.Error("no batch completion entry")
	}
}

func TestBatchLinesSuppressedWhenStreaming(t *testing.T) {
	m := NewModel(&fakeBackend{}, Options{Refresh: time.Minute, Relay: NewRelay()})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = mm.(Model)

	before := m.feed.Len()
	m, _ = update(m, BatchDoneMsg{Report: testReport()})
	if got := m.feed.Len() - before; got != 1 {
		t.Errorf("streaming batch appended %d entries, want only the completion line", got)
	}
}

func TestBatchErrorSurfaces(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.executing = true

	m, _ = update(m, BatchDoneMsg{Err: errors.New("execution already in progress")})
	if m.executing {
		t.Error("executing still set after a failed batch")
	}
	if e := lastEntry(t, m); e.Level != feed.LevelError || e.Message != "execution already in progress" {
		t.Errorf("error entry = {%v %q}", e.Level, e.Message)
	}
}

func TestBusyRejectsNewExecution(t *testing.T) {
	m := newTestModel(t, &fakeBackend{report: testReport()})
	m.input.SetValue("/start-agents")
	if cmd := m.submitInput(); cmd == nil {
		t.Fatal("first start produced no command")
	}

	m.input.SetValue("/run-agent AWSAgent")
	if cmd := m.submitInput(); cmd != nil {
		t.Error("second execution was not rejected")
	}
	if e := lastEntry(t, m); e.Level != feed.LevelWarn || e.Message != "Execution already in progress" {
		t.Errorf("rejection entry = {%v %q}", e.Level, e.Message)
	}

	// Navigation stays responsive while a batch runs.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.feed.Following() {
		t.Error("feed scroll is dead while executing")
	}
}

func TestScheduledRefresh(t *testing.T) {
	m := newTestModel(t, &fakeBackend{report: testReport()})

	m, cmd := update(m, RefreshTickMsg{})
	if cmd == nil {
		t.Fatal("tick did not re-arm")
	}
	if !m.executing {
		t.Error("idle tick did not start a batch")
	}
	if e := lastEntry(t, m); e.Level != feed.LevelSystem || e.Message != "Scheduled refresh: running all agents" {
		t.Errorf("refresh entry = {%v %q}", e.Level, e.Message)
	}

	before := m.feed.Len()
	m, cmd = update(m, RefreshTickMsg{})
	if cmd == nil {
		t.Error("busy tick did not re-arm")
	}
	if got := m.feed.Len() - before; got != 1 {
		t.Fatalf("busy tick appended %d entries, want exactly 1", got)
	}
	if e := lastEntry(t, m); e.Level != feed.LevelSystem || e.Message != "Scheduled refresh skipped: execution in progress" {
		t.Errorf("skip entry = {%v %q}", e.Level, e.Message)
	}
	if !m.executing {
		t.Error("skip cleared the executing flag")
	}
}

func TestDetailRequiresResults(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.input.SetValue("/detail")
	if cmd := m.submitInput(); cmd != nil {
		t.Error("detail with no results produced a command")
	}
	if m.mode != modeDashboard {
		t.Error("mode changed despite empty results")
	}
	if e := lastEntry(t, m); e.Level != feed.LevelWarn {
		t.Errorf("entry level = %v, want warn", e.Level)
	}
}

func TestDetailNavigationClamps(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = update(m, BatchDoneMsg{Report: testReport()})

	m.input.SetValue("/detail")
	m.submitInput()
	if m.mode != modeDetail || m.detailIdx != 0 {
		t.Fatalf("after /detail: mode=%d idx=%d", m.mode, m.detailIdx)
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.detailIdx != 0 {
		t.Errorf("left from first result moved to %d", m.detailIdx)
	}
	for i := 0; i < 5; i++ {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.detailIdx != 2 {
		t.Errorf("right clamp = %d, want 2", m.detailIdx)
	}

	// Submission is suppressed in detail mode; only nav and cancel act.
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.mode != modeDetail {
		t.Error("enter acted inside detail mode")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeDashboard {
		t.Error("esc did not leave detail mode")
	}

	m.input.SetValue("/detail")
	m.submitInput()
	if m.detailIdx != 0 {
		t.Errorf("re-entering detail kept index %d, want reset to 0", m.detailIdx)
	}
}

func TestAgentRunSupersedesResult(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = update(m, BatchDoneMsg{Report: testReport()})

	m, _ = update(m, AgentRunDoneMsg{
		Name: "GCPAgent",
		Status: models.AgentStatus{
			AgentName: "GCPAgent",
			State:     models.StateCompleted,
			Metrics:   models.IncidentFeedMetrics{},
		},
	})
	if len(m.results) != 3 {
		t.Fatalf("results = %d, want 3 after supersede", len(m.results))
	}
	if m.rows[1].Name != "GCPAgent" || m.rows[1].Status != status.Operational {
		t.Errorf("superseded row = {%s %s}, want GCPAgent Operational", m.rows[1].Name, m.rows[1].Status)
	}
}

func TestRunAgentCommandRecordsName(t *testing.T) {
	fb := &fakeBackend{status: models.AgentStatus{AgentName: "AWSAgent", State: models.StateCompleted}}
	msg := runAgentCmd(fb, "AWSAgent")()
	done, ok := msg.(AgentRunDoneMsg)
	if !ok {
		t.Fatalf("message type %T", msg)
	}
	if fb.runAgentArg != "AWSAgent" || done.Name != "AWSAgent" {
		t.Errorf("run-agent plumbing: arg=%q msg=%q", fb.runAgentArg, done.Name)
	}
}

func TestFeedScrollKeys(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	for i := 0; i < 40; i++ {
		m.feed.Log(feed.LevelInfo, "", "line")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.feed.Following() {
		t.Fatal("scroll up did not leave follow mode")
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnd})
	if !m.feed.Following() {
		t.Error("end did not resume follow mode")
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyHome})
	if m.feed.Following() {
		t.Error("home left follow mode set")
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.input.SetValue("/help")
	m.submitInput()
	if !m.showHelp {
		t.Fatal("/help did not open the overlay")
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("esc did not close the overlay")
	}
}

func TestConnectionTransitionsLogged(t *testing.T) {
	m := newTestModel(t, &fakeBackend{target: "http://127.0.0.1:8085"})

	before := m.feed.Len()
	m, _ = update(m, PingMsg{})
	if m.feed.Len() != before {
		t.Error("first successful ping logged a transition")
	}
	if !m.connected || !m.connKnown {
		t.Error("ping did not settle the connection state")
	}

	m, _ = update(m, PingMsg{Err: errors.New("connection refused")})
	if e := lastEntry(t, m); e.Message != "Connection to stratusd lost" {
		t.Errorf("loss entry = %q", e.Message)
	}
	m, _ = update(m, PingMsg{})
	if e := lastEntry(t, m); e.Message != "Connection to stratusd restored" {
		t.Errorf("restore entry = %q", e.Message)
	}
}

func TestExitCommandQuits(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.input.SetValue("/exit")
	cmd := m.submitInput()
	if cmd == nil {
		t.Fatal("/exit produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("/exit command yields %T, want tea.QuitMsg", cmd())
	}
}

func TestViewSmoke(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m, _ = update(m, BatchDoneMsg{Report: testReport()})

	view := m.View()
	if !strings.Contains(view, "stratus") || !strings.Contains(view, "AWSAgent") {
		t.Error("dashboard view missing expected content")
	}

	m.input.SetValue("/detail")
	m.submitInput()
	detail := m.View()
	if !strings.Contains(detail, "AWSAgent") || !strings.Contains(detail, "agent 1 of 3") {
		t.Error("detail view missing expected content")
	}

	small, _ := update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(small.View(), "Terminal too small") {
		t.Error("undersized view missing resize notice")
	}
}
