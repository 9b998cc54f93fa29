package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stratus-io/stratus/internal/models"
)

func newTestDaemon(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestRetrieveStatusDecodesReport(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/retrieve-status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{
			"execution_id": "exec-1",
			"start_time": "2026-08-25T10:00:00Z",
			"end_time": "2026-08-25T10:00:04Z",
			"total_duration": 4.2,
			"agent_summaries": [{
				"agent_name": "CloudflareAgent",
				"status": "completed",
				"summary": "All Systems Operational",
				"key_metrics": {"status": "completed", "indicator": "none", "unresolved_incidents": 0, "recent_incidents_7d": 2, "scheduled_maintenance": 1, "in_progress_maintenance": 0},
				"execution_time": 1.3
			}],
			"overall_status": "success"
		}`))
	}))

	report, err := c.RetrieveStatus(context.Background())
	if err != nil {
		t.Fatalf("RetrieveStatus() error = %v", err)
	}
	if report.ExecutionID != "exec-1" || report.OverallStatus != models.OverallSuccess {
		t.Errorf("report = %+v, want exec-1/success", report)
	}
	if len(report.AgentSummaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(report.AgentSummaries))
	}
	res := report.AgentSummaries[0]
	m, ok := res.Metrics.(models.StatusPageMetrics)
	if !ok {
		t.Fatalf("metrics decoded as %T, want StatusPageMetrics", res.Metrics)
	}
	if m.Indicator != "none" || m.RecentIncidents7d != 2 || m.ScheduledMaintenance != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestBusyConflictSurfacesDetail(t *testing.T) {
	const detail = "Orchestrator is already running. Please wait for current execution to complete."
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "` + detail + `"}`))
	}))

	_, err := c.RetrieveStatus(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsBusy(err) {
		t.Errorf("IsBusy(%v) = false, want true", err)
	}
	if IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = true, want false", err)
	}
	if err.Error() != detail {
		t.Errorf("err = %q, want the server detail string", err)
	}
}

func TestAgentStatusesPlaceholder(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "No agent statuses available. Run /retrieve-status first.", "agents": ["AWSAgent", "GCPAgent"]}`))
	}))

	statuses, names, err := c.AgentStatuses(context.Background())
	if err != nil {
		t.Fatalf("AgentStatuses() error = %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("statuses = %v, want empty map", statuses)
	}
	if len(names) != 2 || names[0] != "AWSAgent" || names[1] != "GCPAgent" {
		t.Errorf("names = %v, want the advertised agents", names)
	}
}

func TestAgentStatusesDecodesMap(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"GCPAgent": {
				"agent_name": "GCPAgent",
				"state": "completed",
				"messages": ["[10:00:01] Starting GCPAgent..."],
				"raw_output": {"current_incidents": 0, "recent_incidents_7d": 1, "total_incidents": 40}
			}
		}`))
	}))

	statuses, names, err := c.AgentStatuses(context.Background())
	if err != nil {
		t.Fatalf("AgentStatuses() error = %v", err)
	}
	if names != nil {
		t.Errorf("names = %v, want nil outside the placeholder case", names)
	}
	st, ok := statuses["GCPAgent"]
	if !ok || st.State != models.StateCompleted {
		t.Fatalf("statuses = %v, want completed GCPAgent", statuses)
	}
	if m, ok := st.Metrics.(models.IncidentFeedMetrics); !ok || m.TotalIncidents != 40 {
		t.Errorf("metrics = %#v, want incident-feed with 40 total", st.Metrics)
	}
}

func TestExecuteAgentNotFound(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agents/GhostAgent/execute" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Agent 'GhostAgent' not found. Available agents: [AWSAgent]"}`))
	}))

	_, err := c.ExecuteAgent(context.Background(), "GhostAgent")
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false, want true", err)
	}
	if !strings.Contains(err.Error(), "GhostAgent") {
		t.Errorf("err = %q, want agent name in detail", err)
	}
}

func TestHistorySendsLimit(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/execution-history" || r.URL.RawQuery != "limit=5" {
			t.Errorf("request = %s?%s, want limit=5", r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte(`[
			{"execution_id": "a", "start_time": "2026-08-25T10:00:00Z", "overall_status": "success", "agent_count": 7, "error_count": 0, "duration_seconds": 3.1, "summary": {}},
			{"execution_id": "b", "start_time": "2026-08-25T10:05:00Z", "overall_status": "completed_with_errors", "agent_count": 7, "error_count": 1, "duration_seconds": 2.9, "summary": {}}
		]`))
	}))

	entries, err := c.History(context.Background(), 5)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 2 || entries[1].ErrorCount != 1 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestAgentLogsDecodesDisplay(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"agent_name": "AzureAgent",
			"state": "warning",
			"execution": {"start_time": "2026-08-25T10:00:00Z", "end_time": "2026-08-25T10:00:30Z", "duration_seconds": 30},
			"messages": ["[10:00:30] AzureAgent timed out after 30s"],
			"message_count": 1,
			"error": "Task execution timed out",
			"dashboard_display": {"color": "yellow", "icon": "⚠", "last_message": "[10:00:30] AzureAgent timed out after 30s"}
		}`))
	}))

	logs, err := c.AgentLogs(context.Background(), "AzureAgent")
	if err != nil {
		t.Fatalf("AgentLogs() error = %v", err)
	}
	if logs.State != models.StateWarning || logs.Error != "Task execution timed out" {
		t.Errorf("logs = %+v", logs)
	}
	if logs.Display == nil || logs.Display.Color != "yellow" || logs.Display.Icon != "⚠" {
		t.Errorf("display = %+v, want yellow ⚠", logs.Display)
	}
	if logs.Execution == nil || logs.Execution.DurationSeconds != 30 {
		t.Errorf("execution = %+v", logs.Execution)
	}
}

func TestListAgents(t *testing.T) {
	c := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"agents": [{"name": "AWSAgent", "type": "eventfeed", "status": "idle", "description": "AWS public service health events"}], "total": 1}`))
	}))

	list, err := c.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("ListAgents() error = %v", err)
	}
	if list.Total != 1 || list.Agents[0].Type != "eventfeed" || list.Agents[0].Status != models.StateIdle {
		t.Errorf("list = %+v", list)
	}
}

func TestConnectionErrorMentionsAddress(t *testing.T) {
	// A port from the reserved block nothing listens on.
	c := New("http://127.0.0.1:1")
	err := c.Health(context.Background())
	if err == nil {
		t.Skip("something answered on port 1")
	}
	if !strings.Contains(err.Error(), "cannot connect to stratusd at http://127.0.0.1:1") {
		t.Errorf("err = %q, want connection hint with address", err)
	}
	if IsBusy(err) || IsNotFound(err) {
		t.Error("connection errors must not look like API errors")
	}
}
