package models

import (
	"encoding/json"
	"time"
)

// Overall batch statuses.
const (
	OverallPending             = "pending"
	OverallSuccess             = "success"
	OverallCompletedWithErrors = "completed_with_errors"
	OverallFailed              = "failed"
)

// AgentResult is the settled outcome of one agent execution. A new run for
// the same agent supersedes the previous result wholesale; results are
// never merged.
type AgentResult struct {
	AgentName     string
	Status        string
	Summary       string
	Metrics       Metrics
	Messages      []string
	ExecutionTime float64
	Error         string
}

// agentResultWire is the JSON shape of AgentResult. key_metrics carries the
// encoded variant plus the duplicated "status" key the wire format has
// always had.
type agentResultWire struct {
	AgentName     string         `json:"agent_name"`
	Status        string         `json:"status"`
	Summary       string         `json:"summary"`
	KeyMetrics    map[string]any `json:"key_metrics,omitempty"`
	Messages      []string       `json:"messages,omitempty"`
	ExecutionTime float64        `json:"execution_time,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r AgentResult) MarshalJSON() ([]byte, error) {
	w := agentResultWire{
		AgentName:     r.AgentName,
		Status:        r.Status,
		Summary:       r.Summary,
		Messages:      r.Messages,
		ExecutionTime: r.ExecutionTime,
		Error:         r.Error,
	}
	if km := EncodeMetrics(r.Metrics); km != nil {
		km["status"] = r.Status
		w.KeyMetrics = km
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *AgentResult) UnmarshalJSON(data []byte) error {
	var w agentResultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = AgentResult{
		AgentName:     w.AgentName,
		Status:        w.Status,
		Summary:       w.Summary,
		Metrics:       DecodeMetrics(w.KeyMetrics),
		Messages:      w.Messages,
		ExecutionTime: w.ExecutionTime,
		Error:         w.Error,
	}
	return nil
}

// Report is the aggregated outcome of one batch execution.
type Report struct {
	ExecutionID    string        `json:"execution_id"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        *time.Time    `json:"end_time,omitempty"`
	TotalDuration  float64       `json:"total_duration,omitempty"`
	AgentSummaries []AgentResult `json:"agent_summaries"`
	OverallStatus  string        `json:"overall_status"`
	Errors         []string      `json:"errors,omitempty"`
}

// NewReport starts a pending report for the given execution ID.
func NewReport(executionID string) *Report {
	return &Report{
		ExecutionID:   executionID,
		StartTime:     time.Now(),
		OverallStatus: OverallPending,
	}
}

// Finish stamps the end time and total duration.
func (r *Report) Finish() {
	now := time.Now()
	r.EndTime = &now
	r.TotalDuration = now.Sub(r.StartTime).Seconds()
}

// HistoryEntry is the condensed view of a past execution served by the
// history endpoint.
type HistoryEntry struct {
	ExecutionID     string                    `json:"execution_id"`
	StartTime       time.Time                 `json:"start_time"`
	EndTime         *time.Time                `json:"end_time,omitempty"`
	DurationSeconds float64                   `json:"duration_seconds"`
	OverallStatus   string                    `json:"overall_status"`
	AgentCount      int                       `json:"agent_count"`
	ErrorCount      int                       `json:"error_count"`
	Summary         map[string]HistorySummary `json:"summary"`
}

// HistorySummary is one agent's line inside a HistoryEntry.
type HistorySummary struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// Condense reduces a full report to its history form.
func (r *Report) Condense() HistoryEntry {
	e := HistoryEntry{
		ExecutionID:     r.ExecutionID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationSeconds: r.TotalDuration,
		OverallStatus:   r.OverallStatus,
		AgentCount:      len(r.AgentSummaries),
		ErrorCount:      len(r.Errors),
		Summary:         make(map[string]HistorySummary, len(r.AgentSummaries)),
	}
	for _, a := range r.AgentSummaries {
		e.Summary[a.AgentName] = HistorySummary{Status: a.Status, Summary: a.Summary}
	}
	return e
}
