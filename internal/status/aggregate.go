// Package status derives display-ready dashboard rows from raw agent
// results. Aggregation is a pure function over the settled result set;
// rows are recomputed from scratch every time, never patched.
package status

import (
	"fmt"

	"github.com/stratus-io/stratus/internal/models"
)

// Dashboard status labels, worst to best.
const (
	CriticalOutage = "Critical Outage"
	MajorOutage    = "Major Outage"
	Degraded       = "Degraded"
	Issues         = "Issues Detected"
	Operational    = "Operational"
	Unknown        = "Unknown"
)

// Row is the derived summary of one agent's latest result.
type Row struct {
	Name      string
	Status    string
	Summary   string
	Executing bool
}

// Aggregate maps a batch of results to dashboard rows, one per result, in
// input order.
func Aggregate(results []models.AgentResult) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row{
			Name:      r.AgentName,
			Status:    Derive(r),
			Summary:   Summarize(r),
			Executing: r.Status == string(models.StateThinking),
		})
	}
	return rows
}

// Derive computes the status label for one result. Precedence, first
// match wins: explicit severity indicator, then incident counts on a
// completed run, then Unknown.
func Derive(r models.AgentResult) string {
	switch indicator(r.Metrics) {
	case "none":
		return Operational
	case "minor":
		return Degraded
	case "major":
		return MajorOutage
	case "critical":
		return CriticalOutage
	}
	if r.Status == string(models.StateCompleted) && r.Metrics != nil {
		if currentCount(r.Metrics) > 0 {
			return Issues
		}
		return Operational
	}
	return Unknown
}

// Summarize computes the one-line row summary for one result.
func Summarize(r models.AgentResult) string {
	if r.Metrics == nil {
		if r.Summary != "" {
			return r.Summary
		}
		return "No summary available"
	}
	if n := currentCount(r.Metrics); n > 0 {
		return fmt.Sprintf("%d active %s", n, plural(n, "incident"))
	}
	if n := recentCount(r.Metrics); n > 0 {
		return fmt.Sprintf("%d %s over last 7 days", n, plural(n, "incident"))
	}
	return "No incidents over last 7 days"
}

// severity ranks labels worst to best for overall aggregation.
var severity = map[string]int{
	CriticalOutage: 0,
	MajorOutage:    1,
	Degraded:       2,
	Issues:         3,
	Unknown:        4,
	Operational:    5,
}

// Worst returns the most severe label among the rows, or Unknown when
// there are none.
func Worst(rows []Row) string {
	worst := ""
	rank := len(severity)
	for _, r := range rows {
		s, ok := severity[r.Status]
		if !ok {
			s = severity[Unknown]
		}
		if worst == "" || s < rank {
			worst = r.Status
			rank = s
		}
	}
	if worst == "" {
		return Unknown
	}
	return worst
}

// indicator returns the severity indicator, or "" when the metrics carry
// none.
func indicator(m models.Metrics) string {
	if sp, ok := m.(models.StatusPageMetrics); ok {
		return sp.Indicator
	}
	return ""
}

// currentCount returns the in-progress incident count under whichever key
// family the provider uses.
func currentCount(m models.Metrics) int {
	switch v := m.(type) {
	case models.StatusPageMetrics:
		return v.UnresolvedIncidents
	case models.EventFeedMetrics:
		return v.CurrentEvents
	case models.IncidentFeedMetrics:
		return v.CurrentIncidents
	default:
		return 0
	}
}

// recentCount returns the trailing-week incident count.
func recentCount(m models.Metrics) int {
	switch v := m.(type) {
	case models.StatusPageMetrics:
		return v.RecentIncidents7d
	case models.EventFeedMetrics:
		return v.RecentEvents7d
	case models.IncidentFeedMetrics:
		return v.RecentIncidents7d
	default:
		return 0
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
