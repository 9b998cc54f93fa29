package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// statusPageProbe polls a Statuspage.io compatible API: current indicator,
// unresolved and recent incidents, scheduled maintenance windows.
type statusPageProbe struct {
	name     string
	endpoint string
	client   *http.Client
}

type pageStatus struct {
	Status struct {
		Indicator   string `json:"indicator"`
		Description string `json:"description"`
	} `json:"status"`
}

type incidentList struct {
	Incidents []struct {
		Name      string    `json:"name"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"incidents"`
}

type maintenanceList struct {
	ScheduledMaintenances []struct {
		Name           string    `json:"name"`
		ScheduledFor   time.Time `json:"scheduled_for"`
		ScheduledUntil time.Time `json:"scheduled_until"`
	} `json:"scheduled_maintenances"`
}

func (p *statusPageProbe) Run(ctx context.Context, sink LogSink) (models.Metrics, string, error) {
	sink.Log(feed.LevelInfo, p.name, "Checking status page")

	var page pageStatus
	if err := p.get(ctx, "/api/v2/status.json", &page); err != nil {
		return nil, "", fmt.Errorf("fetch status: %w", err)
	}
	m := models.StatusPageMetrics{Indicator: page.Status.Indicator}

	if m.Indicator != "none" {
		sink.Log(feed.LevelWarn, p.name, "System not operational, fetching unresolved incidents")
		var unresolved incidentList
		if err := p.get(ctx, "/api/v2/incidents/unresolved.json", &unresolved); err != nil {
			return nil, "", fmt.Errorf("fetch unresolved incidents: %w", err)
		}
		m.UnresolvedIncidents = len(unresolved.Incidents)
		sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d unresolved incident(s)", m.UnresolvedIncidents))
	}

	var all incidentList
	if err := p.get(ctx, "/api/v2/incidents.json", &all); err != nil {
		return nil, "", fmt.Errorf("fetch incidents: %w", err)
	}
	cutoff := time.Now().AddDate(0, 0, -7)
	for _, inc := range all.Incidents {
		if inc.CreatedAt.After(cutoff) {
			m.RecentIncidents7d++
		}
	}
	sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d incident(s) in the last 7 days", m.RecentIncidents7d))

	var maint maintenanceList
	if err := p.get(ctx, "/api/v2/scheduled-maintenances.json", &maint); err != nil {
		return nil, "", fmt.Errorf("fetch scheduled maintenance: %w", err)
	}
	now := time.Now()
	for _, w := range maint.ScheduledMaintenances {
		if w.ScheduledUntil.Before(now) {
			continue
		}
		m.ScheduledMaintenance++
		if !w.ScheduledFor.After(now) {
			m.InProgressMaintenance++
		}
	}
	if m.ScheduledMaintenance > 0 {
		sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d upcoming scheduled maintenance window(s)", m.ScheduledMaintenance))
	}

	return m, statusPageSummary(page.Status.Description, m), nil
}

func (p *statusPageProbe) get(ctx context.Context, path string, v any) error {
	return getJSON(ctx, p.client, strings.TrimSuffix(p.endpoint, "/")+path, v)
}

func statusPageSummary(desc string, m models.StatusPageMetrics) string {
	if desc == "" {
		desc = "Unknown"
	}
	if m.Indicator == "none" {
		if m.InProgressMaintenance > 0 {
			return fmt.Sprintf("Status: %s. %d scheduled maintenance in progress.", desc, m.InProgressMaintenance)
		}
		if m.RecentIncidents7d > 0 {
			return fmt.Sprintf("Status: %s. No current incidents, but %d incidents in the last 7 days.", desc, m.RecentIncidents7d)
		}
		return fmt.Sprintf("Status: %s. No incidents in the last 7 days.", desc)
	}
	note := ""
	if m.InProgressMaintenance > 0 {
		note = fmt.Sprintf(" %d scheduled maintenance in progress.", m.InProgressMaintenance)
	}
	return fmt.Sprintf("Status: %s. %d unresolved incident(s), %d total incidents in the last 7 days.%s",
		desc, m.UnresolvedIncidents, m.RecentIncidents7d, note)
}
