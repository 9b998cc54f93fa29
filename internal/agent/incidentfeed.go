package agent

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// incidentFeedProbe polls a GCP-style incidents.json: the full incident
// archive where open incidents have no end timestamp.
type incidentFeedProbe struct {
	name     string
	endpoint string
	client   *http.Client
}

type cloudIncident struct {
	ID           string     `json:"id"`
	Begin        time.Time  `json:"begin"`
	End          *time.Time `json:"end"`
	ExternalDesc string     `json:"external_desc"`
	Severity     string     `json:"severity"`
}

func (p *incidentFeedProbe) Run(ctx context.Context, sink LogSink) (models.Metrics, string, error) {
	sink.Log(feed.LevelInfo, p.name, "Checking operational status")

	var incidents []cloudIncident
	if err := getJSON(ctx, p.client, p.endpoint, &incidents); err != nil {
		return nil, "", fmt.Errorf("fetch incidents: %w", err)
	}

	m := models.IncidentFeedMetrics{TotalIncidents: len(incidents)}
	cutoff := time.Now().AddDate(0, 0, -7)
	for _, inc := range incidents {
		if inc.End == nil {
			m.CurrentIncidents++
		}
		if inc.Begin.After(cutoff) {
			m.RecentIncidents7d++
		}
	}

	if m.CurrentIncidents > 0 {
		sink.Log(feed.LevelWarn, p.name, fmt.Sprintf("Found %d current incident(s)", m.CurrentIncidents))
	} else {
		sink.Log(feed.LevelInfo, p.name, "All systems operational")
	}
	sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d incident(s) in the last 7 days", m.RecentIncidents7d))

	return m, incidentFeedSummary(m), nil
}

func incidentFeedSummary(m models.IncidentFeedMetrics) string {
	if m.CurrentIncidents > 0 {
		return fmt.Sprintf("%d current incident(s), %d incident(s) in the last 7 days.", m.CurrentIncidents, m.RecentIncidents7d)
	}
	if m.RecentIncidents7d > 0 {
		return fmt.Sprintf("No current incidents, but %d incident(s) in the last 7 days.", m.RecentIncidents7d)
	}
	return "All systems operational. No incidents in the last 7 days."
}
