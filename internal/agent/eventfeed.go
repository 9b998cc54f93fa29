package agent

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// eventFeedProbe polls an AWS-health style current-events endpoint: a JSON
// array of ongoing events with millisecond timestamps.
type eventFeedProbe struct {
	name     string
	endpoint string
	client   *http.Client
}

type healthEvent struct {
	Service string `json:"service"`
	Summary string `json:"summary"`
	Date    int64  `json:"date"`
	Status  string `json:"status"`
	Region  string `json:"region"`
}

func (p *eventFeedProbe) Run(ctx context.Context, sink LogSink) (models.Metrics, string, error) {
	sink.Log(feed.LevelInfo, p.name, "Checking operational events")

	var events []healthEvent
	if err := getJSON(ctx, p.client, p.endpoint, &events); err != nil {
		return nil, "", fmt.Errorf("fetch events: %w", err)
	}

	m := models.EventFeedMetrics{CurrentEvents: len(events)}
	cutoff := time.Now().AddDate(0, 0, -7)
	for _, e := range events {
		if e.Date > 0 && time.UnixMilli(e.Date).After(cutoff) {
			m.RecentEvents7d++
		}
	}

	if m.CurrentEvents > 0 {
		sink.Log(feed.LevelWarn, p.name, fmt.Sprintf("Found %d current event(s)", m.CurrentEvents))
	} else {
		sink.Log(feed.LevelInfo, p.name, "All services operational")
	}
	sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d event(s) in the last 7 days", m.RecentEvents7d))

	return m, eventFeedSummary(m), nil
}

func eventFeedSummary(m models.EventFeedMetrics) string {
	if m.CurrentEvents > 0 {
		return fmt.Sprintf("%d current event(s), %d event(s) in the last 7 days.", m.CurrentEvents, m.RecentEvents7d)
	}
	if m.RecentEvents7d > 0 {
		return fmt.Sprintf("No current events, but %d event(s) in the last 7 days.", m.RecentEvents7d)
	}
	return "All services operational. No events in the last 7 days."
}
