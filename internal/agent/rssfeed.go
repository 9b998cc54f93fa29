package agent

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// rssFeedProbe derives status-page style metrics from an announcement RSS
// feed, for providers without a structured status API. Openness of an issue
// is inferred from title keywords, so the numbers are approximate.
type rssFeedProbe struct {
	name     string
	endpoint string
	client   *http.Client
}

type rssDoc struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

var ongoingKeywords = []string{"investigating", "identified", "monitoring", "ongoing", "degraded", "outage"}

var maintenanceKeywords = []string{"maintenance", "scheduled", "planned"}

func (p *rssFeedProbe) Run(ctx context.Context, sink LogSink) (models.Metrics, string, error) {
	sink.Log(feed.LevelInfo, p.name, "Checking status feed")

	doc, err := p.fetch(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetch status feed: %w", err)
	}

	now := time.Now()
	dayAgo := now.Add(-24 * time.Hour)
	recentIssues := 0
	for _, item := range firstItems(doc.Items, 10) {
		if t, ok := item.published(); ok && t.After(dayAgo) {
			recentIssues++
		}
	}

	m := models.StatusPageMetrics{Indicator: "none"}
	desc := "All Systems Operational"
	if recentIssues > 0 {
		m.Indicator = "minor"
		desc = fmt.Sprintf("%d recent issue(s) reported", recentIssues)
	}
	sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Status: %s", desc))

	if m.Indicator != "none" {
		for _, item := range firstItems(doc.Items, 20) {
			if titleHasAny(item.Title, ongoingKeywords) {
				m.UnresolvedIncidents++
			}
		}
		sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d unresolved incident(s)", m.UnresolvedIncidents))
	}

	cutoff := now.AddDate(0, 0, -7)
	for _, item := range doc.Items {
		if t, ok := item.published(); ok && t.After(cutoff) {
			m.RecentIncidents7d++
		}
	}
	sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d incident(s) in the last 7 days", m.RecentIncidents7d))

	for _, item := range firstItems(doc.Items, 20) {
		if titleHasAny(item.Title, maintenanceKeywords) {
			m.ScheduledMaintenance++
		}
	}
	if m.ScheduledMaintenance > 0 {
		sink.Log(feed.LevelInfo, p.name, fmt.Sprintf("Found %d upcoming scheduled maintenance window(s)", m.ScheduledMaintenance))
	}

	return m, statusPageSummary(desc, m), nil
}

func (p *rssFeedProbe) fetch(ctx context.Context) (*rssDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", p.endpoint, resp.Status)
	}

	var doc rssDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return &doc, nil
}

// published parses the item's pubDate. RSS dates are RFC 1123 with either a
// zone name or a numeric offset.
func (it rssItem) published() (time.Time, bool) {
	for _, layout := range []string{time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, it.PubDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstItems(items []rssItem, n int) []rssItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func titleHasAny(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
