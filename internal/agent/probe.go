package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stratus-io/stratus/internal/models"
)

// Probe is the pollable unit of work behind one descriptor. Run returns
// the typed metrics and a one-line summary of what it found.
type Probe interface {
	Run(ctx context.Context, sink LogSink) (models.Metrics, string, error)
}

// NewProbe builds the probe for a validated descriptor.
func NewProbe(d models.Descriptor, client *http.Client) (Probe, error) {
	if client == nil {
		client = http.DefaultClient
	}
	switch d.Kind {
	case models.KindStatusPage:
		return &statusPageProbe{name: d.Name, endpoint: d.Endpoint, client: client}, nil
	case models.KindRSSFeed:
		return &rssFeedProbe{name: d.Name, endpoint: d.Endpoint, client: client}, nil
	case models.KindEventFeed:
		return &eventFeedProbe{name: d.Name, endpoint: d.Endpoint, client: client}, nil
	case models.KindIncidentFeed:
		return &incidentFeedProbe{name: d.Name, endpoint: d.Endpoint, client: client}, nil
	case models.KindExec:
		return &execProbe{name: d.Name, command: d.Command}, nil
	default:
		return nil, fmt.Errorf("agent %s: unknown kind %q", d.Name, d.Kind)
	}
}

// getJSON fetches url and decodes the JSON body into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
