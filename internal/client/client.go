// Package client implements the HTTP client for the stratusd API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stratus-io/stratus/internal/models"
)

// APIError is a non-2xx response from the daemon, carrying the detail
// message from the error body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("daemon returned status %d", e.StatusCode)
}

// IsBusy reports whether err is the daemon's already-running rejection.
func IsBusy(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusConflict
}

// IsNotFound reports whether err is an unknown-agent rejection.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// Client talks to a running stratusd instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the daemon at baseURL, e.g. "http://127.0.0.1:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// retrieve-status waits for a whole batch, so the transport budget
		// sits well above the worst-case agent timeout.
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

// BaseURL returns the daemon address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cannot connect to stratusd at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var failure struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &failure) == nil {
			apiErr.Detail = failure.Detail
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

// RetrieveStatus triggers a batch execution and returns the report.
func (c *Client) RetrieveStatus(ctx context.Context) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPost, "/retrieve-status", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// AgentStatuses returns the live status map. Before the first execution
// the daemon sends a placeholder instead; in that case the map is empty
// and the known agent names are returned alongside it.
func (c *Client) AgentStatuses(ctx context.Context) (map[string]models.AgentStatus, []string, error) {
	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/agent-status", &raw); err != nil {
		return nil, nil, err
	}
	if _, ok := raw["message"]; ok {
		var names []string
		if rawAgents, ok := raw["agents"]; ok {
			_ = json.Unmarshal(rawAgents, &names)
		}
		return map[string]models.AgentStatus{}, names, nil
	}

	statuses := make(map[string]models.AgentStatus, len(raw))
	for name, data := range raw {
		var st models.AgentStatus
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, nil, fmt.Errorf("decode status for %s: %w", name, err)
		}
		statuses[name] = st
	}
	return statuses, nil, nil
}

// AgentStatus returns one agent's live status.
func (c *Client) AgentStatus(ctx context.Context, name string) (models.AgentStatus, error) {
	var st models.AgentStatus
	err := c.do(ctx, http.MethodGet, "/agent-status/"+url.PathEscape(name), &st)
	return st, err
}

// ExecuteAgent runs a single agent and returns its refreshed status.
func (c *Client) ExecuteAgent(ctx context.Context, name string) (models.AgentStatus, error) {
	var st models.AgentStatus
	err := c.do(ctx, http.MethodPost, "/agents/"+url.PathEscape(name)+"/execute", &st)
	return st, err
}

// AgentLogs returns the detailed log payload for one agent.
func (c *Client) AgentLogs(ctx context.Context, name string) (models.AgentLogs, error) {
	var logs models.AgentLogs
	err := c.do(ctx, http.MethodGet, "/agent-logs/"+url.PathEscape(name), &logs)
	return logs, err
}

// History returns up to limit recent executions, oldest first.
func (c *Client) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	path := "/execution-history"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var entries []models.HistoryEntry
	err := c.do(ctx, http.MethodGet, path, &entries)
	return entries, err
}

// ListAgents returns the registered agents with their metadata.
func (c *Client) ListAgents(ctx context.Context) (models.AgentList, error) {
	var list models.AgentList
	err := c.do(ctx, http.MethodGet, "/agents", &list)
	return list, err
}
