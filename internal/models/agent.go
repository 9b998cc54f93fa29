// Package models defines the wire and configuration types shared by the
// daemon, the HTTP client, and the dashboard.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AgentState is the lifecycle state of a monitoring agent.
type AgentState string

const (
	StateIdle      AgentState = "idle"
	StateThinking  AgentState = "thinking"
	StateCompleted AgentState = "completed"
	StateWarning   AgentState = "warning"
	StateError     AgentState = "error"
)

// Icon returns the dashboard glyph for a state.
func (s AgentState) Icon() string {
	switch s {
	case StateThinking:
		return "◑"
	case StateCompleted:
		return "●"
	case StateWarning:
		return "⚠"
	case StateError:
		return "✖"
	default:
		return "○"
	}
}

// Color returns the dashboard color word for a state.
func (s AgentState) Color() string {
	switch s {
	case StateThinking:
		return "blue"
	case StateCompleted:
		return "green"
	case StateWarning:
		return "yellow"
	case StateError:
		return "red"
	default:
		return "gray"
	}
}

// Descriptor kinds. The kind selects which probe runs the agent.
const (
	KindStatusPage   = "statuspage"
	KindRSSFeed      = "rssfeed"
	KindEventFeed    = "eventfeed"
	KindIncidentFeed = "incidentfeed"
	KindExec         = "exec"
)

// Descriptor identifies one monitoring agent and bounds its execution.
// Descriptors live as YAML files under ~/.stratus/agents.d/ and are
// treated as read-only configuration once discovered.
type Descriptor struct {
	Name           string `yaml:"name" json:"name"`
	Version        string `yaml:"version,omitempty" json:"version,omitempty"`
	Description    string `yaml:"description,omitempty" json:"description,omitempty"`
	Kind           string `yaml:"kind" json:"kind"`
	Endpoint       string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Command        string `yaml:"command,omitempty" json:"command,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// Timeout returns the descriptor's execution budget, falling back to def
// when the descriptor does not specify one.
func (d *Descriptor) Timeout(def time.Duration) time.Duration {
	if d.TimeoutSeconds <= 0 {
		return def
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Validate reports whether the descriptor is usable by a probe.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	switch d.Kind {
	case KindStatusPage, KindRSSFeed, KindEventFeed, KindIncidentFeed:
		if d.Endpoint == "" {
			return fmt.Errorf("agent %s: kind %s requires an endpoint", d.Name, d.Kind)
		}
	case KindExec:
		if d.Command == "" {
			return fmt.Errorf("agent %s: kind exec requires a command", d.Name)
		}
	default:
		return fmt.Errorf("agent %s: unknown kind %q", d.Name, d.Kind)
	}
	return nil
}

// AgentStatus is the daemon-side live record of one agent's last execution.
// Metrics is the typed form of the wire raw_output field.
type AgentStatus struct {
	AgentName    string
	State        AgentState
	StartTime    *time.Time
	EndTime      *time.Time
	Messages     []string
	Metrics      Metrics
	ErrorMessage string
}

type agentStatusWire struct {
	AgentName    string         `json:"agent_name"`
	State        AgentState     `json:"state"`
	StartTime    *time.Time     `json:"start_time,omitempty"`
	EndTime      *time.Time     `json:"end_time,omitempty"`
	Messages     []string       `json:"messages"`
	RawOutput    map[string]any `json:"raw_output,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (s AgentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(agentStatusWire{
		AgentName:    s.AgentName,
		State:        s.State,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Messages:     s.Messages,
		RawOutput:    EncodeMetrics(s.Metrics),
		ErrorMessage: s.ErrorMessage,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *AgentStatus) UnmarshalJSON(data []byte) error {
	var w agentStatusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = AgentStatus{
		AgentName:    w.AgentName,
		State:        w.State,
		StartTime:    w.StartTime,
		EndTime:      w.EndTime,
		Messages:     w.Messages,
		Metrics:      DecodeMetrics(w.RawOutput),
		ErrorMessage: w.ErrorMessage,
	}
	return nil
}

// NewAgentStatus returns an idle status for the named agent.
func NewAgentStatus(name string) *AgentStatus {
	return &AgentStatus{AgentName: name, State: StateIdle}
}

// AgentInfo is one row of the agents listing.
type AgentInfo struct {
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Status        AgentState `json:"status"`
	LastExecution *time.Time `json:"last_execution,omitempty"`
	Description   string     `json:"description,omitempty"`
}

// AgentList is the agents listing payload.
type AgentList struct {
	Agents []AgentInfo `json:"agents"`
	Total  int         `json:"total"`
}

// AddMessage appends a timestamped log line to the agent's message history.
func (s *AgentStatus) AddMessage(msg string) {
	s.Messages = append(s.Messages, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg))
}

// TrimMessages drops the oldest messages beyond max. max <= 0 keeps all.
func (s *AgentStatus) TrimMessages(max int) {
	if max > 0 && len(s.Messages) > max {
		s.Messages = s.Messages[len(s.Messages)-max:]
	}
}

// DurationSeconds returns the execution duration, or 0 if unknown.
func (s *AgentStatus) DurationSeconds() float64 {
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(*s.StartTime).Seconds()
}
