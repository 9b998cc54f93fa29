package models

import "time"

// AgentLogs is the detailed per-agent payload served by the agent-logs
// endpoint: the full message history plus timing and display hints.
// Before an agent has ever run, only AgentName, Message, and State are set.
type AgentLogs struct {
	AgentName    string            `json:"agent_name"`
	State        AgentState        `json:"state,omitempty"`
	Execution    *ExecutionWindow  `json:"execution,omitempty"`
	Messages     []string          `json:"messages,omitempty"`
	MessageCount int               `json:"message_count,omitempty"`
	RawOutput    map[string]any    `json:"raw_output,omitempty"`
	Error        string            `json:"error,omitempty"`
	Display      *DashboardDisplay `json:"dashboard_display,omitempty"`

	// Message is set on the never-executed placeholder shape.
	Message string     `json:"message,omitempty"`
	Status  AgentState `json:"status,omitempty"`
}

// ExecutionWindow is the timing block inside AgentLogs.
type ExecutionWindow struct {
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// DashboardDisplay carries the render hints for one agent row.
type DashboardDisplay struct {
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	LastMessage *string `json:"last_message"`
}

// LogsFromStatus builds the full AgentLogs payload from a live status.
func LogsFromStatus(st AgentStatus) AgentLogs {
	logs := AgentLogs{
		AgentName: st.AgentName,
		State:     st.State,
		Execution: &ExecutionWindow{
			StartTime:       st.StartTime,
			EndTime:         st.EndTime,
			DurationSeconds: st.DurationSeconds(),
		},
		Messages:     st.Messages,
		MessageCount: len(st.Messages),
		RawOutput:    EncodeMetrics(st.Metrics),
		Error:        st.ErrorMessage,
		Display: &DashboardDisplay{
			Color: st.State.Color(),
			Icon:  st.State.Icon(),
		},
	}
	if len(st.Messages) > 0 {
		last := st.Messages[len(st.Messages)-1]
		logs.Display.LastMessage = &last
	}
	return logs
}

// IdleLogs builds the placeholder payload for an agent that has not run yet.
func IdleLogs(name string) AgentLogs {
	return AgentLogs{
		AgentName: name,
		Message:   "No execution data available. Run /retrieve-status first.",
		Status:    StateIdle,
	}
}
