package models

import (
	"fmt"
	"time"
)

// ServerConfig holds the daemon's listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExecutionConfig bounds agent execution.
type ExecutionConfig struct {
	AgentTimeoutSeconds int `yaml:"agent_timeout_seconds"`
	MaxConcurrentAgents int `yaml:"max_concurrent_agents"`
	MaxAgentMessages    int `yaml:"max_agent_messages"`
}

// AgentTimeout returns the default per-agent budget as a duration.
func (c ExecutionConfig) AgentTimeout() time.Duration {
	if c.AgentTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.AgentTimeoutSeconds) * time.Second
}

// DashboardConfig tunes the TUI.
type DashboardConfig struct {
	RefreshIntervalMinutes int `yaml:"refresh_interval_minutes"`
}

// RefreshInterval returns the auto-refresh period.
func (c DashboardConfig) RefreshInterval() time.Duration {
	if c.RefreshIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// UpdatesConfig holds settings for update checking.
type UpdatesConfig struct {
	CheckOnStartup bool       `yaml:"check_on_startup"`
	CheckFrequency string     `yaml:"check_frequency"` // "daily", "weekly", or "every_launch"
	LastChecked    *time.Time `yaml:"last_checked,omitempty"`
}

// TelemetryConfig holds opt-in usage reporting settings.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key,omitempty"`
	Host    string `yaml:"host,omitempty"`
}

// Settings represents global application settings.
// This corresponds to ~/.stratus/settings.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Execution ExecutionConfig `yaml:"execution"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Updates   UpdatesConfig   `yaml:"updates"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Execution: ExecutionConfig{
			AgentTimeoutSeconds: 30,
			MaxConcurrentAgents: 5,
			MaxAgentMessages:    100,
		},
		Dashboard: DashboardConfig{
			RefreshIntervalMinutes: 5,
		},
		Updates: UpdatesConfig{
			CheckOnStartup: true,
			CheckFrequency: "daily",
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}
