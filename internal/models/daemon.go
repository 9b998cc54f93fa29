package models

import "time"

// DaemonInfo represents the daemon connection information.
// This corresponds to ~/.stratus/daemon.yaml.
type DaemonInfo struct {
	Version    int       `yaml:"version"`
	Host       string    `yaml:"host"`
	Port       int       `yaml:"port"`
	PID        int       `yaml:"pid"`
	AppVersion string    `yaml:"app_version"`
	StartedAt  time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(host string, port, pid int, appVersion string) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		Host:       host,
		Port:       port,
		PID:        pid,
		AppVersion: appVersion,
		StartedAt:  time.Now().UTC(),
	}
}
