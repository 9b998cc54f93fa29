package config

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DaemonLogWriter returns the rotating writer the detached daemon logs to.
// The file lives at ~/.stratus/logs/stratusd.log and is size-capped so a
// long-lived daemon cannot fill the disk.
func DaemonLogWriter() (io.WriteCloser, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, err
	}

	path, err := DaemonLogFile()
	if err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, nil
}
