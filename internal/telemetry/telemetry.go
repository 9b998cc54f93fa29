// Package telemetry sends anonymous usage events when the user opts in.
// With telemetry disabled or no API key configured, every call is a no-op.
package telemetry

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/stratus-io/stratus/internal/buildinfo"
	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/models"
)

var (
	mu         sync.Mutex
	client     posthog.Client
	distinctID string
)

// Init opens the telemetry client when settings opt in. Safe to call with
// telemetry disabled; Capture stays a no-op then.
func Init(settings *models.Settings) {
	if settings == nil || !settings.Telemetry.Enabled || settings.Telemetry.APIKey == "" {
		return
	}

	cfg := posthog.Config{}
	if settings.Telemetry.Host != "" {
		cfg.Endpoint = settings.Telemetry.Host
	}
	c, err := posthog.NewWithConfig(settings.Telemetry.APIKey, cfg)
	if err != nil {
		log.Printf("[telemetry] Disabled: %v", err)
		return
	}

	mu.Lock()
	client = c
	distinctID = machineID()
	mu.Unlock()
}

// Capture records one event with the running version attached.
func Capture(event string, props map[string]any) {
	mu.Lock()
	c, id := client, distinctID
	mu.Unlock()
	if c == nil {
		return
	}

	p := posthog.NewProperties().Set("version", buildinfo.Version)
	for k, v := range props {
		p = p.Set(k, v)
	}
	if err := c.Enqueue(posthog.Capture{
		DistinctId: id,
		Event:      event,
		Properties: p,
	}); err != nil {
		log.Printf("[telemetry] Enqueue failed: %v", err)
	}
}

// Close flushes pending events. Safe to call when telemetry never started.
func Close() {
	mu.Lock()
	c := client
	client = nil
	mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}

// machineID returns a stable anonymous identifier, minted on first use.
func machineID() string {
	path, err := config.GlobalMachineIDFile()
	if err != nil {
		return uuid.NewString()
	}
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	id := uuid.NewString()
	if err := config.EnsureGlobalDir(); err == nil {
		_ = os.WriteFile(path, []byte(id+"\n"), 0600)
	}
	return id
}
