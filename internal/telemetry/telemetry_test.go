package telemetry

import (
	"os"
	"testing"

	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/models"
)

func TestMachineIDStable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first := machineID()
	if first == "" {
		t.Fatal("machineID() returned empty")
	}
	second := machineID()
	if second != first {
		t.Errorf("machineID() = %q, then %q; want the same id", first, second)
	}

	path, err := config.GlobalMachineIDFile()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("machine id file not persisted: %v", err)
	}
}

func TestCaptureNoOpWhenDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	settings := models.NewSettings()
	settings.Telemetry.Enabled = false
	Init(settings)

	// Must not panic or touch the network.
	Capture("dashboard_opened", map[string]any{"agents": 7})
	Close()
}

func TestInitRequiresAPIKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	settings := models.NewSettings()
	settings.Telemetry.Enabled = true
	settings.Telemetry.APIKey = ""
	Init(settings)

	mu.Lock()
	c := client
	mu.Unlock()
	if c != nil {
		t.Error("client created without an API key")
	}
	Close()
}
