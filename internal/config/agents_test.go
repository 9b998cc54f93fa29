package config

import (
	"path/filepath"
	"testing"

	"github.com/stratus-io/stratus/internal/models"
)

func TestSeedAgentsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	written, err := SeedAgentsDir()
	if err != nil {
		t.Fatalf("SeedAgentsDir() error = %v", err)
	}
	if want := len(StockAgents()); written != want {
		t.Errorf("SeedAgentsDir() wrote %d files, want %d", written, want)
	}

	// Re-running must not clobber existing files.
	written, err = SeedAgentsDir()
	if err != nil {
		t.Fatalf("SeedAgentsDir() second run error = %v", err)
	}
	if written != 0 {
		t.Errorf("SeedAgentsDir() second run wrote %d files, want 0", written)
	}

	dir, err := AgentsDir()
	if err != nil {
		t.Fatal(err)
	}
	var desc models.Descriptor
	if err := LoadYAML(filepath.Join(dir, "cloudflare.yaml"), &desc); err != nil {
		t.Fatalf("seeded descriptor unreadable: %v", err)
	}
	if desc.Name != "CloudflareAgent" {
		t.Errorf("seeded name = %q, want CloudflareAgent", desc.Name)
	}
	if err := desc.Validate(); err != nil {
		t.Errorf("seeded descriptor invalid: %v", err)
	}
}

func TestDescriptorFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"CloudflareAgent", "cloudflare.yaml"},
		{"GCPAgent", "gcp.yaml"},
		{"Agent", "agent.yaml"},
		{"custom", "custom.yaml"},
	}
	for _, tt := range tests {
		if got := descriptorFileName(tt.name); got != tt.want {
			t.Errorf("descriptorFileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
