package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stratus-io/stratus/internal/feed"
)

func writeDescriptor(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
}

func TestDiscoverSorted(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "gcp.yaml", "name: GCP\nkind: incidentfeed\nendpoint: https://status.cloud.google.com/incidents.json\n")
	writeDescriptor(t, dir, "aws.yaml", "name: AWS\nkind: eventfeed\nendpoint: https://health.aws.amazon.com/public/currentevents\n")
	writeDescriptor(t, dir, "cloudflare.yml", "name: Cloudflare\nkind: statuspage\nendpoint: https://www.cloudflarestatus.com\n")

	r := NewRegistry(dir)
	if err := r.Discover(nil); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	agents := r.List()
	if len(agents) != 3 {
		t.Fatalf("got %d agents, want 3", len(agents))
	}
	wantOrder := []string{"AWS", "Cloudflare", "GCP"}
	for i, want := range wantOrder {
		if agents[i].Name != want {
			t.Errorf("agents[%d].Name = %q, want %q", i, agents[i].Name, want)
		}
	}
}

func TestDiscoverSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "good.yaml", "name: GitHub\nkind: statuspage\nendpoint: https://www.githubstatus.com\n")
	writeDescriptor(t, dir, "broken.yaml", "name: [unclosed\n")
	writeDescriptor(t, dir, "nameless.yaml", "kind: statuspage\nendpoint: https://example.com\n")
	writeDescriptor(t, dir, "notes.txt", "not a descriptor\n")

	sink := &recordingSink{}
	r := NewRegistry(dir)
	if err := r.Discover(sink); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("got %d agents, want 1 (only the valid descriptor)", r.Len())
	}
	if _, ok := r.Get("GitHub"); !ok {
		t.Error("valid descriptor missing after discovery")
	}

	warns := 0
	for _, line := range sink.snapshot() {
		if line.Level == feed.LevelWarn && strings.Contains(line.Message, "skipping") {
			warns++
		}
	}
	if warns != 2 {
		t.Errorf("got %d skip warnings, want 2 (broken + nameless)", warns)
	}
}

func TestDiscoverSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "azure.yaml", "name: Azure\nkind: statuspage\nendpoint: https://status.azure.com\n")
	writeDescriptor(t, dir, "azure2.yaml", "name: Azure\nkind: statuspage\nendpoint: https://elsewhere.example.com\n")

	sink := &recordingSink{}
	r := NewRegistry(dir)
	if err := r.Discover(sink); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("got %d agents, want 1 after duplicate skip", r.Len())
	}

	found := false
	for _, line := range sink.snapshot() {
		if strings.Contains(line.Message, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Error("no duplicate warning logged")
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "absent"))
	if err := r.Discover(nil); err != nil {
		t.Fatalf("Discover() error = %v, want nil for missing directory", err)
	}
	if r.Len() != 0 {
		t.Errorf("got %d agents, want 0", r.Len())
	}
}

func TestDiscoverReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "datadog.yaml", "name: Datadog\nkind: statuspage\nendpoint: https://status.datadoghq.com\n")

	r := NewRegistry(dir)
	if err := r.Discover(nil); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if _, ok := r.Get("Datadog"); !ok {
		t.Fatal("Datadog missing after first discovery")
	}

	if err := os.Remove(filepath.Join(dir, "datadog.yaml")); err != nil {
		t.Fatal(err)
	}
	writeDescriptor(t, dir, "atlassian.yaml", "name: Atlassian\nkind: statuspage\nendpoint: https://status.atlassian.com\n")

	if err := r.Discover(nil); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if _, ok := r.Get("Datadog"); ok {
		t.Error("removed descriptor still present after rediscovery")
	}
	if _, ok := r.Get("Atlassian"); !ok {
		t.Error("new descriptor missing after rediscovery")
	}
}
