package config

import (
	"path/filepath"
	"strings"

	"github.com/stratus-io/stratus/internal/models"
)

// StockAgents returns the descriptors for the built-in provider set.
// `stratus init` seeds these into agents.d; after that the files are the
// source of truth and users may edit or delete them freely.
func StockAgents() []models.Descriptor {
	return []models.Descriptor{
		{
			Name:        "AWSAgent",
			Kind:        models.KindEventFeed,
			Endpoint:    "https://health.aws.amazon.com/public/currentevents",
			Description: "AWS public service health events",
		},
		{
			Name:        "AtlassianAgent",
			Kind:        models.KindStatusPage,
			Endpoint:    "https://status.atlassian.com",
			Description: "Atlassian cloud platform status",
		},
		{
			Name:        "AzureAgent",
			Kind:        models.KindRSSFeed,
			Endpoint:    "https://azure.status.microsoft/en-us/status/feed/",
			Description: "Azure status announcement feed",
		},
		{
			Name:        "CloudflareAgent",
			Kind:        models.KindStatusPage,
			Endpoint:    "https://www.cloudflarestatus.com",
			Description: "Cloudflare edge network status",
		},
		{
			Name:        "DatadogAgent",
			Kind:        models.KindStatusPage,
			Endpoint:    "https://status.datadoghq.com",
			Description: "Datadog monitoring platform status",
		},
		{
			Name:        "GCPAgent",
			Kind:        models.KindIncidentFeed,
			Endpoint:    "https://status.cloud.google.com/incidents.json",
			Description: "Google Cloud incident history",
		},
		{
			Name:        "GitHubAgent",
			Kind:        models.KindStatusPage,
			Endpoint:    "https://www.githubstatus.com",
			Description: "GitHub platform status",
		},
	}
}

// SeedAgentsDir writes any missing stock descriptors into agents.d and
// returns how many files it created. Existing files are left alone, so
// user edits survive re-running init.
func SeedAgentsDir() (int, error) {
	if err := EnsureAgentsDir(); err != nil {
		return 0, err
	}

	dir, err := AgentsDir()
	if err != nil {
		return 0, err
	}

	written := 0
	for _, desc := range StockAgents() {
		path := filepath.Join(dir, descriptorFileName(desc.Name))
		if FileExists(path) {
			continue
		}
		if err := SaveYAML(path, desc); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// descriptorFileName derives a file name like "cloudflare.yaml" from an
// agent name like "CloudflareAgent".
func descriptorFileName(name string) string {
	base := strings.TrimSuffix(name, "Agent")
	if base == "" {
		base = name
	}
	return strings.ToLower(base) + ".yaml"
}
