package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/stratus-io/stratus/internal/config"
	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
)

// Registry holds the set of known agent descriptors, loaded from a directory
// of YAML files. Discovery can be re-run at any time (the daemon does this
// when the directory changes), so reads are guarded against a concurrent
// reload.
type Registry struct {
	mu     sync.RWMutex
	dir    string
	agents []models.Descriptor
	byName map[string]models.Descriptor
}

// NewRegistry creates an empty registry backed by the given directory.
// Call Discover to populate it.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:    dir,
		byName: make(map[string]models.Descriptor),
	}
}

// Dir returns the directory the registry loads descriptors from.
func (r *Registry) Dir() string {
	return r.dir
}

// Discover scans the descriptor directory and replaces the registry contents
// with what it finds. Malformed files are reported to the sink and skipped;
// a missing directory yields an empty registry. Agents are kept sorted by
// name so listings are stable.
func (r *Registry) Discover(sink LogSink) error {
	if sink == nil {
		sink = NopSink
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.replace(nil)
			return nil
		}
		return fmt.Errorf("failed to read agents directory %s: %w", r.dir, err)
	}

	byName := make(map[string]models.Descriptor)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(r.dir, entry.Name())
		var desc models.Descriptor
		if err := config.LoadYAML(path, &desc); err != nil {
			sink.Log(feed.LevelWarn, "registry", fmt.Sprintf("skipping %s: %v", entry.Name(), err))
			continue
		}
		if err := desc.Validate(); err != nil {
			sink.Log(feed.LevelWarn, "registry", fmt.Sprintf("skipping %s: %v", entry.Name(), err))
			continue
		}
		if _, dup := byName[desc.Name]; dup {
			sink.Log(feed.LevelWarn, "registry", fmt.Sprintf("skipping %s: duplicate agent %q", entry.Name(), desc.Name))
			continue
		}
		byName[desc.Name] = desc
	}

	agents := make([]models.Descriptor, 0, len(byName))
	for _, desc := range byName {
		agents = append(agents, desc)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })

	r.mu.Lock()
	r.agents = agents
	r.byName = byName
	r.mu.Unlock()
	return nil
}

func (r *Registry) replace(agents []models.Descriptor) {
	byName := make(map[string]models.Descriptor, len(agents))
	for _, desc := range agents {
		byName[desc.Name] = desc
	}
	r.mu.Lock()
	r.agents = agents
	r.byName = byName
	r.mu.Unlock()
}

// List returns the registered descriptors sorted by name.
func (r *Registry) List() []models.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Descriptor, len(r.agents))
	copy(out, r.agents)
	return out
}

// Get looks up a descriptor by agent name.
func (r *Registry) Get(name string) (models.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.byName[name]
	return desc, ok
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
