// Package watcher handles file system watching for the daemon.
package watcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stratus-io/stratus/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventAgentsChanged   EventType = iota // descriptor added, edited, or removed under agents.d
	EventSettingsChanged                  // settings.yaml rewritten
)

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the stratus configuration tree for changes.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a new file system watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher on the global config directory and the agents
// directory. fsnotify is not recursive, so both are added explicitly.
func (w *Watcher) Start() error {
	globalDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	if err := w.fsWatcher.Add(globalDir); err != nil {
		log.Printf("Warning: failed to watch global dir: %v", err)
	}

	agentsDir, err := config.AgentsDir()
	if err != nil {
		return err
	}
	if err := w.fsWatcher.Add(agentsDir); err != nil {
		// Agents dir might not exist yet, that's OK
		log.Printf("Warning: failed to watch agents dir: %v", err)
	}

	// Start processing events
	go w.processEvents()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Accept write, create, rename, and remove events. Rename matters
	// because atomic writes (write tmp → rename to target) produce Rename
	// events on the target file. Remove matters for descriptors: deleting
	// a file under agents.d must drop the agent.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	// Debounce events
	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	// Cancel existing timer
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	// Create new timer
	w.debounce[path] = time.AfterFunc(100*time.Millisecond, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange handles a debounced file change.
func (w *Watcher) processFileChange(path string) {
	filename := filepath.Base(path)
	dir := filepath.Dir(path)

	if filename == config.SettingsFileName {
		w.eventsChan <- Event{Type: EventSettingsChanged, Path: path}
		return
	}

	agentsDir, err := config.AgentsDir()
	if err != nil {
		return
	}
	ext := filepath.Ext(filename)
	if dir == agentsDir && (ext == ".yaml" || ext == ".yml") {
		log.Printf("[watcher] agents.d changed: %s", filename)
		w.eventsChan <- Event{Type: EventAgentsChanged, Path: path}
	}
}
