// Package tui implements the stratus dashboard: an always-on terminal view
// of agent health with a slash-command interpreter, a scrolling activity
// feed, and a per-agent detail mode.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Options configure the dashboard.
type Options struct {
	// Refresh is the auto-refresh period for the batch scheduler.
	// Zero means the 5 minute default.
	Refresh time.Duration

	// Relay, when set, streams engine log lines into the feed. The local
	// variant wires it as the orchestrator's broadcast sink; the remote
	// variant leaves it nil and the feed is built from batch reports.
	Relay *Relay
}

// Run launches the dashboard over the given backend and blocks until the
// user exits.
func Run(b Backend, opts Options) error {
	ref := &programRef{}
	model := NewModel(b, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	ref.Set(p)
	if opts.Relay != nil {
		opts.Relay.attach(ref)
	}

	_, err := p.Run()

	ref.Clear()
	return err
}
