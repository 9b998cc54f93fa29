package tray

import (
	"fmt"
	"log"
	"time"

	"github.com/getlantern/systray"
)

var (
	state   DaemonState
	onStart func()
	onExit  func()

	portItem   *systray.MenuItem
	statusItem *systray.MenuItem
	runItem    *systray.MenuItem
	updateItem *systray.MenuItem
	quitItem   *systray.MenuItem
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch the HTTP server here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("Stratus")

	// Header
	header := systray.AddMenuItem("Stratus Daemon", "")
	header.Disable()

	// Port
	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()

	// Last batch outcome
	statusItem = systray.AddMenuItem("No runs yet", "")
	statusItem.Disable()

	systray.AddSeparator()

	// Actions
	runItem = systray.AddMenuItem("Run All Agents", "Execute every registered agent now")

	updateItem = systray.AddMenuItem("", "")
	updateItem.Hide()

	systray.AddSeparator()

	quitItem = systray.AddMenuItem("Quit", "Shut down Stratus daemon")

	// Start the daemon services
	if onStart != nil {
		onStart()
	}

	// Update port display now that server is started
	if state != nil {
		portItem.SetTitle(fmt.Sprintf("Running on port: %d", state.Port()))
		Refresh()
	}

	// Handle click events
	go handleClicks()
	go refreshLoop()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-runItem.ClickedCh:
			if state == nil {
				continue
			}
			if state.Executing() {
				log.Println("Run All Agents: execution already in progress")
				continue
			}
			log.Println("Run All Agents: starting batch execution")
			state.TriggerRunAll()

		case <-updateItem.ClickedCh:
			// Informational item, no action

		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

// Refresh re-renders the status line, update hint, and tooltip.
func Refresh() {
	if state == nil {
		return
	}
	if state.Executing() {
		statusItem.SetTitle("Executing agents...")
	} else {
		statusItem.SetTitle(fmt.Sprintf("Last run: %s", state.OverallStatus()))
	}
	if hint := state.UpdateHint(); hint != "" {
		updateItem.SetTitle(hint)
		updateItem.Show()
	} else {
		updateItem.Hide()
	}
	systray.SetTooltip(formatTooltip(state.AgentCount(), state.Executing()))
}

// refreshLoop keeps the menu in sync with executions triggered over HTTP.
func refreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		Refresh()
	}
}

func formatTooltip(agents int, executing bool) string {
	if executing {
		return fmt.Sprintf("Stratus: %d agents, executing", agents)
	}
	return fmt.Sprintf("Stratus: %d agents", agents)
}
