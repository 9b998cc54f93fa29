package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// commandPrefix starts every slash command.
const commandPrefix = "/"

// command is one dashboard command: canonical name, aliases, and the
// action invoked on submission. The action mutates the model and returns
// any side-effecting tea.Cmd.
type command struct {
	name        string
	aliases     []string
	description string
	run         func(m *Model, args []string) tea.Cmd
}

// commands is the static registry, built once at startup. Lookup resolves
// exact names before alias membership.
var commands = []command{
	{
		name:        "start-agents",
		aliases:     []string{"start", "run"},
		description: "Run all agents now",
		run:         (*Model).cmdStartAgents,
	},
	{
		name:        "run-agent",
		aliases:     nil,
		description: "Run one agent by name, or --auto for all",
		run:         (*Model).cmdRunAgent,
	},
	{
		name:        "list-agents",
		aliases:     []string{"ls", "agents"},
		description: "List the discovered agents",
		run:         (*Model).cmdListAgents,
	},
	{
		name:        "detail",
		aliases:     []string{"browse", "view"},
		description: "Browse per-agent results full screen",
		run:         (*Model).cmdDetail,
	},
	{
		name:        "logs",
		aliases:     nil,
		description: "Pull an agent's execution log into the feed",
		run:         (*Model).cmdLogs,
	},
	{
		name:        "history",
		aliases:     nil,
		description: "Summarize recent executions",
		run:         (*Model).cmdHistory,
	},
	{
		name:        "help",
		aliases:     []string{"?", "h"},
		description: "Show commands and keys",
		run:         (*Model).cmdHelp,
	},
	{
		name:        "exit",
		aliases:     []string{"quit", "q"},
		description: "Leave the dashboard",
		run:         (*Model).cmdExit,
	},
}

// parseCommand splits raw input into a command name and its positional
// arguments. Tokens are whitespace-delimited, no quoting. Input that does
// not start with the prefix, or carries no name after it, is not a
// command.
func parseCommand(raw string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(raw, commandPrefix) {
		return "", nil, false
	}
	fields := strings.Fields(raw[len(commandPrefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// lookupCommand resolves a name against the registry, exact names first,
// then aliases.
func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	for _, c := range commands {
		for _, a := range c.aliases {
			if a == name {
				return c, true
			}
		}
	}
	return command{}, false
}

// filterCommands returns the registry entries whose name or any alias
// contains the query as a substring. An empty query matches everything.
func filterCommands(query string) []command {
	if query == "" {
		return commands
	}
	query = strings.ToLower(query)
	var out []command
	for _, c := range commands {
		if commandMatches(c, query) {
			out = append(out, c)
		}
	}
	return out
}

func commandMatches(c command, query string) bool {
	if strings.Contains(c.name, query) {
		return true
	}
	for _, a := range c.aliases {
		if strings.Contains(a, query) {
			return true
		}
	}
	return false
}
