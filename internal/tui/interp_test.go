package tui

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"bare command", "/start-agents", "start-agents", nil, true},
		{"command with arg", "/run-agent AWSAgent", "run-agent", []string{"AWSAgent"}, true},
		{"flag token", "/run-agent --auto", "run-agent", []string{"--auto"}, true},
		{"whitespace runs collapse", "/run-agent   --auto   extra", "run-agent", []string{"--auto", "extra"}, true},
		{"trailing space after commit", "/detail ", "detail", nil, true},
		{"alias", "/ls", "ls", nil, true},
		{"no prefix", "start-agents", "", nil, false},
		{"prose is not a command", "hello world", "", nil, false},
		{"prefix alone", "/", "", nil, false},
		{"prefix with only spaces", "/   ", "", nil, false},
		{"empty input", "", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := parseCommand(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("parseCommand(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if name != tt.wantName {
				t.Errorf("parseCommand(%q) name = %q, want %q", tt.raw, name, tt.wantName)
			}
			if len(args) != len(tt.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs)) {
				t.Errorf("parseCommand(%q) args = %v, want %v", tt.raw, args, tt.wantArgs)
			}
		})
	}
}

func TestLookupCommand(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{"exact name", "start-agents", "start-agents", true},
		{"exact beats alias prefix overlap", "run-agent", "run-agent", true},
		{"alias run", "run", "start-agents", true},
		{"alias question mark", "?", "help", true},
		{"alias quit", "quit", "exit", true},
		{"alias browse", "browse", "detail", true},
		{"unknown", "frobnicate", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, found := lookupCommand(tt.query)
			if found != tt.found {
				t.Fatalf("lookupCommand(%q) found = %v, want %v", tt.query, found, tt.found)
			}
			if found && c.name != tt.want {
				t.Errorf("lookupCommand(%q) = %q, want %q", tt.query, c.name, tt.want)
			}
		})
	}
}

func TestFilterCommands(t *testing.T) {
	names := func(cs []command) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.name)
		}
		return out
	}

	if got := filterCommands(""); len(got) != len(commands) {
		t.Errorf("filterCommands(\"\") returned %d commands, want the full registry (%d)", len(got), len(commands))
	}
	if got := names(filterCommands("ru")); !reflect.DeepEqual(got, []string{"start-agents", "run-agent"}) {
		t.Errorf("filterCommands(\"ru\") = %v, want [start-agents run-agent]", got)
	}
	if got := names(filterCommands("ls")); !reflect.DeepEqual(got, []string{"list-agents"}) {
		t.Errorf("filterCommands(\"ls\") = %v, want [list-agents]", got)
	}
	if got := names(filterCommands("LS")); !reflect.DeepEqual(got, []string{"list-agents"}) {
		t.Errorf("filterCommands is not case-insensitive: %v", got)
	}
	if got := filterCommands("zzz"); len(got) != 0 {
		t.Errorf("filterCommands(\"zzz\") = %v, want none", names(got))
	}
}
