// Package main is the entry point for the stratus CLI/TUI.
package main

import (
	"os"

	"github.com/stratus-io/stratus/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
