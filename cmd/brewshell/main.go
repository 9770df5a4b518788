// brewshell is an interactive shell for the serial devices of a brewery RTU:
// relay boards switching pumps and valves, and PID controllers holding
// vessel temperatures.
//
// Run with no arguments for the prompt, or use "brewshell run <device> ..."
// for a single command from scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// SIGTERM ends the process. Ctrl-C is left to each command so that it
	// stops a watch without leaving the shell.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath resolves the config file: flag, then BREWSHELL_CONFIG, then
// the default.
func getConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv("BREWSHELL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
