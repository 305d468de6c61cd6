// Package main is the entry point for the aistack CLI.
//
// aistack deploys a GPU-backed AI service stack (n8n, Ollama, Qdrant,
// Crawl4AI) onto AWS with a single command. It selects the best-value
// instance across regions, provisions all infrastructure idempotently and
// discovers everything it created by tag, so there is no local state file.
//
// Commands: deploy, teardown, status, cost.
//
// For detailed usage information, run:
//
//	aistack --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/imamik/aistack/cmd/aistack/commands"
	"github.com/imamik/aistack/internal/config"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes: 2 for configuration problems
// the operator must fix before retrying, 1 for everything else.
func exitCode(err error) int {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
