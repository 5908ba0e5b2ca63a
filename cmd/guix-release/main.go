package main

import (
	"log/slog"
	"os"

	"github.com/metacall/guix-release/internal"
	"github.com/metacall/guix-release/internal/cli"
)

// The entry point for guix-release.
//
// Initializes logging, displays startup information, and executes the root
// command. If any error occurs, including a batch that still fails after its
// retry, it exits with status 1.
func main() {
	slog.SetDefault(cli.NewLogger(os.Stderr))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("guix-release is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
