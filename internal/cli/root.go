package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/metacall/guix-release/internal"
	"github.com/metacall/guix-release/internal/paths"
	"github.com/metacall/guix-release/internal/pipeline"
	"github.com/metacall/guix-release/internal/release"
	"golang.org/x/term"
)

// Parsed command line of guix-release.
var RootCmd Root

// Represents the root command of guix-release.
type Root struct {
	Quiet   bool            `short:"q" help:"Suppress informational output."`
	Verbose bool            `short:"v" help:"Include source locations in log records."`
	Debug   bool            `short:"d" help:"Enable debug output."`
	Config  kong.ConfigFlag `help:"Load flag defaults from a JSON file." placeholder:"PATH"`
	Release ReleaseCmd      `cmd:"" default:"withargs" help:"Build architectures and reconcile release metadata."`
	Arches  ArchesCmd       `cmd:"" help:"List the supported architectures."`
	Version VersionCmd      `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd, options(ctx)...)

	configureLogger()

	return kongCtx.Run()
}

// Returns the parser options shared by every invocation.
func options(ctx context.Context) []kong.Option {
	return []kong.Option{
		kong.Name(internal.Name),
		kong.Description("Builds the Guix binary distribution for every architecture and publishes only what changed."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, paths.ConfigFiles()...),
		kong.DefaultEnvars("GUIX_RELEASE"),
		kong.Vars{
			"version":       internal.VersionString(),
			"image":         pipeline.DefaultImage,
			"test_image":    pipeline.DefaultTestImage,
			"download_base": release.DefaultDownloadBase,
			"latest_url":    release.DefaultLatestURL,
			"channels_url":  release.DefaultChannelsURL,
			"install_url":   release.DefaultInstallURL,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	}
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}

	slog.SetDefault(NewLogger(os.Stderr))
}

// Creates a logger writing text records to f at the level implied by the
// runtime modes.
//
// Timestamps are dropped on interactive terminals.
func NewLogger(f *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     internal.LogLevel(),
		AddSource: internal.IsVerbose(),
	}
	if isatty(f) {
		opts.ReplaceAttr = dropTime
	}
	return slog.New(slog.NewTextHandler(f, opts)).WithGroup(internal.Name)
}

// Removes the top-level time attribute from a record.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
