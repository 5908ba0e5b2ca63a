package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/metacall/guix-release/internal/pipeline"
	"github.com/metacall/guix-release/internal/release"
	"github.com/metacall/guix-release/internal/runtime"
)

// Represents the 'guix-release release' command, also run when no
// subcommand is given.
type ReleaseCmd struct {
	Targets      []string `arg:"" optional:"" help:"'all', 'docker', or architectures to build. Empty reconciles metadata only."`
	Root         string   `type:"path" default:"." help:"Project root holding the scripts and Dockerfile."`
	ReleaseDir   string   `type:"path" help:"Release staging directory. Defaults to <root>/.release."`
	Output       string   `type:"path" help:"Build output directory. Defaults to <root>/out."`
	Scripts      string   `type:"path" help:"Build scripts directory. Defaults to <root>/scripts."`
	Docker       string   `default:"docker" help:"Container engine executable."`
	Image        string   `default:"${image}" help:"Image running the release build."`
	TestImage    string   `default:"${test_image}" help:"Repository of the per-architecture test images."`
	DownloadBase string   `default:"${download_base}" help:"Base URL of release downloads."`
	LatestURL    string   `name:"latest-url" default:"${latest_url}" help:"Page redirecting to the latest release."`
	ChannelsURL  string   `name:"channels-url" default:"${channels_url}" hidden:""`
	InstallURL   string   `name:"install-url" default:"${install_url}" hidden:""`
	DryRun       bool     `help:"Print the plan and exit."`
}

// Executes the release command.
func (c *ReleaseCmd) Run(ctx context.Context) error {
	plan := pipeline.Select(c.Targets)

	if c.DryRun {
		fmt.Println(plan)
		return nil
	}

	pc, err := pipeline.NewContext(pipeline.Options{
		Root:       c.Root,
		ReleaseDir: c.ReleaseDir,
		Output:     c.Output,
		Scripts:    c.Scripts,
		Docker:     c.Docker,
		Image:      c.Image,
		TestImage:  c.TestImage,
	}, time.Now())
	if err != nil {
		return err
	}

	slog.Info("starting release",
		"version", pc.Version,
		"plan", plan.String(),
		"output", pc.HostOutput,
		"release", pc.ReleaseDir,
	)

	d := &pipeline.Driver{
		Runner: runtime.Exec{},
		Fetcher: &release.Fetcher{
			LatestURL:   c.LatestURL,
			ChannelsURL: c.ChannelsURL,
			InstallURL:  c.InstallURL,
		},
		DownloadBase: c.DownloadBase,
		Report:       os.Stdout,
	}

	return d.Run(ctx, pc, plan)
}
