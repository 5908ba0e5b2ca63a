package pipeline

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/metacall/guix-release/internal/paths"
	"github.com/metacall/guix-release/internal/release"
)

const (

	// Default image running the release build script.
	DefaultImage = "metacall/guix"

	// Default repository of the per-architecture test images.
	DefaultTestImage = "metacall/guix-test"

	// Mount points of the host directories inside build containers.
	DefaultContainerOutput  = "/output"
	DefaultContainerScripts = "/scripts"
)

// Settings shared by every stage of a run.
//
// A Context is created once per invocation and passed by value; stages never
// modify it.
type Context struct {
	Root             string // Project root; holds the Dockerfile of the test image.
	ReleaseDir       string // Directory receiving the finished release files.
	Version          string // Release version, e.g. "20250131".
	HostOutput       string // Host directory receiving build artifacts.
	ContainerOutput  string // Where HostOutput is mounted in build containers.
	HostScripts      string // Host directory holding the build scripts.
	ContainerScripts string // Where HostScripts is mounted in build containers.
	Docker           string // Container engine executable.
	Image            string // Image running the release build.
	TestImage        string // Repository of the test images.
}

// Options for [NewContext]. Empty fields take defaults relative to Root.
type Options struct {
	Root       string
	ReleaseDir string
	Output     string
	Scripts    string
	Docker     string
	Image      string
	TestImage  string
}

// Prepares the release and output directories and defines the version.
//
// The version is read from, or written to, the VERSION file of the release
// directory, so concurrent partial invocations agree on it.
func NewContext(opts Options, now time.Time) (Context, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return Context{}, err
	}

	pc := Context{
		Root:             root,
		ReleaseDir:       absOr(opts.ReleaseDir, paths.Release(root)),
		HostOutput:       absOr(opts.Output, paths.Output(root)),
		ContainerOutput:  DefaultContainerOutput,
		HostScripts:      absOr(opts.Scripts, paths.Scripts(root)),
		ContainerScripts: DefaultContainerScripts,
		Docker:           cmp.Or(opts.Docker, "docker"),
		Image:            cmp.Or(opts.Image, DefaultImage),
		TestImage:        cmp.Or(opts.TestImage, DefaultTestImage),
	}

	for _, dir := range []string{pc.ReleaseDir, pc.HostOutput} {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return Context{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	pc.Version, err = release.DefineVersion(pc.ReleaseDir, now, paths.DefaultFileMode)
	if err != nil {
		return Context{}, err
	}

	return pc, nil
}

// Returns p made absolute, or def if p is empty.
func absOr(p, def string) string {
	if p == "" {
		return def
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
