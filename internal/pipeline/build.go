package pipeline

import (
	"context"
	"fmt"
	"path"

	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/batch"
	"github.com/metacall/guix-release/internal/runtime"
)

// Path of the cache used by builds that need a tmpfs cache.
const tmpfsCache = "/tmp/.cache"

// Runs the release build container for every architecture concurrently.
//
// Each container writes guix-binary-<version>.<arch>.tar.xz and
// guix-cache-<version>.<arch>.tar.xz into the shared output directory.
// Failed builds are retried once.
type buildStage struct {
	env
}

func (s *buildStage) Name() StageKind {
	return Build
}

func (s *buildStage) Run(ctx context.Context, pc Context, arches []arch.Spec) error {
	tasks := make([]runtime.Command, len(arches))
	for i, a := range arches {
		cmd, err := buildCommand(pc, a)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStage, Build, err)
		}
		tasks[i] = cmd
	}

	if err := batch.ExecuteWithRetry(ctx, s.runner, tasks, s.out()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStage, Build, err)
	}
	return nil
}

// Returns the container invocation building one architecture.
func buildCommand(pc Context, a arch.Spec) (runtime.Command, error) {
	platform, err := a.EnginePlatform()
	if err != nil {
		return runtime.Command{}, err
	}

	args := []string{
		"run", "--rm", "--privileged",
		"--name", "guix-build-" + a.Arch,
		"-v", pc.HostOutput + ":" + pc.ContainerOutput,
		"-v", pc.HostScripts + ":" + pc.ContainerScripts,
	}

	// The build cache breaks on the 32-bit file system of armhf.
	if a.NeedsTmpfsCache() {
		args = append(args,
			"-e", "XDG_CACHE_HOME="+tmpfsCache,
			"--mount", "type=tmpfs,target="+tmpfsCache,
		)
	}

	args = append(args,
		"--platform", platform,
		"-t", pc.Image,
		path.Join(pc.ContainerScripts, "release.sh"), a.Arch, pc.ContainerOutput, pc.Version,
	)

	return runtime.Command{
		Name:    pc.Docker,
		Args:    args,
		Label:   a.Arch,
		Context: a,
	}, nil
}
