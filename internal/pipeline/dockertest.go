package pipeline

import (
	"context"
	"fmt"

	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/batch"
	"github.com/metacall/guix-release/internal/runtime"
)

// Builds the test image of every architecture concurrently.
//
// The Dockerfile at the project root builds Guix inside the image and runs
// its checks, so a successful image build is a passing test. Failed builds
// are retried once. Nothing is published.
type dockerTestStage struct {
	env
}

func (s *dockerTestStage) Name() StageKind {
	return DockerTest
}

func (s *dockerTestStage) Run(ctx context.Context, pc Context, arches []arch.Spec) error {
	tasks := make([]runtime.Command, len(arches))
	for i, a := range arches {
		cmd, err := dockerTestCommand(pc, a)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStage, DockerTest, err)
		}
		tasks[i] = cmd
	}

	if err := batch.ExecuteWithRetry(ctx, s.runner, tasks, s.out()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStage, DockerTest, err)
	}
	return nil
}

// Returns the image build of one architecture.
func dockerTestCommand(pc Context, a arch.Spec) (runtime.Command, error) {
	platform, err := a.EnginePlatform()
	if err != nil {
		return runtime.Command{}, err
	}

	return runtime.Command{
		Name: pc.Docker,
		Args: []string{
			"build",
			"--platform", platform,
			"--build-arg", "GUIX_ARCH=" + a.Arch,
			"--build-arg", "GUIX_VERSION=" + pc.Version,
			"-t", pc.TestImage + ":" + a.Arch,
			pc.Root,
		},
		Label:   a.Arch,
		Context: a,
	}, nil
}
