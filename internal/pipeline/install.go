package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/runtime"
)

// Image registering QEMU user-mode emulators with binfmt_misc.
const qemuImage = "multiarch/qemu-user-static"

// Registers QEMU handlers so images of foreign architectures can run.
//
// The registration runs once per invocation and is not retried.
type installDependency struct {
	env
}

func (s *installDependency) Name() StageKind {
	return InstallDependency
}

func (s *installDependency) Run(ctx context.Context, pc Context, arches []arch.Spec) error {
	if len(arches) == 0 {
		slog.Warn("no architectures to build, skipping dependency installation")
		return nil
	}

	res, err := s.runner.Run(ctx, qemuCommand(pc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDependency, err)
	}
	if !res.Succeeded() {
		return fmt.Errorf("%w: QEMU multiarch exited with code %d\n%s\n%s",
			ErrDependency, res.ExitCode, res.Stdout, res.Stderr)
	}
	return nil
}

// Returns the command registering the QEMU handlers.
func qemuCommand(pc Context) runtime.Command {
	return runtime.Command{
		Name:  pc.Docker,
		Args:  []string{"run", "--rm", "--privileged", qemuImage, "--reset", "-p", "yes"},
		Label: "qemu",
	}
}
