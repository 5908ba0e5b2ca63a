package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/metacall/guix-release/internal/release"
	"github.com/metacall/guix-release/internal/runtime"
)

// Runs plans.
type Driver struct {
	Runner       runtime.Runner   // Runs container commands.
	Fetcher      *release.Fetcher // Retrieves remote release data.
	DownloadBase string           // Base of new download URLs. Empty uses the default.
	Hash         release.HashFunc // Artifact digest function. Nil uses SHA-256 of the file.
	Report       io.Writer        // Receives batch reports. Nil uses stdout.
}

// Returns the stage implementations for kinds, in order.
func (d *Driver) Stages(kinds []StageKind) ([]Stage, error) {
	e := env{
		runner:       d.Runner,
		fetcher:      d.Fetcher,
		downloadBase: d.DownloadBase,
		hash:         d.Hash,
		report:       d.Report,
	}

	stages := make([]Stage, len(kinds))
	for i, kind := range kinds {
		switch kind {
		case InstallDependency:
			stages[i] = &installDependency{e}
		case Build:
			stages[i] = &buildStage{e}
		case DockerTest:
			stages[i] = &dockerTestStage{e}
		case ReconcileMetadata:
			stages[i] = &metadataStage{e}
		case SkipMetadata:
			stages[i] = skipMetadata{}
		default:
			return nil, fmt.Errorf("%w: unknown stage %q", ErrPlan, kind)
		}
	}
	return stages, nil
}

// Runs the stages of plan in order over pc.
//
// The first failing stage aborts the run. A stage returning [ErrHalt] ends
// the run early with success.
func (d *Driver) Run(ctx context.Context, pc Context, plan Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	stages, err := d.Stages(plan.Stages)
	if err != nil {
		return err
	}

	if err := run(ctx, pc, plan, stages); err != nil {
		return err
	}

	if plan.Has(ReconcileMetadata) {
		slog.Info("release ready", "path", pc.ReleaseDir, "version", pc.Version)
	}
	return nil
}

// Runs already resolved stages.
func run(ctx context.Context, pc Context, plan Plan, stages []Stage) error {
	for i, stage := range stages {
		slog.Info(fmt.Sprintf("running stage %s", stage.Name()),
			"stage", i+1,
			"of", len(stages),
			"version", pc.Version,
		)

		err := stage.Run(ctx, pc, plan.Architectures)
		if errors.Is(err, ErrHalt) {
			slog.Info("skipping metadata generation", "stage", stage.Name())
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
