package pipeline

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/metacall/guix-release/internal/arch"
)

// Identifies a pipeline stage.
type StageKind string

const (
	InstallDependency StageKind = "install-dependency"
	Build             StageKind = "build"
	DockerTest        StageKind = "build-and-test-container-image"
	ReconcileMetadata StageKind = "reconcile-metadata"
	SkipMetadata      StageKind = "skip-metadata"
)

const (

	// Target selecting a full build and metadata generation.
	TargetAll = "all"

	// Target selecting a build and test of the container images.
	TargetDocker = "docker"
)

// What a run processes: the architectures and the ordered stages.
type Plan struct {
	Architectures []arch.Spec
	Stages        []StageKind
}

// Chooses architectures and stages from the command-line targets.
//
//	(none)          full matrix, reconcile-metadata only (artifacts already built)
//	all             full matrix, install-dependency, build, reconcile-metadata
//	docker          full matrix, install-dependency, build-and-test-container-image
//	<arch>...       named architectures, install-dependency, build, skip-metadata
//
// Unknown architecture names are dropped. Select has no side effects besides
// logging and always returns the same plan for the same targets.
func Select(targets []string) Plan {
	switch {
	case len(targets) == 0:
		slog.Info("no architecture given, only metadata will be generated")
		return Plan{
			Architectures: arch.Matrix(),
			Stages:        []StageKind{ReconcileMetadata},
		}

	case len(targets) == 1 && targets[0] == TargetAll:
		slog.Info("all architectures selected, images and metadata will be generated")
		return Plan{
			Architectures: arch.Matrix(),
			Stages:        []StageKind{InstallDependency, Build, ReconcileMetadata},
		}

	case len(targets) == 1 && targets[0] == TargetDocker:
		slog.Info("all architectures selected, container images will be built and tested")
		return Plan{
			Architectures: arch.Matrix(),
			Stages:        []StageKind{InstallDependency, DockerTest},
		}
	}

	selected := arch.Filter(targets)
	if unknown := unknownTargets(targets); len(unknown) > 0 {
		slog.Warn("ignoring unknown architectures", "unknown", unknown, "selected", arch.IDs(selected))
	}
	slog.Info("architectures selected, only images will be generated without metadata",
		"architectures", strings.Join(arch.IDs(selected), ", "))

	return Plan{
		Architectures: selected,
		Stages:        []StageKind{InstallDependency, Build, SkipMetadata},
	}
}

// Returns the targets naming no architecture, without duplicates.
func unknownTargets(targets []string) []string {
	var unknown []string
	for _, t := range targets {
		if _, ok := arch.Lookup(t); !ok && !slices.Contains(unknown, t) {
			unknown = append(unknown, t)
		}
	}
	return unknown
}

// Checks the ordering constraints between stages.
//
// install-dependency must precede any stage that runs containers, a stage
// may appear once, and reconcile-metadata or skip-metadata, when present,
// must be last.
func (p Plan) Validate() error {
	seen := make(map[StageKind]bool, len(p.Stages))

	for i, kind := range p.Stages {
		if seen[kind] {
			return fmt.Errorf("%w: %s appears twice", ErrPlan, kind)
		}
		seen[kind] = true

		switch kind {
		case Build, DockerTest:
			if !seen[InstallDependency] {
				return fmt.Errorf("%w: %s requires %s first", ErrPlan, kind, InstallDependency)
			}
		case ReconcileMetadata, SkipMetadata:
			if i != len(p.Stages)-1 {
				return fmt.Errorf("%w: %s must be the last stage", ErrPlan, kind)
			}
		case InstallDependency:
		default:
			return fmt.Errorf("%w: unknown stage %q", ErrPlan, kind)
		}
	}
	return nil
}

// Whether the plan includes the given stage.
func (p Plan) Has(kind StageKind) bool {
	return slices.Contains(p.Stages, kind)
}

// Returns a one-line description, e.g.
// "x86_64-linux, i686-linux: install-dependency -> build -> skip-metadata".
func (p Plan) String() string {
	stages := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		stages[i] = string(s)
	}
	ids := arch.IDs(p.Architectures)
	if len(ids) == 0 {
		ids = []string{"(no architectures)"}
	}
	return strings.Join(ids, ", ") + ": " + strings.Join(stages, " -> ")
}
