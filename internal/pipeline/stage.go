package pipeline

import (
	"context"
	"io"
	"os"

	"github.com/metacall/guix-release/internal/arch"
	"github.com/metacall/guix-release/internal/release"
	"github.com/metacall/guix-release/internal/runtime"
)

// One sequential phase of a run.
type Stage interface {
	Name() StageKind
	Run(ctx context.Context, pc Context, arches []arch.Spec) error
}

// Dependencies shared by the stage implementations.
type env struct {
	runner       runtime.Runner
	fetcher      *release.Fetcher
	downloadBase string
	hash         release.HashFunc
	report       io.Writer
}

func (e env) out() io.Writer {
	if e.report == nil {
		return os.Stdout
	}
	return e.report
}
