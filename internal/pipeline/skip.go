package pipeline

import (
	"context"

	"github.com/metacall/guix-release/internal/arch"
)

// Ends the run successfully without generating metadata.
type skipMetadata struct{}

func (skipMetadata) Name() StageKind {
	return SkipMetadata
}

func (skipMetadata) Run(context.Context, Context, []arch.Spec) error {
	return ErrHalt
}
