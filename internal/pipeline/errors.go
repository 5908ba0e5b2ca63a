package pipeline

import "errors"

var (
	ErrHalt       = errors.New("pipeline halted")
	ErrPlan       = errors.New("invalid plan")
	ErrDependency = errors.New("failed to install dependency")
	ErrStage      = errors.New("stage failed")
	ErrMetadata   = errors.New("metadata generation failed")
)
