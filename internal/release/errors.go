package release

import "errors"

var (
	ErrFetch     = errors.New("fetch failed")
	ErrVersion   = errors.New("failed to define version")
	ErrReconcile = errors.New("reconciliation failed")
	ErrFinalize  = errors.New("failed to finalize release")
	ErrFinalized = errors.New("release files already finalized")
)
