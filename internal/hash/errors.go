package hash

import "errors"

var (
	ErrArtifactMissing = errors.New("artifact missing")
	ErrHash            = errors.New("failed to hash artifact")
)
