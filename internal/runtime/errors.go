package runtime

import "errors"

var (
	ErrSpawn = errors.New("failed to start process")
)
