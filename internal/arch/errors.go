package arch

import "errors"

var (
	ErrPlatform = errors.New("invalid platform")
)
