package manifest

import "errors"

var (
	ErrMissingBinary = errors.New("no binary entry for architecture")
	ErrIncomplete    = errors.New("manifest is incomplete")
	ErrDecode        = errors.New("failed to decode manifest")
)
