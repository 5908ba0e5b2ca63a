package batch

import "errors"

var (
	ErrBatchFailed = errors.New("batch failed")
	ErrTaskFailed  = errors.New("task failed")
)
