package types

import "errors"

// Common errors
var (
	ErrAPINotFound      = errors.New("rest api not found")
	ErrStageNotFound    = errors.New("stage not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrMethodNotFound   = errors.New("method not found")
	ErrUnauthorized     = errors.New("not authorized")
	ErrQueryTimeout     = errors.New("logs insights query timed out")
	ErrQueryFailed      = errors.New("logs insights query failed")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
)
