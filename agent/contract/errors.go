package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrConfiguration   = errors.New("invalid configuration")

	// ErrNestedCallLimit is the only failure Route returns as an error.
	ErrNestedCallLimit = errors.New("too many nested tool calls")
)
