package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCorpusTooSmall signals that a corpus cannot satisfy the configured
	// document-frequency filter. The topic synthesizer retries once on it.
	ErrCorpusTooSmall = errors.New("corpus too small for document-frequency filter")
)
