package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references a nonexistent request.
	ErrNotFound = errors.New("request not found")

	// ErrMissingField is returned when creation or a type-gated action lacks a
	// required field. Nothing is written when it fires.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidTransition is returned for an unknown target status or for any
	// movement out of a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ErrCascadePrecondition specializes ErrMissingField for gated completions:
// the request cannot enter its completing status because the metadata the
// downstream cascade depends on is absent. errors.Is matches ErrMissingField.
var ErrCascadePrecondition = fmt.Errorf("cascade precondition unmet: %w", ErrMissingField)
