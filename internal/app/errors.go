package app

import (
	"errors"
	"fmt"
)

// Every failure in this package is recoverable: the worst case is loss of
// unsaved in-memory edits when storage is unreachable. Nothing here should
// ever end the running session.
var (
	// ErrNotAuthenticated is returned when an operation needs an active
	// tenant session and there is none.
	ErrNotAuthenticated = errors.New("no active session")

	// ErrReviewNotFound is returned when a reply is requested for an id
	// that is not in the collection.
	ErrReviewNotFound = errors.New("review not found")

	// ErrQuotaExhausted blocks a metered action once the monthly plan limit
	// is reached. The user waits for the period reset or upgrades.
	ErrQuotaExhausted = errors.New("monthly credit quota exhausted")

	// ErrStorageUnavailable reports that the durable store could not be
	// reached. The session keeps operating in memory; edits made while
	// degraded are lost when the process ends.
	ErrStorageUnavailable = errors.New("storage unavailable, operating in memory only")
)

// GenerationError wraps a failed external AI call. Retryable; the review or
// photo involved keeps its previous state.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ParseError wraps a failed raw-text extraction. The caller falls back to the
// empty manual-entry form; the raw input itself is never lost.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse review text: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
