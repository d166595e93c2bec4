package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Ownership failures are folded into the not-found errors so that callers
// cannot probe for the existence of other accounts' records.

var (
	// Validation errors — rejected before any state mutation
	ErrInvalidDuration = errors.New("duration must be between 1 and 120 minutes")
	ErrInvalidKind     = errors.New("kind must be work, break or long_break")
	ErrInvalidEstimate = errors.New("estimated intervals must be between 1 and 20")
	ErrEmptyTitle      = errors.New("task title must not be empty")

	// Not-found errors
	ErrAccountNotFound = errors.New("account not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrTaskNotFound    = errors.New("task not found")

	// Conflict errors
	ErrSessionCompleted = errors.New("session already completed")
	ErrAccountExists    = errors.New("account already exists")
)
