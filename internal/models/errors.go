package models

import "errors"

// Shared error taxonomy. Repositories translate driver errors into these so
// callers can decide whether a failure is retryable without inspecting
// vendor-specific error types.
var (
	// ErrStoreUnavailable marks a transient store failure; safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrConflictRetryExceeded marks a transactional read-modify-write that
	// could not commit after its allotted retries due to contention.
	ErrConflictRetryExceeded = errors.New("transaction conflict retries exceeded")

	// ErrInvalidState marks a logic error (e.g. starting an already-active
	// challenge). Not retryable.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
)
