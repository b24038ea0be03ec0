package domain

import "errors"

// Sentinel errors shared by stores and services. Callers classify with
// errors.Is; stores wrap them with context via fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound: a direct id or name lookup matched nothing. Search
	// misses return empty slices, not this error.
	ErrNotFound = errors.New("not found")

	// ErrValidation: malformed input (dates, email, phone, bounds).
	// Raised before any store mutation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict: a confirmed booking overlaps the requested stay.
	// State is unchanged when this is returned.
	ErrConflict = errors.New("booking conflict")

	// ErrTransient: connectivity/timeout; safe for the caller to retry.
	ErrTransient = errors.New("transient store error")

	// ErrInvariant: a consistency rule the engine guarantees was found
	// broken (e.g. negative total). Always logged, never swallowed.
	ErrInvariant = errors.New("invariant violation")
)
