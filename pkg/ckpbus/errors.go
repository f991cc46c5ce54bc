package ckpbus

import (
	"errors"
	"fmt"
)

// Sentinel errors for bus usage.
var (
	// ErrNotLoaded indicates IsAborted was called before any Messages or
	// LastPendingInstant call loaded the resolved view. Caller bug, not
	// retriable.
	ErrNotLoaded = errors.New("checkpoint messages not loaded")
)

// PersistenceError wraps a storage failure on the bus's read or write path.
//
// Write-path persistence errors are fatal to the coordinator: it cannot
// proceed without durable confirmation that workers will see the new instant.
// Retry policy belongs to the caller; the bus never retries internally.
type PersistenceError struct {
	// Op is the bus operation that failed ("start", "commit", "abort", "scan", "bootstrap").
	Op string

	// Instant is the affected instant id, if the operation targets one.
	Instant string

	// Err is the underlying storage error.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	if e.Instant != "" {
		return fmt.Sprintf("checkpoint %s failed for instant %s: %s", e.Op, e.Instant, e.Err)
	}
	return fmt.Sprintf("checkpoint %s failed: %s", e.Op, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
