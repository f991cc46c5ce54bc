// Package storage abstracts the durable directory that backs a checkpoint bus.
//
// An Adapter exposes the minimal capability set the bus needs from a durable
// store: atomic create-if-absent, list, delete, and existence checks against a
// single directory of zero-byte marker entries. Nothing beyond per-entry
// atomicity is assumed; in particular no multi-entry transaction is required,
// so any key-existence store (local disk, object store, embedded database,
// in-memory map) can satisfy the contract.
package storage

import "errors"

// Adapter is the durable-store capability consumed by the checkpoint bus.
// Each Adapter instance is bound to one directory.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// CreateIfAbsent atomically creates an empty entry with the given name.
	// Returns false if the entry already exists; that is not an error.
	CreateIfAbsent(name string) (bool, error)

	// List returns the names of all entries in the directory.
	// Returns an empty slice (not an error) if the directory does not exist.
	List() ([]string, error)

	// Delete removes one entry. Deleting an absent entry returns nil.
	Delete(name string) error

	// Exists reports whether the directory itself exists.
	Exists() (bool, error)

	// Reset deletes the directory with all its entries and recreates it
	// empty. Used by the bus bootstrap; destroys coordination state.
	Reset() error

	// Close releases process-local resources (handles, connections).
	// It never touches durable state.
	Close() error
}

// ErrClosed indicates an operation on a closed adapter.
var ErrClosed = errors.New("storage adapter closed")
