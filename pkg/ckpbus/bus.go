package ckpbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/ckpbus/pkg/ckpbus/observability"
	"github.com/randalmurphal/ckpbus/pkg/ckpbus/storage"
)

// DefaultRetention is how many started instants keep their markers.
// One is enough to serve the latest pending instant; the extra instants
// exist for debugging.
const DefaultRetention = 3

// Bus is the checkpoint message bus facade.
//
// A Bus instance is process-local: the coordinator holds one for the write
// side, and each worker holds its own over the same durable directory. The
// directory is the source of truth and survives restarts; the Bus itself only
// keeps the coordinator's instant cache (for retention) and the view loaded
// by the most recent read.
//
// A Bus is not safe for concurrent use. The protocol assumes one logical
// writer thread on the coordinator and independent reader instances on
// workers, so no internal locking is needed; see the package documentation.
type Bus struct {
	store   storage.Adapter
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	retain  int

	// messages is the resolved view from the most recent load. Readers must
	// load before calling IsAborted; loaded tracks that precondition since
	// an empty directory also resolves to a nil slice.
	messages []Message
	loaded   bool

	// cache holds instant ids this coordinator has started, oldest first.
	// Bookkeeping for retention only; readers never consult it.
	cache []string
}

// New creates a bus over the given storage adapter. The adapter remains owned
// by the caller; Bus.Close does not close it.
func New(store storage.Adapter, opts ...Option) *Bus {
	b := &Bus{
		store:   store,
		metrics: observability.NoopMetrics{},
		retain:  DefaultRetention,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// -------------------------------------------------------------------------
//  Write side (coordinator)
// -------------------------------------------------------------------------

// Bootstrap wipes and recreates the durable directory, destroying every
// message on the bus. The coordinator calls it once at pipeline start, before
// any other operation; calling it mid-run destroys in-flight coordination
// state for all workers.
func (b *Bus) Bootstrap() error {
	if err := b.store.Reset(); err != nil {
		return &PersistenceError{Op: "bootstrap", Err: err}
	}
	observability.LogBootstrap(b.logger)
	return nil
}

// StartInstant broadcasts a new inflight instant, then runs retention
// cleanup. The marker is durable before cleanup runs, so cleanup can never
// remove the instant just created.
//
// A returned PersistenceError is fatal to the coordinator: workers cannot
// discover the instant without the marker.
func (b *Bus) StartInstant(instant string) error {
	if err := b.append(instant, StateInflight, "start"); err != nil {
		return err
	}
	b.cache = append(b.cache, instant)
	b.clean()
	return nil
}

// CommitInstant broadcasts that an instant completed. The instant is assumed
// inflight but not validated: writing a terminal marker for an unknown
// instant is accepted so retry paths stay idempotent.
func (b *Bus) CommitInstant(instant string) error {
	return b.append(instant, StateCompleted, "commit")
}

// AbortInstant broadcasts that an instant was aborted. Readers treat aborted
// instants as still pending, because the coordinator may reuse the id for a
// retry.
func (b *Bus) AbortInstant(instant string) error {
	return b.append(instant, StateAborted, "abort")
}

// append writes one marker. An already-existing marker is a benign duplicate
// from a retried writer, not an error.
func (b *Bus) append(instant string, state State, op string) error {
	created, err := b.store.CreateIfAbsent(Message{Instant: instant, State: state}.FileName())
	b.metrics.RecordAppend(context.Background(), state.String(), err)
	if err != nil {
		return &PersistenceError{Op: op, Instant: instant, Err: err}
	}
	if created {
		observability.LogInstantTransition(b.logger, op, instant)
	} else {
		observability.LogDuplicateMarker(b.logger, instant, state.String())
	}
	return nil
}

// clean enforces bounded retention: once more instants are tracked than the
// retained limit, the oldest instant's markers are deleted across all states.
// If any delete fails the instant stays at the front of the cache and cleanup
// is retried on the next StartInstant, so the bus never loses track of
// orphaned markers. Failures are logged, never surfaced to the caller.
func (b *Bus) clean() {
	if len(b.cache) <= b.retain {
		return
	}
	oldest := b.cache[0]
	failed := false
	for _, name := range allFileNames(oldest) {
		if err := b.store.Delete(name); err != nil {
			failed = true
			observability.LogCleanupError(b.logger, oldest, name, err)
		}
	}
	b.metrics.RecordCleanup(context.Background(), !failed)
	if !failed {
		b.cache = b.cache[1:]
		observability.LogCleanup(b.logger, oldest)
	}
}

// -------------------------------------------------------------------------
//  Read side (workers)
// -------------------------------------------------------------------------

// LastPendingInstant returns the id of the most recent instant whose resolved
// state is not completed (inflight or aborted), or "" when every known
// instant completed. It always re-scans the directory: this is the worker's
// primary coordination signal and must reflect the latest coordinator writes.
func (b *Bus) LastPendingInstant() (string, error) {
	msgs, err := b.load()
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "", nil
	}
	last := msgs[len(msgs)-1]
	if last.State == StateCompleted {
		return "", nil
	}
	return last.Instant, nil
}

// Messages re-scans the directory and returns the resolved view: one message
// per instant at its highest-ranked state, sorted ascending by instant id.
func (b *Bus) Messages() ([]Message, error) {
	return b.load()
}

// IsAborted reports whether the resolved state of an instant is aborted, as
// of the most recent Messages or LastPendingInstant call. Calling it without
// a prior load in this session is a caller bug and returns ErrNotLoaded.
func (b *Bus) IsAborted(instant string) (bool, error) {
	if !b.loaded {
		return false, ErrNotLoaded
	}
	for _, m := range b.messages {
		if m.Instant == instant && m.State == StateAborted {
			return true, nil
		}
	}
	return false, nil
}

// load scans the directory and rebuilds the resolved view. The view is never
// cached across reads; the store is the source of truth.
func (b *Bus) load() ([]Message, error) {
	start := time.Now()
	msgs, err := b.scan()
	elapsed := time.Since(start)
	b.metrics.RecordScan(context.Background(), elapsed, len(msgs), err)
	if err != nil {
		return nil, &PersistenceError{Op: "scan", Err: err}
	}
	observability.LogScan(b.logger, len(msgs), float64(elapsed.Milliseconds()))
	b.messages = msgs
	b.loaded = true
	return msgs, nil
}

// scan lists the directory and decodes its entries. A missing directory means
// a worker raced bootstrap and sees no messages, not an error. Entries that
// do not decode are stray artifacts and are skipped.
func (b *Bus) scan() ([]Message, error) {
	ok, err := b.store.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	names, err := b.store.List()
	if err != nil {
		return nil, err
	}
	raw := make([]Message, 0, len(names))
	for _, name := range names {
		msg, ok := ParseFileName(name)
		if !ok {
			observability.LogStrayEntry(b.logger, name)
			continue
		}
		raw = append(raw, msg)
	}
	return Reduce(raw), nil
}

// -------------------------------------------------------------------------
//  Lifecycle
// -------------------------------------------------------------------------

// Close drops the in-memory instant cache. It never touches durable state and
// does not close the storage adapter.
func (b *Bus) Close() error {
	b.cache = nil
	return nil
}

// InstantCache returns a copy of the coordinator's tracked instant ids,
// oldest first. Useful for testing retention behavior.
func (b *Bus) InstantCache() []string {
	return append([]string(nil), b.cache...)
}
