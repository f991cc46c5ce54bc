/*
Package ckpbus is a durable, directory-backed message bus that coordinates
checkpoint lifecycle between one coordinator and many worker processes in a
streaming ingestion pipeline.

# Overview

The coordinator starts, commits, and aborts logical units of work called
instants. Each lifecycle transition is broadcast by creating a zero-byte
marker entry in a shared durable directory; workers poll the directory to
discover the current pending instant and whether a prior instant was aborted,
so they can gate their buffered writes.

The bus deliberately avoids the stream engine's in-band control-event channel:
that channel shares a single-threaded queue with data processing, so a worker
blocked waiting for a control event can deadlock under backpressure. A shared
durable store breaks the cycle at the cost of weaker delivery (polling instead
of push, eventual visibility instead of synchronous delivery).

# Basic Usage

The coordinator owns the write side:

	store := storage.NewLocalDir("/data/pipeline/.aux/ckp_meta")
	bus := ckpbus.New(store)

	if err := bus.Bootstrap(); err != nil {
	    log.Fatal(err)
	}
	if err := bus.StartInstant("20260824093000"); err != nil {
	    log.Fatal(err)
	}
	// ... checkpoint completes ...
	if err := bus.CommitInstant("20260824093000"); err != nil {
	    log.Fatal(err)
	}

Each worker creates its own bus over the same directory and polls:

	instant, err := bus.LastPendingInstant()

Writes are visible to a worker's next scan once the storage create returns;
there is no push notification. The watch subpackage wraps the polling loop for
callers that want "wait until pending" semantics.

# Consistency

One logical writer, many readers. The durable directory is the only source of
truth; the bus caches nothing across reader queries except the view loaded by
the most recent call, and the coordinator-side instant cache drives retention
only, never correctness.
*/
package ckpbus
