package ckpbus

import "strings"

// State is the lifecycle state of an instant as recorded by one marker.
//
// Declaration order is the resolution order: when markers for several states
// of one instant coexist (cleanup lag, crash between write and delete), the
// highest-declared state wins. Do not reorder.
type State int

// Instant lifecycle states.
const (
	// StateInflight marks an instant the coordinator has started.
	StateInflight State = iota

	// StateAborted marks an instant the coordinator gave up on. Aborted
	// instants are still "pending" to readers: the coordinator may reuse
	// the instant id for a retry.
	StateAborted

	// StateCompleted marks a committed instant. Terminal.
	StateCompleted
)

// allStates lists every state in resolution order. Kept in sync with the
// constants above; used when enumerating an instant's possible marker names.
var allStates = []State{StateInflight, StateAborted, StateCompleted}

// String returns the wire token for the state. Tokens are part of the marker
// name format and must stay stable across versions.
func (s State) String() string {
	switch s {
	case StateInflight:
		return "inflight"
	case StateAborted:
		return "aborted"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ParseState decodes a wire token. Returns false for anything that is not a
// known state token.
func ParseState(token string) (State, bool) {
	switch token {
	case "inflight":
		return StateInflight, true
	case "aborted":
		return StateAborted, true
	case "completed":
		return StateCompleted, true
	default:
		return 0, false
	}
}

// Message is one (instant, state) checkpoint signal. Messages are immutable
// values; existence of the corresponding marker is the whole payload.
type Message struct {
	Instant string
	State   State
}

// FileName encodes the message as a marker entry name: "<instant>.<state>".
// The encoding is injective: distinct messages never collide, and
// ParseFileName inverts it exactly.
func (m Message) FileName() string {
	return m.Instant + "." + m.State.String()
}

// ParseFileName decodes a marker entry name back into a message. Returns
// false for any name not produced by FileName, so scans can skip stray or
// debug artifacts in the directory instead of failing.
func ParseFileName(name string) (Message, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return Message{}, false
	}
	state, ok := ParseState(name[idx+1:])
	if !ok {
		return Message{}, false
	}
	return Message{Instant: name[:idx], State: state}, true
}

// allFileNames returns the marker names an instant may have, one per state.
// Retention cleanup must remove leftovers of every state.
func allFileNames(instant string) []string {
	names := make([]string, 0, len(allStates))
	for _, state := range allStates {
		names = append(names, Message{Instant: instant, State: state}.FileName())
	}
	return names
}
