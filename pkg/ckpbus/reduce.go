package ckpbus

import "sort"

// Reduce resolves a raw marker set to one message per instant.
//
// Markers are grouped by instant id and each group collapses to its
// highest-ranked state (duplicate markers of the same state are a no-op).
// The result is sorted ascending by instant id; instant ids are
// monotonically comparable strings, so the last entry is the most recent
// instant. LastPendingInstant depends on that ordering.
//
// Reduce is pure: it never touches storage and has no side effects.
func Reduce(msgs []Message) []Message {
	if len(msgs) == 0 {
		return nil
	}

	resolved := make(map[string]State, len(msgs))
	for _, m := range msgs {
		if state, ok := resolved[m.Instant]; !ok || m.State > state {
			resolved[m.Instant] = m.State
		}
	}

	out := make([]Message, 0, len(resolved))
	for instant, state := range resolved {
		out = append(out, Message{Instant: instant, State: state})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Instant < out[j].Instant
	})
	return out
}
