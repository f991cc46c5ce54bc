// Package watch wraps the checkpoint bus's observe-current-state reads in a
// polling loop for workers that want "wait until a pending instant appears"
// semantics.
//
// The bus itself never waits: it reports the state of the durable directory
// at call time. Workers that need to block on the next pending instant either
// call WaitForPending with a context deadline, or run a Watcher and consume
// change notifications from a subscription channel.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/ckpbus/pkg/ckpbus/observability"
)

// Source is the read surface the poller needs from a bus.
// *ckpbus.Bus satisfies it.
type Source interface {
	// LastPendingInstant returns the most recent non-completed instant id,
	// or "" when there is none.
	LastPendingInstant() (string, error)
}

// DefaultInterval is the default polling cadence.
const DefaultInterval = 500 * time.Millisecond

// DefaultBufferSize is the default per-subscription channel buffer.
const DefaultBufferSize = 16

// Config configures a Watcher.
type Config struct {
	// Interval is the polling cadence. Default: DefaultInterval.
	Interval time.Duration

	// BufferSize is the channel buffer per subscription.
	// Default: DefaultBufferSize.
	BufferSize int

	// OnDrop is called when a notification is dropped because a
	// subscriber's buffer is full. Delivery is always non-blocking.
	OnDrop func(subscriberID, instant string)

	// Logger receives poll-cycle logging. Optional.
	Logger *slog.Logger
}

// Watcher polls a Source and fans out pending-instant changes to
// subscribers.
type Watcher struct {
	src    Source
	config Config

	mu   sync.RWMutex
	subs map[string]chan string
	last string
}

// New creates a watcher over the given source.
func New(src Source, config Config) *Watcher {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	return &Watcher{
		src:    src,
		config: config,
		subs:   make(map[string]chan string),
	}
}

// Subscription is an active subscription to pending-instant changes.
type Subscription struct {
	// ID identifies the subscriber in OnDrop callbacks.
	ID string

	// C delivers the id of each newly observed pending instant.
	C <-chan string

	w *Watcher
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	if ch, ok := s.w.subs[s.ID]; ok {
		delete(s.w.subs, s.ID)
		close(ch)
	}
}

// Subscribe registers a new subscriber. Notifications carry the instant id of
// each newly observed pending instant.
func (w *Watcher) Subscribe() *Subscription {
	ch := make(chan string, w.config.BufferSize)
	id := "sub-" + uuid.New().String()[:8]

	w.mu.Lock()
	w.subs[id] = ch
	w.mu.Unlock()

	return &Subscription{ID: id, C: ch, w: w}
}

// Run polls the source until the context is done, notifying subscribers
// whenever the pending instant changes. A storage failure stops the loop and
// is returned: a worker that cannot reach the durable store cannot make
// progress and must surface that upward.
//
// Returns nil when the context ends.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				return err
			}
		}
	}
}

// poll runs one poll cycle.
func (w *Watcher) poll(ctx context.Context) error {
	instant, err := w.src.LastPendingInstant()
	if err != nil {
		if w.config.Logger != nil {
			w.config.Logger.Error("pending instant poll failed",
				slog.String("error", err.Error()))
		}
		return err
	}
	if instant == "" || instant == w.last {
		w.last = instant
		return nil
	}
	w.last = instant

	_, span := observability.StartOpSpan(ctx, "notify", instant)
	w.notify(instant)
	observability.EndSpanWithError(span, nil)
	return nil
}

// notify fans the new pending instant out to all subscribers without
// blocking. Full buffers drop the notification; the subscriber catches up on
// its next receive since later notifications supersede earlier ones.
func (w *Watcher) notify(instant string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for id, ch := range w.subs {
		select {
		case ch <- instant:
		default:
			if w.config.OnDrop != nil {
				w.config.OnDrop(id, instant)
			}
		}
	}
	if w.config.Logger != nil {
		w.config.Logger.Debug("pending instant changed",
			slog.String("instant", instant),
			slog.Int("subscribers", len(w.subs)),
		)
	}
}

// WaitForPending polls the source at the given interval until a pending
// instant appears, the source fails, or the context is done. The first poll
// happens immediately.
func WaitForPending(ctx context.Context, src Source, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		instant, err := src.LastPendingInstant()
		if err != nil {
			return "", err
		}
		if instant != "" {
			return instant, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
}
