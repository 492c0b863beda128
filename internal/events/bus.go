package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vmunix/watchlist/internal/media"
)

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Filter selects which events a subscriber receives. Empty fields match anything.
type Filter struct {
	Types []string
	Key   media.Key
}

func (f Filter) matches(e Event) bool {
	if f.Key != (media.Key{}) && f.Key != e.Key() {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == e.EventType() {
			return true
		}
	}
	return false
}

type subscription struct {
	filter Filter
	ch     chan Event
}

// Bus appends events to the log and fans them out to subscribers.
type Bus struct {
	log    *EventLog // nil disables persistence
	logger *slog.Logger

	mu      sync.RWMutex
	subs    []subscription
	closed  bool
	dropped atomic.Int64
}

// NewBus creates a bus writing to log.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{log: log, logger: logger.With("component", "events")}
}

// Publish appends e to the log and offers it to every matching subscriber.
// A subscriber whose buffer is full misses the event. Subscribers still get
// the event when the log write fails; that error is returned.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	var err error
	if b.log != nil {
		_, err = b.log.Append(ctx, e)
	}

	for _, sub := range b.subs {
		if !sub.filter.matches(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber full, event dropped", "type", e.EventType(), "key", e.Key())
		}
	}
	return err
}

// Subscribe returns a channel receiving the events f selects.
func (b *Bus) Subscribe(f Filter, buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, subscription{filter: f, ch: ch})
	return ch
}

// Unsubscribe closes ch and stops delivery to it.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.ch == ch {
			close(sub.ch)
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Dropped counts deliveries skipped because a subscriber was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	return nil
}
