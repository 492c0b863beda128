// Package events records what happened to tracked items: an in-process bus
// with a SQLite activity log behind it.
package events

import (
	"time"

	"github.com/vmunix/watchlist/internal/media"
)

// Event is something that happened to one tracked item.
type Event interface {
	EventType() string
	Key() media.Key
	OccurredAt() time.Time
}

// Header carries the fields every event shares. Embed it.
type Header struct {
	Type string     `json:"type"`
	Kind media.Kind `json:"kind"`
	ID   int64      `json:"id"`
	At   time.Time  `json:"at"`
}

func (h Header) EventType() string     { return h.Type }
func (h Header) Key() media.Key        { return media.Key{ID: h.ID, Kind: h.Kind} }
func (h Header) OccurredAt() time.Time { return h.At }

// NewHeader stamps an event of eventType for the item at key. Times are kept in UTC.
func NewHeader(eventType string, key media.Key, at time.Time) Header {
	return Header{Type: eventType, Kind: key.Kind, ID: key.ID, At: at.UTC()}
}
