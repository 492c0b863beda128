package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/watchlist/internal/media"
)

// noteEvent is an event type this package does not define.
type noteEvent struct {
	Header
	Note string `json:"note"`
}

var (
	inceptionKey = media.Key{ID: 27205, Kind: media.KindMovie}
	thronesKey   = media.Key{ID: 1399, Kind: media.KindSeries}
)

func note(typ string, key media.Key, at time.Time) *noteEvent {
	return &noteEvent{Header: NewHeader(typ, key, at)}
}

func TestHeader(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	h := NewHeader(EventItemMoved, thronesKey, at)

	assert.Equal(t, EventItemMoved, h.EventType())
	assert.Equal(t, thronesKey, h.Key())
	assert.Equal(t, time.UTC, h.OccurredAt().Location())
	assert.True(t, at.Equal(h.OccurredAt()))
}
