package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/watchlist/internal/media"
)

// ErrUnknownType is returned by Decode for an event type this package does not define.
var ErrUnknownType = errors.New("unknown event type")

// EventLog is the activity history, stored in the events table.
type EventLog struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db, now: time.Now}
}

// Append stores e and returns its row id.
func (l *EventLog) Append(ctx context.Context, e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", e.EventType(), err)
	}

	key := e.Key()
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), string(key.Kind), key.ID, string(payload), e.OccurredAt().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("append %s for %s: %w", e.EventType(), key, err)
	}
	return res.LastInsertId()
}

// RawEvent is a stored event whose payload has not been decoded.
type RawEvent struct {
	ID         int64
	EventType  string
	Key        media.Key
	Payload    string
	OccurredAt time.Time
}

// Decode restores a stored event to its concrete type.
func Decode(raw RawEvent) (Event, error) {
	var e Event
	switch raw.EventType {
	case EventItemMoved:
		e = &ItemMoved{}
	case EventEpisodeSeen:
		e = &EpisodeSeen{}
	case EventSeasonSeen:
		e = &SeasonSeen{}
	case EventSeriesRefreshed:
		e = &SeriesRefreshed{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, raw.EventType)
	}
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("decode %s #%d: %w", raw.EventType, raw.ID, err)
	}
	return e, nil
}

func (l *EventLog) query(ctx context.Context, where string, args ...any) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, event_type, entity_type, entity_id, payload, occurred_at FROM events `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RawEvent
	for rows.Next() {
		var (
			e    RawEvent
			kind string
		)
		if err := rows.Scan(&e.ID, &e.EventType, &kind, &e.Key.ID, &e.Payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Key.Kind = media.Kind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Since returns events at or after t, oldest first.
func (l *EventLog) Since(ctx context.Context, t time.Time) ([]RawEvent, error) {
	return l.query(ctx, `WHERE occurred_at >= ? ORDER BY id`, t.UTC())
}

// ForItem returns the history of one item, oldest first.
func (l *EventLog) ForItem(ctx context.Context, key media.Key) ([]RawEvent, error) {
	return l.query(ctx, `WHERE entity_type = ? AND entity_id = ? ORDER BY id`, string(key.Kind), key.ID)
}

// Recent returns the newest limit events, newest first.
func (l *EventLog) Recent(ctx context.Context, limit int) ([]RawEvent, error) {
	return l.query(ctx, `ORDER BY id DESC LIMIT ?`, limit)
}

// Prune deletes events older than olderThan and reports how many went.
func (l *EventLog) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := l.now().Add(-olderThan).UTC()
	res, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
