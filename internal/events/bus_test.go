package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return nil
	}
}

func TestBus_PublishLogsAndDelivers(t *testing.T) {
	log := NewEventLog(setupTestDB(t))
	bus := NewBus(log, nil)
	defer bus.Close()
	ctx := context.Background()

	ch := bus.Subscribe(Filter{Types: []string{EventItemMoved}}, 10)

	e := &ItemMoved{Header: NewHeader(EventItemMoved, inceptionKey, time.Now()), Title: "Inception"}
	require.NoError(t, bus.Publish(ctx, e))

	got := receive(t, ch)
	assert.Equal(t, inceptionKey, got.Key())

	logged, err := log.ForItem(ctx, inceptionKey)
	require.NoError(t, err)
	assert.Len(t, logged, 1)
}

func TestBus_Filters(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()
	ctx := context.Background()
	now := time.Now()

	all := bus.Subscribe(Filter{}, 10)
	seasons := bus.Subscribe(Filter{Types: []string{EventSeasonSeen}}, 10)
	thrones := bus.Subscribe(Filter{Key: thronesKey}, 10)
	seen := bus.Subscribe(Filter{Types: []string{EventEpisodeSeen, EventSeasonSeen}, Key: thronesKey}, 10)

	require.NoError(t, bus.Publish(ctx, &EpisodeSeen{Header: NewHeader(EventEpisodeSeen, thronesKey, now)}))
	require.NoError(t, bus.Publish(ctx, &SeasonSeen{Header: NewHeader(EventSeasonSeen, thronesKey, now)}))
	require.NoError(t, bus.Publish(ctx, &ItemMoved{Header: NewHeader(EventItemMoved, inceptionKey, now)}))

	assert.Len(t, all, 3)
	assert.Len(t, seasons, 1)
	assert.Len(t, thrones, 2)
	assert.Len(t, seen, 2)
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(Filter{}, 1)
	for range 3 {
		require.NoError(t, bus.Publish(context.Background(), note("note", inceptionKey, time.Now())))
	}
	assert.Len(t, ch, 1)
	assert.Equal(t, int64(2), bus.Dropped())
}

func TestBus_LogFailureStillDelivers(t *testing.T) {
	db := setupTestDB(t)
	bus := NewBus(NewEventLog(db), nil)
	defer bus.Close()

	ch := bus.Subscribe(Filter{}, 1)
	require.NoError(t, db.Close())

	err := bus.Publish(context.Background(), note("note", inceptionKey, time.Now()))
	assert.Error(t, err)
	assert.Len(t, ch, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(Filter{}, 10)
	bus.Unsubscribe(ch)
	bus.Unsubscribe(ch)

	require.NoError(t, bus.Publish(context.Background(), note("note", inceptionKey, time.Now())))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(nil, nil)
	ch := bus.Subscribe(Filter{}, 1)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.NoError(t, bus.Publish(context.Background(), note("note", inceptionKey, time.Now())))
	_, ok := <-ch
	assert.False(t, ok)

	late := bus.Subscribe(Filter{}, 1)
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")
}

func TestBus_ConcurrentPublish(t *testing.T) {
	log := NewEventLog(setupTestDB(t))
	bus := NewBus(log, nil)
	defer bus.Close()

	ch := bus.Subscribe(Filter{}, 100)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := note("note", thronesKey, time.Now())
			e.Note = string(rune('a' + i))
			if err := bus.Publish(context.Background(), e); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.NoError(t, errors.Join(errs...))
	assert.Len(t, ch, 10)
	logged, err := log.ForItem(context.Background(), thronesKey)
	require.NoError(t, err)
	assert.Len(t, logged, 10)
}
