// Package watchlist owns the in-memory watchlist and keeps it in step with
// the catalog and the database.
package watchlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/watchlist/internal/catalog"
	"github.com/vmunix/watchlist/internal/events"
	"github.com/vmunix/watchlist/internal/media"
)

// Writer receives the persistence side of every mutation. Calls must not
// block on I/O; persist.Writer queues them.
type Writer interface {
	Insert(items ...media.Item)
	Update(items ...media.Item)
	Delete(items ...media.Item)
}

// Loader reads the persisted watchlist.
type Loader interface {
	LoadAll(ctx context.Context) ([]media.Item, error)
}

// state is owned by the actor goroutine.
type state struct {
	items   []media.Item
	detail  media.Item
	results []media.Item
}

func (st *state) index(key media.Key) int {
	for i, it := range st.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// lookup finds the freshest known value for key: the list, then the detail
// projection, then the search results.
func (st *state) lookup(key media.Key) (media.Item, bool) {
	if i := st.index(key); i >= 0 {
		return st.items[i], true
	}
	if st.detail != nil && st.detail.Key() == key {
		return st.detail, true
	}
	for _, it := range st.results {
		if it.Key() == key {
			return it, true
		}
	}
	return nil, false
}

// project replaces it in the detail and search-result projections.
func (st *state) project(it media.Item) {
	key := it.Key()
	if st.detail != nil && st.detail.Key() == key {
		st.detail = it
	}
	for i, r := range st.results {
		if r.Key() == key {
			st.results[i] = it
		}
	}
}

// Store is the watchlist. Every state change runs to completion on a single
// goroutine; catalog calls happen outside it and their results are applied
// in one step.
type Store struct {
	catalog catalog.Gateway
	writer  Writer
	events  events.Publisher
	log     *slog.Logger
	now     func() time.Time

	ops       chan func(*state)
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for LastUpdated and notify hints.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithPublisher publishes an event after every mutation.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		s.events = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New starts a store. Call Close to stop it.
func New(cat catalog.Gateway, w Writer, opts ...Option) *Store {
	s := &Store{
		catalog: cat,
		writer:  w,
		log:     slog.Default(),
		now:     time.Now,
		ops:     make(chan func(*state)),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "watchlist")
	go s.run()
	return s
}

func (s *Store) run() {
	defer close(s.done)
	st := &state{}
	for {
		select {
		case op := <-s.ops:
			op(st)
		case <-s.quit:
			return
		}
	}
}

// do runs fn on the actor and waits for it to finish.
func (s *Store) do(ctx context.Context, fn func(*state)) error {
	finished := make(chan struct{})
	op := func(st *state) {
		defer close(finished)
		fn(st)
	}
	select {
	case s.ops <- op:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// view runs a read on the actor. When the store is closed or ctx is done
// the read is skipped, logged, and the caller sees its zero value.
func (s *Store) view(ctx context.Context, op string, fn func(*state)) {
	if err := s.do(ctx, fn); err != nil {
		s.log.Warn("read skipped", "op", op, "error", err)
	}
}

// Close stops the actor. Pending writes belong to the Writer and are not
// flushed here.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Store) publish(ctx context.Context, e events.Event) {
	if s.events == nil || e == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

// Load fills the list from the database. Items already added in memory
// keep their place after the loaded ones.
func (s *Store) Load(ctx context.Context, loader Loader) error {
	loaded, err := loader.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}
	err = s.do(ctx, func(st *state) {
		items := make([]media.Item, 0, len(loaded)+len(st.items))
		seen := make(map[media.Key]bool, len(loaded))
		for _, it := range loaded {
			if seen[it.Key()] {
				continue
			}
			seen[it.Key()] = true
			items = append(items, media.Clone(it))
		}
		for _, it := range st.items {
			if !seen[it.Key()] {
				items = append(items, it)
			}
		}
		st.items = items
	})
	if err != nil {
		return err
	}
	s.log.Debug("watchlist loaded", "items", len(loaded))
	return nil
}

// MoveTo puts item in the list with the given status, or removes it when
// status is StatusUntracked. Exactly one persistence write is dispatched:
// insert when the item is new, update when it was already listed, delete
// when it is removed. If the item is already listed its stored value is
// kept and only the status changes.
func (s *Store) MoveTo(ctx context.Context, item media.Item, status media.Status) (media.Item, error) {
	var (
		moved media.Item
		from  media.Status
	)
	err := s.do(ctx, func(st *state) {
		base := item
		i := st.index(item.Key())
		if i >= 0 {
			base = st.items[i]
			from = base.Info().Status
			st.items = append(st.items[:i:i], st.items[i+1:]...)
		}

		moved = media.WithStatus(base, status)
		st.project(moved)

		switch {
		case status == media.StatusUntracked:
			s.writer.Delete(moved)
		case i >= 0:
			st.items = append(st.items, moved)
			s.writer.Update(moved)
		default:
			st.items = append(st.items, moved)
			s.writer.Insert(moved)
		}
	})
	if err != nil {
		return nil, err
	}

	info := moved.Info()
	s.log.Info("item moved", "key", moved.Key(), "title", info.Title, "from", from, "to", status)
	s.publish(ctx, &events.ItemMoved{
		Header: events.NewHeader(events.EventItemMoved, moved.Key(), s.now()),
		Title:  info.Title,
		From:   from,
		To:     status,
	})
	return s.annotate(moved), nil
}

// IsTracked reports whether an item with the same key is listed with a
// status other than history.
func (s *Store) IsTracked(ctx context.Context, item media.Item) bool {
	var tracked bool
	s.view(ctx, "IsTracked", func(st *state) {
		if i := st.index(item.Key()); i >= 0 {
			tracked = st.items[i].Info().Status != media.StatusHistory
		}
	})
	return tracked
}

// updateEntry replaces item everywhere it appears. Only listed items are
// persisted. Reports whether the item was listed.
func (s *Store) updateEntry(st *state, item media.Item) bool {
	st.project(item)
	i := st.index(item.Key())
	if i < 0 {
		return false
	}
	st.items[i] = item
	s.writer.Update(item)
	return true
}

// UpdateEntry replaces item in the list, the detail view and the search
// results in one step. A persistence update is dispatched only if the item
// is listed.
func (s *Store) UpdateEntry(ctx context.Context, item media.Item) error {
	item = media.Clone(item)
	return s.do(ctx, func(st *state) {
		s.updateEntry(st, item)
	})
}

// modifySeries applies fn to the freshest known value of a series and
// stores the result.
func (s *Store) modifySeries(ctx context.Context, key media.Key, fn func(media.Series) (media.Series, error)) (media.Series, error) {
	var (
		updated media.Series
		opErr   error
	)
	err := s.do(ctx, func(st *state) {
		it, ok := st.lookup(key)
		if !ok {
			opErr = fmt.Errorf("%s: %w", key, ErrNotFound)
			return
		}
		series, ok := it.(media.Series)
		if !ok {
			opErr = fmt.Errorf("%s: %w", key, ErrNotSeries)
			return
		}
		updated, opErr = fn(series)
		if opErr != nil {
			return
		}
		s.updateEntry(st, updated)
	})
	if err != nil {
		return media.Series{}, err
	}
	return updated, opErr
}

// SetEpisodeSeen marks one episode seen or unseen.
func (s *Store) SetEpisodeSeen(ctx context.Context, key media.Key, season, episode int, seen bool) (media.Series, error) {
	updated, err := s.modifySeries(ctx, key, func(series media.Series) (media.Series, error) {
		return series.SetEpisodeSeen(season, episode, seen)
	})
	if err != nil {
		return media.Series{}, err
	}
	s.publish(ctx, &events.EpisodeSeen{
		Header:  events.NewHeader(events.EventEpisodeSeen, key, s.now()),
		Title:   updated.Title,
		Season:  season,
		Episode: episode,
		Seen:    seen,
	})
	return updated, nil
}

// SetSeasonSeen marks every episode of a season seen or unseen.
func (s *Store) SetSeasonSeen(ctx context.Context, key media.Key, season int, seen bool) (media.Series, error) {
	updated, err := s.modifySeries(ctx, key, func(series media.Series) (media.Series, error) {
		return series.SetSeasonSeen(season, seen)
	})
	if err != nil {
		return media.Series{}, err
	}
	s.publish(ctx, &events.SeasonSeen{
		Header: events.NewHeader(events.EventSeasonSeen, key, s.now()),
		Title:  updated.Title,
		Season: season,
		Seen:   seen,
	})
	return updated, nil
}

// NextUnwatchedEpisode returns the first unseen regular episode, or false
// when every known episode has been seen.
func (s *Store) NextUnwatchedEpisode(series media.Series) (media.Episode, bool) {
	return series.NextUnwatched()
}

func (s *Store) annotate(it media.Item) media.Item {
	return media.Annotate(media.Clone(it), s.now())
}

func (s *Store) annotateAll(items []media.Item) []media.Item {
	out := make([]media.Item, len(items))
	for i, it := range items {
		out[i] = s.annotate(it)
	}
	return out
}

// Items returns the whole list in order.
func (s *Store) Items(ctx context.Context) []media.Item {
	var items []media.Item
	s.view(ctx, "Items", func(st *state) {
		items = s.annotateAll(st.items)
	})
	return items
}

// ByStatus returns the listed items with the given status, in list order.
func (s *Store) ByStatus(ctx context.Context, status media.Status) []media.Item {
	var items []media.Item
	s.view(ctx, "ByStatus", func(st *state) {
		for _, it := range st.items {
			if it.Info().Status == status {
				items = append(items, s.annotate(it))
			}
		}
	})
	return items
}

// Get returns the listed item with key.
func (s *Store) Get(ctx context.Context, key media.Key) (media.Item, bool) {
	var item media.Item
	s.view(ctx, "Get", func(st *state) {
		if i := st.index(key); i >= 0 {
			item = s.annotate(st.items[i])
		}
	})
	return item, item != nil
}

// FindByTitle returns the listed item whose title best matches query.
func (s *Store) FindByTitle(ctx context.Context, query string) (media.Item, bool) {
	var item media.Item
	s.view(ctx, "FindByTitle", func(st *state) {
		if it, _, ok := media.MatchTitle(query, st.items, media.DefaultMatchThreshold); ok {
			item = s.annotate(it)
		}
	})
	return item, item != nil
}

// ShowDetail makes item the detail view. A listed item is shown with its
// stored value.
func (s *Store) ShowDetail(ctx context.Context, item media.Item) (media.Item, error) {
	var shown media.Item
	err := s.do(ctx, func(st *state) {
		if i := st.index(item.Key()); i >= 0 {
			st.detail = st.items[i]
		} else {
			st.detail = media.Clone(item)
		}
		shown = s.annotate(st.detail)
	})
	return shown, err
}

// ShowSearchResults replaces the search-results view. Listed items appear
// with their stored value.
func (s *Store) ShowSearchResults(ctx context.Context, results []media.Item) error {
	cp := make([]media.Item, len(results))
	for i, it := range results {
		cp[i] = media.Clone(it)
	}
	return s.do(ctx, func(st *state) {
		for i, it := range cp {
			if j := st.index(it.Key()); j >= 0 {
				cp[i] = st.items[j]
			}
		}
		st.results = cp
	})
}

// SearchResults returns the current search-results view.
func (s *Store) SearchResults(ctx context.Context) []media.Item {
	var items []media.Item
	s.view(ctx, "SearchResults", func(st *state) {
		items = s.annotateAll(st.results)
	})
	return items
}
