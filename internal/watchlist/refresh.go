package watchlist

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/watchlist/internal/events"
	"github.com/vmunix/watchlist/internal/media"
)

// seasonFetchLimit bounds concurrent season requests during a refresh.
const seasonFetchLimit = 4

// current returns the freshest known value of series, falling back to the
// argument when the store has never seen it.
func (s *Store) current(ctx context.Context, series media.Series) (media.Series, error) {
	out := series
	err := s.do(ctx, func(st *state) {
		if it, ok := st.lookup(series.Key()); ok {
			if known, ok := it.(media.Series); ok {
				out = known
			}
		}
	})
	return out, err
}

// RefreshSeasonList fetches the series from the catalog and appends any
// season not yet known by id. Known seasons are never removed. On failure
// the series is returned unchanged with the error.
func (s *Store) RefreshSeasonList(ctx context.Context, series media.Series) (media.Series, error) {
	fresh, err := s.catalog.FetchSeriesDetail(ctx, series.ID)
	if err != nil {
		s.log.Warn("season list refresh failed", "key", series.Key(), "error", err)
		return series, fmt.Errorf("refresh seasons of %s: %w", series.Title, err)
	}

	var (
		updated media.Series
		added   int
	)
	err = s.do(ctx, func(st *state) {
		base := series
		if it, ok := st.lookup(series.Key()); ok {
			if known, ok := it.(media.Series); ok {
				base = known
			}
		}
		updated, added = base.AppendMissingSeasons(fresh.Seasons)
		if fresh.NumberOfEpisodes > 0 {
			updated.NumberOfEpisodes = fresh.NumberOfEpisodes
		}
		s.updateEntry(st, updated)
	})
	if err != nil {
		return series, err
	}

	if added > 0 {
		s.log.Info("seasons added", "key", series.Key(), "title", updated.Title, "added", added)
		_, total := updated.Progress()
		s.publish(ctx, &events.SeriesRefreshed{
			Header:        events.NewHeader(events.EventSeriesRefreshed, updated.Key(), s.now()),
			Title:         updated.Title,
			SeasonsAdded:  added,
			EpisodesKnown: total,
		})
	}
	return updated, nil
}

// RefreshEpisodes fetches every season of the series and merges the
// episodes into the stored value, keeping seen flags. If any season fails
// the whole refresh is abandoned and nothing changes.
func (s *Store) RefreshEpisodes(ctx context.Context, series media.Series) (media.Series, error) {
	base, err := s.current(ctx, series)
	if err != nil {
		return series, err
	}

	fetched := make([][]media.Episode, len(base.Seasons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seasonFetchLimit)
	for i, season := range base.Seasons {
		g.Go(func() error {
			eps, err := s.catalog.FetchSeasonEpisodes(gctx, series.ID, season.SeasonNumber)
			if err != nil {
				return err
			}
			fetched[i] = eps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("episode refresh abandoned", "key", series.Key(), "error", err)
		return base, fmt.Errorf("refresh episodes of %s: %w", series.Title, err)
	}

	bySeason := make(map[int][]media.Episode, len(base.Seasons))
	for i, season := range base.Seasons {
		bySeason[season.SeasonNumber] = fetched[i]
	}

	var updated media.Series
	err = s.do(ctx, func(st *state) {
		// Merge against the value as it is now; seen flags may have changed
		// while the fetch was in flight.
		cur := base
		if it, ok := st.lookup(series.Key()); ok {
			if known, ok := it.(media.Series); ok {
				cur = known
			}
		}
		updated = cur.Clone()
		for i, season := range updated.Seasons {
			if fresh, ok := bySeason[season.SeasonNumber]; ok {
				updated.Seasons[i].Episodes = media.MergeEpisodes(season.Episodes, fresh)
			}
		}
		updated.LastUpdated = s.now()
		s.updateEntry(st, updated)
	})
	if err != nil {
		return base, err
	}

	_, total := updated.Progress()
	s.log.Debug("episodes refreshed", "key", series.Key(), "episodes", total)
	s.publish(ctx, &events.SeriesRefreshed{
		Header:        events.NewHeader(events.EventSeriesRefreshed, updated.Key(), s.now()),
		Title:         updated.Title,
		EpisodesKnown: total,
	})
	return updated, nil
}

// RefreshIfStale refreshes the season list and episodes when the series was
// last refreshed more than maxAge ago. Reports whether a refresh ran.
func (s *Store) RefreshIfStale(ctx context.Context, series media.Series, maxAge time.Duration) (media.Series, bool, error) {
	cur, err := s.current(ctx, series)
	if err != nil {
		return series, false, err
	}
	if !cur.LastUpdated.IsZero() && s.now().Sub(cur.LastUpdated) < maxAge {
		return cur, false, nil
	}

	cur, err = s.RefreshSeasonList(ctx, cur)
	if err != nil {
		return cur, true, err
	}
	cur, err = s.RefreshEpisodes(ctx, cur)
	return cur, true, err
}
