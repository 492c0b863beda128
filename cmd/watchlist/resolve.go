package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/watchlist"
)

var errNotTracked = errors.New("not on your watchlist")

// parseRef splits an item argument. "tv:1399" and "movie:27205" name a key,
// a bare number is an id of either kind, anything else is a title.
func parseRef(arg string) (id int64, kind media.Kind, isID bool) {
	arg = strings.TrimSpace(arg)
	if k, rest, ok := strings.Cut(arg, ":"); ok {
		kind = media.Kind(strings.ToLower(k))
		if kind == "series" {
			kind = media.KindSeries
		}
		if n, err := strconv.ParseInt(rest, 10, 64); err == nil && kind.Valid() {
			return n, kind, true
		}
		return 0, "", false
	}
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n, "", true
	}
	return 0, "", false
}

// findTracked resolves an argument to a listed item. A bare number that is
// not a listed id may still be an exact title, for films like "1917".
func findTracked(ctx context.Context, store *watchlist.Store, arg string) (media.Item, error) {
	id, kind, isID := parseRef(arg)
	if !isID {
		if it, ok := store.FindByTitle(ctx, arg); ok {
			return it, nil
		}
		return nil, fmt.Errorf("%q: %w", arg, errNotTracked)
	}

	if kind != "" {
		if it, ok := store.Get(ctx, media.Key{ID: id, Kind: kind}); ok {
			return it, nil
		}
		return nil, fmt.Errorf("%s:%d: %w", kind, id, errNotTracked)
	}

	movie, isMovie := store.Get(ctx, media.Key{ID: id, Kind: media.KindMovie})
	series, isSeries := store.Get(ctx, media.Key{ID: id, Kind: media.KindSeries})
	switch {
	case isMovie && isSeries:
		return nil, fmt.Errorf("id %d is both a movie and a series; use movie:%d or tv:%d", id, id, id)
	case isMovie:
		return movie, nil
	case isSeries:
		return series, nil
	}
	if it, ok := store.FindByTitle(ctx, arg); ok && media.CleanTitle(it.Info().Title) == media.CleanTitle(arg) {
		return it, nil
	}
	return nil, fmt.Errorf("id %d: %w", id, errNotTracked)
}

// findSeries resolves an argument to a listed series.
func findSeries(ctx context.Context, store *watchlist.Store, arg string) (media.Series, error) {
	it, err := findTracked(ctx, store, arg)
	if err != nil {
		return media.Series{}, err
	}
	s, ok := it.(media.Series)
	if !ok {
		return media.Series{}, fmt.Errorf("%s is a movie: %w", it.Info().Title, watchlist.ErrNotSeries)
	}
	return s, nil
}

var coordinatePattern = regexp.MustCompile(`^(?i:s(\d{1,3})e(\d{1,4})|(\d{1,3})x(\d{1,4}))$`)

// parseCoordinate accepts "S01E02", "s1e2" and "1x02".
func parseCoordinate(s string) (media.Coordinate, error) {
	m := coordinatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return media.Coordinate{}, fmt.Errorf("invalid episode %q (want S01E02)", s)
	}
	season, episode := m[1], m[2]
	if season == "" {
		season, episode = m[3], m[4]
	}
	sn, _ := strconv.Atoi(season)
	en, _ := strconv.Atoi(episode)
	return media.Coordinate{Season: sn, Episode: en}, nil
}

func parseKind(s string) (media.Kind, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "movie", "movies":
		return media.KindMovie, nil
	case "tv", "series", "show":
		return media.KindSeries, nil
	}
	return "", fmt.Errorf("unknown kind %q (want movie or tv)", s)
}

func filterKind(items []media.Item, kind media.Kind) []media.Item {
	if kind == "" {
		return items
	}
	var out []media.Item
	for _, it := range items {
		if it.Kind() == kind {
			out = append(out, it)
		}
	}
	return out
}
