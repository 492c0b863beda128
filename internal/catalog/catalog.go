// Package catalog wraps the remote media catalog behind a small contract
// with normalized failures.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/tmdb"
)

//go:generate mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks

// Failure categories. Every gateway error wraps exactly one of these.
var (
	// ErrNotFound indicates the catalog has no such title, series or season.
	ErrNotFound = errors.New("catalog: not found")

	// ErrUnavailable indicates the catalog could not be reached (network, timeout).
	ErrUnavailable = errors.New("catalog: unavailable")

	// ErrBadResponse indicates the catalog answered with something unusable.
	ErrBadResponse = errors.New("catalog: unexpected response")
)

// Gateway is the read-only view of the remote catalog.
// A search with no matches returns an empty slice and a nil error.
type Gateway interface {
	SearchByTitle(ctx context.Context, query string) ([]media.Item, error)
	FetchSeriesDetail(ctx context.Context, seriesID int64) (media.Series, error)
	FetchSeasonEpisodes(ctx context.Context, seriesID int64, seasonNumber int) ([]media.Episode, error)
}

// classify maps a client error onto the gateway failure categories.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, tmdb.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrBadResponse, err)
	}
}
