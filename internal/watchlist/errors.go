package watchlist

import "errors"

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("watchlist closed")

	// ErrNotFound indicates no item with the given key is known to the store.
	ErrNotFound = errors.New("item not found")

	// ErrNotSeries indicates an episode operation on a movie.
	ErrNotSeries = errors.New("item is not a series")
)
