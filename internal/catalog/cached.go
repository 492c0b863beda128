package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vmunix/watchlist/internal/media"
)

// Cached decorates a Gateway with a persistent cache for title searches.
// Series detail and season fetches always go to the wrapped gateway.
type Cached struct {
	next  Gateway
	cache *Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCached wraps next. A non-positive ttl disables caching.
func NewCached(next Gateway, cache *Cache, ttl time.Duration, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, cache: cache, ttl: ttl, log: log.With("component", "catalog-cache")}
}

type cachedItem struct {
	Kind media.Kind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func searchKey(query string) string {
	return "search:" + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// SearchByTitle serves from cache when possible. Only successful searches
// are stored; empty result lists are cached too.
func (c *Cached) SearchByTitle(ctx context.Context, query string) ([]media.Item, error) {
	if c.ttl <= 0 {
		return c.next.SearchByTitle(ctx, query)
	}

	key := searchKey(query)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		items, err := decodeItems(raw)
		if err == nil {
			c.log.Debug("cache hit", "key", key, "results", len(items))
			return items, nil
		}
		c.log.Warn("discarding unreadable cache entry", "key", key, "error", err)
	}

	items, err := c.next.SearchByTitle(ctx, query)
	if err != nil {
		return nil, err
	}

	raw, err := encodeItems(items)
	if err != nil {
		c.log.Warn("cache encode failed", "key", key, "error", err)
		return items, nil
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
	return items, nil
}

func (c *Cached) FetchSeriesDetail(ctx context.Context, seriesID int64) (media.Series, error) {
	return c.next.FetchSeriesDetail(ctx, seriesID)
}

func (c *Cached) FetchSeasonEpisodes(ctx context.Context, seriesID int64, seasonNumber int) ([]media.Episode, error) {
	return c.next.FetchSeasonEpisodes(ctx, seriesID, seasonNumber)
}

func encodeItems(items []media.Item) ([]byte, error) {
	records := make([]cachedItem, 0, len(items))
	for _, it := range items {
		data, err := media.Encode(it)
		if err != nil {
			return nil, err
		}
		records = append(records, cachedItem{Kind: it.Kind(), Data: data})
	}
	return json.Marshal(records)
}

func decodeItems(raw []byte) ([]media.Item, error) {
	var records []cachedItem
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	items := make([]media.Item, 0, len(records))
	for _, r := range records {
		it, err := media.Decode(r.Kind, r.Data)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
