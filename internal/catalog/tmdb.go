package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/tmdb"
)

const (
	posterSize = "w500"

	// detailFetchLimit bounds concurrent detail requests during a search.
	detailFetchLimit = 4
)

// TMDB implements Gateway on top of the TMDB REST client.
type TMDB struct {
	client *tmdb.Client
	log    *slog.Logger
}

// NewTMDB creates a TMDB-backed gateway.
func NewTMDB(client *tmdb.Client, log *slog.Logger) *TMDB {
	if log == nil {
		log = slog.Default()
	}
	return &TMDB{client: client, log: log}
}

// SearchByTitle runs a multi search and resolves every movie and series hit
// to its full details. People and other result kinds are skipped. Any detail
// failure fails the whole search.
func (g *TMDB) SearchByTitle(ctx context.Context, query string) ([]media.Item, error) {
	hits, err := g.client.SearchMulti(ctx, query)
	if err != nil {
		return nil, classify("search", err)
	}

	var wanted []tmdb.SearchResult
	for _, h := range hits {
		if h.MediaType == tmdb.MediaTypeMovie || h.MediaType == tmdb.MediaTypeTV {
			wanted = append(wanted, h)
		}
	}

	items := make([]media.Item, len(wanted))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(detailFetchLimit)
	for i, h := range wanted {
		eg.Go(func() error {
			switch h.MediaType {
			case tmdb.MediaTypeMovie:
				m, err := g.client.GetMovie(gctx, h.ID)
				if err != nil {
					return err
				}
				items[i] = movieFromTMDB(m)
			case tmdb.MediaTypeTV:
				tv, err := g.client.GetTV(gctx, h.ID)
				if err != nil {
					return err
				}
				items[i] = seriesFromTMDB(tv)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, classifyDetail("search details", err)
	}

	g.log.Debug("catalog search", "query", query, "hits", len(hits), "results", len(items))
	return items, nil
}

// classifyDetail is classify for follow-up lookups on search hits. The
// search itself matched, so a missing detail is a bad response rather than
// a title that does not exist.
func classifyDetail(op string, err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return fmt.Errorf("%s: %w: %v", op, ErrBadResponse, err)
	}
	return classify(op, err)
}

// FetchSeriesDetail returns the series with its current season list.
// Seasons carry no episodes.
func (g *TMDB) FetchSeriesDetail(ctx context.Context, seriesID int64) (media.Series, error) {
	tv, err := g.client.GetTV(ctx, seriesID)
	if err != nil {
		return media.Series{}, classify(fmt.Sprintf("series %d", seriesID), err)
	}
	return seriesFromTMDB(tv), nil
}

// FetchSeasonEpisodes returns the episodes of one season, all unseen.
func (g *TMDB) FetchSeasonEpisodes(ctx context.Context, seriesID int64, seasonNumber int) ([]media.Episode, error) {
	season, err := g.client.GetSeason(ctx, seriesID, seasonNumber)
	if err != nil {
		return nil, classify(fmt.Sprintf("series %d season %d", seriesID, seasonNumber), err)
	}
	episodes := make([]media.Episode, 0, len(season.Episodes))
	for _, e := range season.Episodes {
		episodes = append(episodes, episodeFromTMDB(e))
	}
	return episodes, nil
}

func genresFromTMDB(in []tmdb.Genre) []media.Genre {
	out := make([]media.Genre, 0, len(in))
	for _, g := range in {
		out = append(out, media.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func movieFromTMDB(m *tmdb.Movie) media.Movie {
	return media.Movie{Details: media.Details{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		Genres:      genresFromTMDB(m.Genres),
		ReleaseYear: m.Year(),
		PosterURL:   tmdb.PosterURL(m.PosterPath, posterSize),
		Runtime:     m.Runtime,
	}}
}

func seriesFromTMDB(tv *tmdb.TV) media.Series {
	seasons := make([]media.Season, 0, len(tv.Seasons))
	for _, s := range tv.Seasons {
		seasons = append(seasons, media.Season{
			ID:           s.ID,
			Title:        s.Name,
			SeasonNumber: s.SeasonNumber,
			Episodes:     []media.Episode{},
		})
	}
	return media.Series{
		Details: media.Details{
			ID:          tv.ID,
			Title:       tv.Name,
			Overview:    tv.Overview,
			Genres:      genresFromTMDB(tv.Genres),
			ReleaseYear: tv.Year(),
			PosterURL:   tmdb.PosterURL(tv.PosterPath, posterSize),
			Runtime:     tv.Runtime(),
		},
		NumberOfEpisodes: tv.NumberOfEpisodes,
		Seasons:          seasons,
	}
}

func episodeFromTMDB(e tmdb.Episode) media.Episode {
	return media.Episode{
		ID:            e.ID,
		SeasonNumber:  e.SeasonNumber,
		EpisodeNumber: e.EpisodeNumber,
		AirDate:       e.AirDate,
		Title:         e.Name,
		Overview:      e.Overview,
	}
}
