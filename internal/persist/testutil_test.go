package persist

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func inception() media.Movie {
	return media.Movie{Details: media.Details{
		ID:          27205,
		Title:       "Inception",
		Genres:      []media.Genre{{ID: 28, Name: "Action"}},
		ReleaseYear: 2010,
		Runtime:     148,
		Status:      media.StatusToWatch,
	}}
}

func thrones() media.Series {
	return media.Series{
		Details: media.Details{
			ID:          1399,
			Title:       "Game of Thrones",
			ReleaseYear: 2011,
			Runtime:     60,
			Status:      media.StatusWatching,
		},
		NumberOfEpisodes: 73,
		Seasons: []media.Season{{
			ID:           3624,
			Title:        "Season 1",
			SeasonNumber: 1,
			Episodes: []media.Episode{
				{ID: 63056, SeasonNumber: 1, EpisodeNumber: 1, AirDate: "2011-04-17", Title: "Winter Is Coming", Seen: true},
				{ID: 63057, SeasonNumber: 1, EpisodeNumber: 2, AirDate: "2011-04-24", Title: "The Kingsroad"},
			},
		}},
	}
}
