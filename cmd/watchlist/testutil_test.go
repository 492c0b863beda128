package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/watchlist/internal/catalog/mocks"
	"github.com/vmunix/watchlist/internal/config"
	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/persist"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp wires an app over the database at dbPath with a mocked catalog.
// The caller closes it.
func newTestApp(t *testing.T, dbPath string) (*app, *mocks.MockGateway) {
	t.Helper()
	ctrl := gomock.NewController(t)
	cat := mocks.NewMockGateway(ctrl)

	db, err := openDB(context.Background(), dbPath)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Database.Path = dbPath
	a := newApp(cfg, discardLogger(), db, cat)
	require.NoError(t, a.store.Load(context.Background(), a.items))
	return a, cat
}

// openTestApp is newTestApp over a temporary database, closed at cleanup.
func openTestApp(t *testing.T) (*app, *mocks.MockGateway) {
	t.Helper()
	a, cat := newTestApp(t, filepath.Join(t.TempDir(), "watchlist.db"))
	t.Cleanup(a.Close)
	return a, cat
}

// writeTestConfig writes a config file pointing at a fresh database and
// returns the config path and the database path.
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "watchlist.db")
	path := filepath.Join(dir, "watchlist.toml")
	content := fmt.Sprintf(`[tmdb]
base_url = "http://127.0.0.1:1"

[database]
path = %q

[log]
level = "error"
`, dbPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path, dbPath
}

// seed inserts items straight into the database at dbPath.
func seed(t *testing.T, dbPath string, items ...media.Item) {
	t.Helper()
	db, err := openDB(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, persist.NewStore(db).Insert(context.Background(), items))
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	jsonOutput = false
	configPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func ep(season, episode int, title, airDate string) media.Episode {
	return media.Episode{
		ID:            int64(season*1000 + episode),
		SeasonNumber:  season,
		EpisodeNumber: episode,
		Title:         title,
		AirDate:       airDate,
	}
}

func inception() media.Movie {
	return media.Movie{Details: media.Details{
		ID:          27205,
		Title:       "Inception",
		Overview:    "A thief who steals corporate secrets through dream-sharing technology.",
		Genres:      []media.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		ReleaseYear: 2010,
		Runtime:     148,
	}}
}

func thrones() media.Series {
	return media.Series{
		Details: media.Details{
			ID:          1399,
			Title:       "Game of Thrones",
			Genres:      []media.Genre{{ID: 18, Name: "Drama"}},
			ReleaseYear: 2011,
			Runtime:     60,
		},
		NumberOfEpisodes: 73,
		Seasons: []media.Season{
			{ID: 3627, Title: "Specials", SeasonNumber: 0, Episodes: []media.Episode{
				ep(0, 1, "Inside Game of Thrones", "2010-12-05"),
			}},
			{ID: 3624, Title: "Season 1", SeasonNumber: 1, Episodes: []media.Episode{
				ep(1, 1, "Winter Is Coming", "2011-04-17"),
				ep(1, 2, "The Kingsroad", "2011-04-24"),
			}},
		},
	}
}

func dark() media.Series {
	return media.Series{
		Details: media.Details{ID: 70523, Title: "Dark", ReleaseYear: 2017},
		Seasons: []media.Season{
			{ID: 81085, Title: "Season 1", SeasonNumber: 1, Episodes: []media.Episode{}},
		},
	}
}
