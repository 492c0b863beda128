package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/events"
	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/watchlist"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [series]",
	Short: "Fetch new seasons and episodes from TMDB",
	Long: `Fetch the season and episode lists of tracked series.

Series refreshed within the configured refresh interval are skipped
unless --force is given. Seen marks are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefreshCmd,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().BoolP("force", "f", false, "Refresh even if recently updated")
}

type refreshResult struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Refreshed  bool   `json:"refreshed"`
	Seasons    int    `json:"seasons"`
	NewSeasons int    `json:"new_seasons,omitempty"`
	Episodes   int    `json:"episodes_known"`
	Error      string `json:"error,omitempty"`
}

func runRefreshCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		if err := a.requireCatalog(); err != nil {
			return err
		}

		var targets []media.Series
		if len(args) == 1 {
			s, err := findSeries(ctx, a.store, args[0])
			if err != nil {
				return err
			}
			targets = append(targets, s)
		} else {
			for _, it := range a.store.Items(ctx) {
				if s, ok := it.(media.Series); ok {
					targets = append(targets, s)
				}
			}
		}

		maxAge := a.cfg.Refresh.Interval
		if force {
			maxAge = 0
		}
		results, err := refreshReport(ctx, a, targets, maxAge)
		if err != nil {
			return err
		}

		if n, err := a.cache.Prune(ctx); err != nil {
			a.log.Warn("prune search cache", "error", err)
		} else if n > 0 {
			a.log.Debug("pruned search cache", "entries", n)
		}

		if jsonOutput {
			return printJSON(w, results)
		}
		if len(results) == 0 {
			fmt.Fprintln(w, "No series to refresh")
			return nil
		}

		failed := 0
		for _, r := range results {
			switch {
			case r.Error != "":
				failed++
				fmt.Fprintf(w, "  %-36s failed: %s\n", truncate(r.Title, 36), r.Error)
			case r.Refreshed && r.NewSeasons > 0:
				fmt.Fprintf(w, "  %-36s %d seasons (%d new), %d episodes\n", truncate(r.Title, 36), r.Seasons, r.NewSeasons, r.Episodes)
			case r.Refreshed:
				fmt.Fprintf(w, "  %-36s %d seasons, %d episodes\n", truncate(r.Title, 36), r.Seasons, r.Episodes)
			default:
				fmt.Fprintf(w, "  %-36s up to date\n", truncate(r.Title, 36))
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d series could not be refreshed", failed, len(results))
		}
		return nil
	})
}

// refreshAll refreshes each series in turn. maxAge 0 refreshes unconditionally.
func refreshAll(ctx context.Context, store *watchlist.Store, targets []media.Series, maxAge time.Duration) []refreshResult {
	results := make([]refreshResult, 0, len(targets))
	for _, s := range targets {
		updated, refreshed, err := store.RefreshIfStale(ctx, s, maxAge)
		r := refreshResult{ID: s.ID, Title: s.Title, Refreshed: refreshed, Seasons: len(updated.Seasons)}
		_, r.Episodes = updated.Progress()
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

// refreshReport runs refreshAll and fills in NewSeasons from the refresh
// events it caused.
func refreshReport(ctx context.Context, a *app, targets []media.Series, maxAge time.Duration) ([]refreshResult, error) {
	var results []refreshResult
	happened, err := a.record(events.Filter{Types: []string{events.EventSeriesRefreshed}}, 2*len(targets)+1, func() error {
		results = refreshAll(ctx, a.store, targets, maxAge)
		return nil
	})
	if err != nil {
		return nil, err
	}
	countNewSeasons(results, happened)
	return results, nil
}

// countNewSeasons fills in NewSeasons from the refresh events.
func countNewSeasons(results []refreshResult, happened []events.Event) {
	added := make(map[int64]int)
	for _, e := range happened {
		if r, ok := e.(*events.SeriesRefreshed); ok {
			added[r.Key().ID] += r.SeasonsAdded
		}
	}
	for i := range results {
		results[i].NewSeasons = added[results[i].ID]
	}
}
