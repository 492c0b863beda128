package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/media"
	"github.com/vmunix/watchlist/internal/watchlist"
)

var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search TMDB for movies and series",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearchCmd,
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add the best matching title to your watchlist",
	Long: `Search TMDB and add the result whose title matches best.

Use --kind and --year to disambiguate, or 'watchlist search <title> --add N'
to pick a result by number.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAddCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)

	searchCmd.Flags().Int("add", 0, "Add result number N to the watchlist")
	searchCmd.Flags().String("status", "to_watch", "List to add to (to_watch, watching, history)")
	searchCmd.Flags().String("kind", "", "Only show movies or tv")

	addCmd.Flags().String("status", "to_watch", "List to add to (to_watch, watching, history)")
	addCmd.Flags().String("kind", "", "Only consider movies or tv")
	addCmd.Flags().Int("year", 0, "Only consider titles released this year")
}

// searchResult is the JSON shape of a search row.
type searchResult struct {
	itemView
	Tracked bool `json:"tracked"`
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	addN, _ := cmd.Flags().GetInt("add")
	statusArg, _ := cmd.Flags().GetString("status")
	kindArg, _ := cmd.Flags().GetString("kind")

	status, err := media.ParseStatus(statusArg)
	if err != nil {
		return err
	}
	kind, err := parseKind(kindArg)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		if err := a.requireCatalog(); err != nil {
			return err
		}
		results, err := search(ctx, a, query)
		if err != nil {
			return err
		}
		results = filterKind(results, kind)

		if addN > 0 {
			if addN > len(results) {
				return fmt.Errorf("no result #%d (%d results)", addN, len(results))
			}
			added, err := track(ctx, a.store, results[addN-1], status)
			if err != nil {
				return err
			}
			return printAdded(w, added)
		}

		if jsonOutput {
			rows := make([]searchResult, len(results))
			for i, it := range results {
				rows[i] = searchResult{itemView: newItemView(it), Tracked: a.store.IsTracked(ctx, it)}
			}
			return printJSON(w, rows)
		}

		if len(results) == 0 {
			fmt.Fprintf(w, "No results for %q\n", query)
			return nil
		}
		fmt.Fprintf(w, "Results for %q (%d):\n\n", query, len(results))
		printItemTable(w, results, true)
		fmt.Fprintf(w, "\nAdd one with: watchlist search %q --add N\n", query)
		return nil
	})
}

// search runs query through the session and returns the store's view of
// the results, so listed titles carry their stored status and progress.
// A failed status becomes an error.
func search(ctx context.Context, a *app, query string) ([]media.Item, error) {
	st := a.session.Search(ctx, query)
	switch st.State {
	case watchlist.Success:
		return a.store.SearchResults(ctx), nil
	case watchlist.Error:
		if st.Failure == watchlist.FailureNotFound {
			return nil, nil
		}
		return nil, errors.New(st.Message)
	default:
		return nil, fmt.Errorf("search %q did not complete", query)
	}
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	statusArg, _ := cmd.Flags().GetString("status")
	kindArg, _ := cmd.Flags().GetString("kind")
	year, _ := cmd.Flags().GetInt("year")

	status, err := media.ParseStatus(statusArg)
	if err != nil {
		return err
	}
	kind, err := parseKind(kindArg)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		if err := a.requireCatalog(); err != nil {
			return err
		}
		results, err := search(ctx, a, query)
		if err != nil {
			return err
		}
		pick, err := bestMatch(query, results, kind, year)
		if err != nil {
			return err
		}
		added, err := track(ctx, a.store, pick, status)
		if err != nil {
			return err
		}
		return printAdded(w, added)
	})
}

// bestMatch picks the search result to add for query.
func bestMatch(query string, results []media.Item, kind media.Kind, year int) (media.Item, error) {
	candidates := filterKind(results, kind)
	if year > 0 {
		var byYear []media.Item
		for _, it := range candidates {
			if it.Info().ReleaseYear == year {
				byYear = append(byYear, it)
			}
		}
		candidates = byYear
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("nothing on TMDB matches %q", query)
	}
	if it, _, ok := media.MatchTitle(query, candidates, media.DefaultMatchThreshold); ok {
		return it, nil
	}
	return nil, fmt.Errorf("no close match for %q; pick one with 'watchlist search %s --add N'", query, query)
}

// track puts item on a list. Newly added series get their episode lists
// fetched so that seen and next work right away.
func track(ctx context.Context, store *watchlist.Store, item media.Item, status media.Status) (media.Item, error) {
	wasTracked := store.IsTracked(ctx, item)
	moved, err := store.MoveTo(ctx, item, status)
	if err != nil {
		return nil, err
	}
	series, ok := moved.(media.Series)
	if !ok || wasTracked {
		return moved, nil
	}
	refreshed, err := store.RefreshEpisodes(ctx, series)
	if err != nil {
		// Episodes can be fetched later with 'watchlist refresh'.
		return moved, nil
	}
	return refreshed, nil
}

func printAdded(w io.Writer, it media.Item) error {
	if jsonOutput {
		return printJSON(w, newItemView(it))
	}
	info := it.Info()
	fmt.Fprintf(w, "Added %s (%s) to %s\n", info.Title, media.YearLabel(info.ReleaseYear), statusLabel(info.Status))
	return nil
}
