package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/media"
)

var showCmd = &cobra.Command{
	Use:   "show <item>",
	Short: "Show details of a tracked item",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowCmd,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolP("episodes", "e", false, "List every episode")
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	withEpisodes, _ := cmd.Flags().GetBool("episodes")
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		item, err := findTracked(ctx, a.store, args[0])
		if err != nil {
			return err
		}
		shown, err := a.store.ShowDetail(ctx, item)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(w, shown)
		}
		printDetail(w, shown, withEpisodes, time.Now())
		return nil
	})
}

func printDetail(w io.Writer, it media.Item, withEpisodes bool, now time.Time) {
	info := it.Info()
	fmt.Fprintf(w, "%s\n", info.Title)
	fmt.Fprintf(w, "  %s\n\n", media.Subtitle(it))
	fmt.Fprintf(w, "  %-10s %s:%d\n", "TMDB:", it.Kind(), info.ID)
	fmt.Fprintf(w, "  %-10s %s\n", "List:", statusLabel(info.Status))
	if genres := media.GenreNames(info, 0); len(genres) > 0 {
		fmt.Fprintf(w, "  %-10s %s\n", "Genres:", strings.Join(genres, ", "))
	}
	if info.PosterURL != "" {
		fmt.Fprintf(w, "  %-10s %s\n", "Poster:", info.PosterURL)
	}
	if info.Notify {
		fmt.Fprintf(w, "  %-10s %s\n", "Next:", info.NotifyText)
	}
	if info.Overview != "" {
		fmt.Fprintf(w, "\n  %s\n", info.Overview)
	}

	s, ok := it.(media.Series)
	if !ok {
		return
	}
	seen, total := s.Progress()
	fmt.Fprintf(w, "\n  Seasons (%d/%d episodes seen, updated %s):\n", seen, total, formatTimeAgo(s.LastUpdated, now))
	for _, season := range s.Seasons {
		sSeen := 0
		for _, e := range season.Episodes {
			if e.Seen {
				sSeen++
			}
		}
		fmt.Fprintf(w, "    %-24s %d/%d\n", truncate(season.Title, 24), sSeen, len(season.Episodes))
		if !withEpisodes {
			continue
		}
		for _, e := range season.Episodes {
			mark := " "
			if e.Seen {
				mark = "x"
			}
			fmt.Fprintf(w, "      [%s] %s\n", mark, episodeLine(e))
		}
	}
}
