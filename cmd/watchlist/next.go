package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/media"
)

var nextCmd = &cobra.Command{
	Use:   "next [series]",
	Short: "Show the next episode to watch",
	Long:  "Show the next unwatched episode of a series, or of every series you are watching.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNextCmd,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

type nextEpisode struct {
	ID      int64          `json:"id"`
	Title   string         `json:"title"`
	Episode *media.Episode `json:"episode,omitempty"`
	Aired   bool           `json:"aired"`
	Known   int            `json:"episodes_known"`
}

func runNextCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		var series []media.Series
		if len(args) == 1 {
			s, err := findSeries(ctx, a.store, args[0])
			if err != nil {
				return err
			}
			series = append(series, s)
		} else {
			for _, it := range a.store.ByStatus(ctx, media.StatusWatching) {
				if s, ok := it.(media.Series); ok {
					series = append(series, s)
				}
			}
		}

		today := time.Now()
		rows := make([]nextEpisode, 0, len(series))
		for _, s := range series {
			row := nextEpisode{ID: s.ID, Title: s.Title}
			_, row.Known = s.Progress()
			if ep, ok := a.store.NextUnwatchedEpisode(s); ok {
				row.Episode = &ep
				row.Aired = ep.Aired(today)
			}
			rows = append(rows, row)
		}

		if jsonOutput {
			return printJSON(w, rows)
		}
		if len(rows) == 0 {
			fmt.Fprintln(w, "You are not watching any series. Start one with 'watchlist start <title>'.")
			return nil
		}
		for _, r := range rows {
			switch {
			case r.Known == 0:
				fmt.Fprintf(w, "%s: no episodes known yet, run 'watchlist refresh'\n", r.Title)
			case r.Episode == nil:
				fmt.Fprintf(w, "%s: all caught up\n", r.Title)
			case r.Aired:
				fmt.Fprintf(w, "%s: %s\n", r.Title, episodeLine(*r.Episode))
			default:
				fmt.Fprintf(w, "%s: %s (not aired yet)\n", r.Title, episodeLine(*r.Episode))
			}
		}
		return nil
	})
}
