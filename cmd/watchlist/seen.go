package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/events"
	"github.com/vmunix/watchlist/internal/media"
)

var seenCmd = &cobra.Command{
	Use:   "seen <series> [S01E02]",
	Short: "Mark episodes as watched",
	Long: `Mark an episode as watched. Without an episode the next unwatched one
is marked. --season marks a whole season, --unseen reverses the mark.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSeenCmd,
}

func init() {
	rootCmd.AddCommand(seenCmd)
	seenCmd.Flags().Int("season", -1, "Mark every episode of this season")
	seenCmd.Flags().Bool("unseen", false, "Mark as not watched instead")
}

type seenResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Season  int    `json:"season"`
	Episode int    `json:"episode,omitempty"`
	Seen    bool   `json:"seen"`
	Watched int    `json:"episodes_seen"`
	Known   int    `json:"episodes_known"`
}

func runSeenCmd(cmd *cobra.Command, args []string) error {
	season, _ := cmd.Flags().GetInt("season")
	unseen, _ := cmd.Flags().GetBool("unseen")
	wholeSeason := cmd.Flags().Changed("season")
	if wholeSeason && len(args) > 1 {
		return errors.New("give either an episode or --season, not both")
	}

	var coord *media.Coordinate
	if len(args) > 1 {
		c, err := parseCoordinate(args[1])
		if err != nil {
			return err
		}
		coord = &c
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		series, err := findSeries(ctx, a.store, args[0])
		if err != nil {
			return err
		}

		res := seenResult{ID: series.ID, Title: series.Title, Seen: !unseen}
		if !wholeSeason && coord == nil {
			next, ok := a.store.NextUnwatchedEpisode(series)
			if !ok {
				return fmt.Errorf("no unwatched episodes of %s are known; try 'watchlist refresh %s'", series.Title, args[0])
			}
			c := next.Coordinate()
			coord = &c
		}

		var updated media.Series
		filter := events.Filter{Types: []string{events.EventEpisodeSeen, events.EventSeasonSeen}, Key: series.Key()}
		happened, err := a.record(filter, 4, func() error {
			var err error
			if wholeSeason {
				res.Season = season
				updated, err = a.store.SetSeasonSeen(ctx, series.Key(), season, !unseen)
				return err
			}
			res.Season, res.Episode = coord.Season, coord.Episode
			updated, err = a.store.SetEpisodeSeen(ctx, series.Key(), coord.Season, coord.Episode, !unseen)
			return err
		})
		if err != nil {
			return err
		}
		res.Watched, res.Known = updated.Progress()

		if jsonOutput {
			return printJSON(w, res)
		}
		for _, e := range happened {
			fmt.Fprintf(w, "%s (%d/%d seen)\n", capitalize(events.Describe(e)), res.Watched, res.Known)
		}
		if res.Seen && res.Known > 0 && res.Watched == res.Known && updated.Status != media.StatusHistory {
			fmt.Fprintf(w, "All caught up. Move it to history with 'watchlist done %q'.\n", updated.Title)
		}
		return nil
	})
}
