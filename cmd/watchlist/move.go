package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/events"
	"github.com/vmunix/watchlist/internal/media"
)

var moveCmd = &cobra.Command{
	Use:   "move <item> <status>",
	Short: "Move an item to another list (to_watch, watching, history)",
	Long: `Move a tracked item to another list.

<item> is a title, a TMDB id, or kind:id such as tv:1399.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := media.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return runMove(cmd, args[0], status)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <item>",
	Short: "Move an item to watching",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args[0], media.StatusWatching)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <item>",
	Short: "Move an item to history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args[0], media.StatusHistory)
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <item>",
	Aliases: []string{"rm"},
	Short:   "Remove an item from your watchlist",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args[0], media.StatusUntracked)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(removeCmd)
}

func runMove(cmd *cobra.Command, ref string, status media.Status) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		item, err := findTracked(ctx, a.store, ref)
		if err != nil {
			return err
		}
		var moved media.Item
		happened, err := a.record(events.Filter{Types: []string{events.EventItemMoved}, Key: item.Key()}, 4, func() error {
			var err error
			moved, err = a.store.MoveTo(ctx, item, status)
			return err
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(w, newItemView(moved))
		}
		for _, e := range happened {
			fmt.Fprintln(w, capitalize(events.Describe(e)))
		}
		return nil
	})
}
