package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/media"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show your watchlist",
	Args:    cobra.NoArgs,
	RunE:    runListCmd,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("status", "s", "", "Only show one list (to_watch, watching, history)")
	listCmd.Flags().StringP("kind", "k", "", "Only show movies or tv")
}

// listOrder is the order lists are printed in.
var listOrder = []media.Status{media.StatusWatching, media.StatusToWatch, media.StatusHistory}

func runListCmd(cmd *cobra.Command, args []string) error {
	statusArg, _ := cmd.Flags().GetString("status")
	kindArg, _ := cmd.Flags().GetString("kind")

	statuses := listOrder
	if statusArg != "" {
		status, err := media.ParseStatus(statusArg)
		if err != nil {
			return err
		}
		statuses = []media.Status{status}
	}
	kind, err := parseKind(kindArg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		groups := make(map[media.Status][]media.Item, len(statuses))
		var all []media.Item
		for _, status := range statuses {
			items := filterKind(a.store.ByStatus(ctx, status), kind)
			groups[status] = items
			all = append(all, items...)
		}

		if jsonOutput {
			return printJSON(w, itemViews(all))
		}
		if len(all) == 0 {
			fmt.Fprintln(w, "Your watchlist is empty. Add something with 'watchlist add <title>'.")
			return nil
		}
		printGroups(w, statuses, groups)
		return nil
	})
}

func printGroups(w io.Writer, order []media.Status, groups map[media.Status][]media.Item) {
	first := true
	for _, status := range order {
		items := groups[status]
		if len(items) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "%s (%d):\n", capitalize(statusLabel(status)), len(items))
		printItemTable(w, items, false)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
