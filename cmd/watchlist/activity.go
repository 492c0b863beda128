package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/events"
)

var activityCmd = &cobra.Command{
	Use:   "activity [item]",
	Short: "Show what you added, moved and watched recently",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runActivityCmd,
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.Flags().IntP("limit", "n", 20, "Number of entries to show (0 for all)")
	activityCmd.Flags().Duration("since", 0, "Only show entries newer than this (e.g. 168h)")
	activityCmd.Flags().Duration("prune", 0, "Delete entries older than this first")
}

type activityEntry struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Entity      string    `json:"entity"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func runActivityCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")
	prune, _ := cmd.Flags().GetDuration("prune")
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	return withApp(ctx, func(a *app) error {
		if prune > 0 {
			n, err := a.eventLog.Prune(ctx, prune)
			if err != nil {
				return fmt.Errorf("prune activity: %w", err)
			}
			a.log.Info("pruned activity", "entries", n, "older_than", prune)
		}

		var (
			raw []events.RawEvent
			err error
		)
		switch {
		case len(args) == 1:
			item, ferr := findTracked(ctx, a.store, args[0])
			if ferr != nil {
				return ferr
			}
			raw, err = a.eventLog.ForItem(ctx, item.Key())
			reverse(raw)
		case since > 0:
			raw, err = a.eventLog.Since(ctx, time.Now().Add(-since))
			reverse(raw)
		case limit <= 0:
			raw, err = a.eventLog.Since(ctx, time.Time{})
			reverse(raw)
		default:
			raw, err = a.eventLog.Recent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("read activity: %w", err)
		}
		if limit > 0 && len(raw) > limit {
			raw = raw[:limit]
		}

		entries := describeAll(raw)
		if jsonOutput {
			return printJSON(w, entries)
		}
		printActivity(w, entries, time.Now())
		return nil
	})
}

// describeAll renders logged events newest first. Entries whose payload
// cannot be decoded fall back to their type and entity.
func describeAll(raw []events.RawEvent) []activityEntry {
	out := make([]activityEntry, 0, len(raw))
	for _, r := range raw {
		entry := activityEntry{
			ID:         r.ID,
			Type:       r.EventType,
			Entity:     r.Key.String(),
			OccurredAt: r.OccurredAt,
		}
		if e, err := events.Decode(r); err == nil {
			entry.Description = events.Describe(e)
		} else {
			entry.Description = r.EventType + " " + entry.Entity
		}
		out = append(out, entry)
	}
	return out
}

func printActivity(w io.Writer, entries []activityEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity")
		return
	}
	fmt.Fprintf(w, "  %-12s %s\n", "WHEN", "WHAT")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-12s %s\n", formatTimeAgo(e.OccurredAt, now), e.Description)
	}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
