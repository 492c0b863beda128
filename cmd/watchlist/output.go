package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmunix/watchlist/internal/media"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// itemView is the JSON shape of a list row.
type itemView struct {
	ID       int64        `json:"id"`
	Kind     media.Kind   `json:"kind"`
	Title    string       `json:"title"`
	Year     int          `json:"year,omitempty"`
	Status   media.Status `json:"status,omitempty"`
	Summary  string       `json:"summary"`
	Genres   []string     `json:"genres,omitempty"`
	Notify   string       `json:"notify,omitempty"`
	Seen     *int         `json:"episodes_seen,omitempty"`
	Episodes *int         `json:"episodes_known,omitempty"`
}

func newItemView(it media.Item) itemView {
	info := it.Info()
	v := itemView{
		ID:      info.ID,
		Kind:    it.Kind(),
		Title:   info.Title,
		Year:    info.ReleaseYear,
		Status:  info.Status,
		Summary: media.Subtitle(it),
		Genres:  media.GenreNames(info, 3),
	}
	if info.Notify {
		v.Notify = info.NotifyText
	}
	if s, ok := it.(media.Series); ok {
		seen, total := s.Progress()
		v.Seen, v.Episodes = &seen, &total
	}
	return v
}

func itemViews(items []media.Item) []itemView {
	out := make([]itemView, len(items))
	for i, it := range items {
		out[i] = newItemView(it)
	}
	return out
}

func statusLabel(s media.Status) string {
	switch s {
	case media.StatusToWatch:
		return "to watch"
	case media.StatusWatching:
		return "watching"
	case media.StatusHistory:
		return "history"
	default:
		return "-"
	}
}

func kindLabel(k media.Kind) string {
	if k == media.KindSeries {
		return "tv"
	}
	return "movie"
}

// printItemTable writes one row per item. index numbers the rows from 1.
func printItemTable(w io.Writer, items []media.Item, index bool) {
	if index {
		fmt.Fprintf(w, "  %-3s ", "#")
	} else {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "%-8s %-5s %-36s %-9s %s\n", "ID", "KIND", "TITLE", "STATUS", "INFO")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 84))

	for i, it := range items {
		info := it.Info()
		if index {
			fmt.Fprintf(w, "  %-3d ", i+1)
		} else {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintf(w, "%-8d %-5s %-36s %-9s %s\n",
			info.ID, kindLabel(it.Kind()), truncate(info.Title, 36), statusLabel(info.Status), rowInfo(it))
	}
}

// rowInfo is the INFO column: the subtitle, series progress and the notify hint.
func rowInfo(it media.Item) string {
	parts := []string{media.Subtitle(it)}
	if s, ok := it.(media.Series); ok {
		if seen, total := s.Progress(); total > 0 {
			parts = append(parts, fmt.Sprintf("%d/%d seen", seen, total))
		}
	}
	info := it.Info()
	if info.Notify {
		parts = append(parts, "* "+info.NotifyText)
	}
	return strings.Join(parts, " • ")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func formatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	ago := now.Sub(t)
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	case ago < 48*time.Hour:
		return "yesterday"
	default:
		return fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}
}

// episodeLine renders "S01E03  Title  (2017-12-01)".
func episodeLine(e media.Episode) string {
	line := e.Coordinate().String()
	if e.Title != "" {
		line += "  " + e.Title
	}
	if e.AirDate != "" {
		line += "  (" + e.AirDate + ")"
	}
	return line
}
