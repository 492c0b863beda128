package events

import (
	"fmt"

	"github.com/vmunix/watchlist/internal/media"
)

// Watchlist event types.
const (
	EventItemMoved       = "item.moved"
	EventEpisodeSeen     = "episode.seen"
	EventSeasonSeen      = "season.seen"
	EventSeriesRefreshed = "series.refreshed"
)

// ItemMoved is emitted when an item changes list, is added or is removed.
// An empty status means untracked.
type ItemMoved struct {
	Header
	Title string       `json:"title"`
	From  media.Status `json:"from"`
	To    media.Status `json:"to"`
}

// EpisodeSeen is emitted when a single episode is marked seen or unseen.
type EpisodeSeen struct {
	Header
	Title   string `json:"title"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Seen    bool   `json:"seen"`
}

// SeasonSeen is emitted when a whole season is marked seen or unseen.
type SeasonSeen struct {
	Header
	Title  string `json:"title"`
	Season int    `json:"season"`
	Seen   bool   `json:"seen"`
}

// SeriesRefreshed is emitted after season or episode data was merged in.
type SeriesRefreshed struct {
	Header
	Title         string `json:"title"`
	SeasonsAdded  int    `json:"seasons_added"`
	EpisodesKnown int    `json:"episodes_known"`
}

// Describe renders an event as a one-line activity entry.
func Describe(e Event) string {
	switch v := e.(type) {
	case *ItemMoved:
		switch {
		case v.From == media.StatusUntracked:
			return fmt.Sprintf("added %s (%s)", v.Title, statusLabel(v.To))
		case v.To == media.StatusUntracked:
			return fmt.Sprintf("removed %s", v.Title)
		default:
			return fmt.Sprintf("moved %s from %s to %s", v.Title, statusLabel(v.From), statusLabel(v.To))
		}
	case *EpisodeSeen:
		c := media.Coordinate{Season: v.Season, Episode: v.Episode}
		if v.Seen {
			return fmt.Sprintf("watched %s %s", v.Title, c)
		}
		return fmt.Sprintf("unmarked %s %s", v.Title, c)
	case *SeasonSeen:
		if v.Seen {
			return fmt.Sprintf("watched %s season %d", v.Title, v.Season)
		}
		return fmt.Sprintf("unmarked %s season %d", v.Title, v.Season)
	case *SeriesRefreshed:
		if v.SeasonsAdded > 0 {
			return fmt.Sprintf("refreshed %s (%d new seasons, %d episodes)", v.Title, v.SeasonsAdded, v.EpisodesKnown)
		}
		return fmt.Sprintf("refreshed %s (%d episodes)", v.Title, v.EpisodesKnown)
	default:
		return fmt.Sprintf("%s %s", e.EventType(), e.Key())
	}
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
		return "untracked"
	}
}
