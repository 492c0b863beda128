package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/watchlist/internal/media"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"yesterday", now.Add(-30 * time.Hour), "yesterday"},
		{"days", now.Add(-72 * time.Hour), "3d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimeAgo(tt.t, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Dark", truncate("Dark", 10))
	assert.Equal(t, "The Lord...", truncate("The Lord of the Rings", 11))
	assert.Equal(t, "Amé", truncate("Amélie", 3))
	assert.Equal(t, "Am...", truncate("Amélie Poulain", 5))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "To watch", capitalize("to watch"))
	assert.Equal(t, "", capitalize(""))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "to watch", statusLabel(media.StatusToWatch))
	assert.Equal(t, "watching", statusLabel(media.StatusWatching))
	assert.Equal(t, "history", statusLabel(media.StatusHistory))
	assert.Equal(t, "-", statusLabel(media.StatusUntracked))
}

func TestRowInfo(t *testing.T) {
	assert.Equal(t, "2010 • 2h.28min", rowInfo(inception()))

	s := thrones()
	s.Seasons[1].Episodes[0].Seen = true
	s.Notify = true
	s.NotifyText = "S01E02 is out"
	assert.Equal(t, "2011 • 1h.0min • 73 episodes • 1/2 seen • * S01E02 is out", rowInfo(s))
}

func TestPrintItemTable(t *testing.T) {
	var buf bytes.Buffer
	movie := media.WithStatus(inception(), media.StatusToWatch)
	printItemTable(&buf, []media.Item{movie, thrones()}, true)

	out := buf.String()
	assert.Contains(t, out, "#")
	assert.Contains(t, out, "27205")
	assert.Contains(t, out, "Inception")
	assert.Contains(t, out, "to watch")
	assert.Contains(t, out, "1399")
	assert.Contains(t, out, "tv")
	assert.Contains(t, out, "  2   ")
}

func TestNewItemView(t *testing.T) {
	v := newItemView(media.WithStatus(thrones(), media.StatusWatching))
	assert.Equal(t, int64(1399), v.ID)
	assert.Equal(t, media.KindSeries, v.Kind)
	assert.Equal(t, media.StatusWatching, v.Status)
	assert.Equal(t, []string{"Drama"}, v.Genres)
	require.NotNil(t, v.Seen)
	require.NotNil(t, v.Episodes)
	assert.Equal(t, 0, *v.Seen)
	assert.Equal(t, 2, *v.Episodes)

	movie := newItemView(inception())
	assert.Nil(t, movie.Seen)

	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, movie))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Inception", decoded["title"])
	assert.NotContains(t, decoded, "episodes_seen")
	assert.NotContains(t, decoded, "status")
}

func TestEpisodeLine(t *testing.T) {
	assert.Equal(t, "S01E01  Winter Is Coming  (2011-04-17)", episodeLine(ep(1, 1, "Winter Is Coming", "2011-04-17")))
	assert.Equal(t, "S02E05", episodeLine(media.Episode{SeasonNumber: 2, EpisodeNumber: 5}))
}
