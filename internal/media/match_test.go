package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Office", "office"},
		{"Amélie", "amelie"},
		{"Law & Order: SVU", "law and order svu"},
		{"Schitt's Creek", "schitts creek"},
		{"  Dark  ", "dark"},
		{"The", "the"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanTitle(tt.in), tt.in)
	}
}

func TestMatchTitle(t *testing.T) {
	items := []Item{
		Movie{Details: Details{ID: 27205, Title: "Inception"}},
		Series{Details: Details{ID: 1399, Title: "Game of Thrones"}},
		Series{Details: Details{ID: 1396, Title: "Breaking Bad"}},
	}

	got, score, ok := MatchTitle("breaking bad", items, DefaultMatchThreshold)
	require.True(t, ok)
	assert.Equal(t, int64(1396), got.Key().ID)
	assert.Equal(t, float32(1), score)

	got, _, ok = MatchTitle("game of throne", items, DefaultMatchThreshold)
	require.True(t, ok)
	assert.Equal(t, int64(1399), got.Key().ID)

	_, _, ok = MatchTitle("zzzz", items, DefaultMatchThreshold)
	assert.False(t, ok)

	_, _, ok = MatchTitle("", items, DefaultMatchThreshold)
	assert.False(t, ok)
}
