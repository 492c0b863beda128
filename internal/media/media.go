// Package media defines the tracked entities (movies, series, seasons, episodes)
// and the pure rules that operate on them.
package media

import (
	"fmt"
	"time"
)

// Kind distinguishes movies from series. It is part of the persistence key.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "tv"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// Status is the list an item is shown in.
// The zero value means untracked.
type Status string

const (
	StatusUntracked Status = ""
	StatusToWatch   Status = "to_watch"
	StatusWatching  Status = "watching"
	StatusHistory   Status = "history"
)

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "to_watch", "towatch", "to-watch":
		return StatusToWatch, nil
	case "watching":
		return StatusWatching, nil
	case "history", "watched":
		return StatusHistory, nil
	}
	return StatusUntracked, fmt.Errorf("unknown status %q", s)
}

// Key identifies an item across the store and the database.
type Key struct {
	ID   int64
	Kind Kind
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Details holds the fields shared by movies and series.
type Details struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Genres      []Genre `json:"genres"`
	ReleaseYear int     `json:"release_year"` // 0 = TBA
	PosterURL   string  `json:"poster_url"`
	Runtime     int     `json:"runtime"` // minutes
	Status      Status  `json:"status"`

	// Recomputed by Annotate, never stored.
	Notify     bool   `json:"-"`
	NotifyText string `json:"-"`
}

// Item is a movie or a series. The set of implementations is closed.
type Item interface {
	Key() Key
	Kind() Kind
	Info() Details
	item()
}

// Movie is a tracked film.
type Movie struct {
	Details
}

func (m Movie) Key() Key      { return Key{ID: m.ID, Kind: KindMovie} }
func (m Movie) Kind() Kind    { return KindMovie }
func (m Movie) Info() Details { return m.Details }
func (Movie) item()           {}

// Series is a tracked TV show.
type Series struct {
	Details
	NumberOfEpisodes int       `json:"number_of_episodes"`
	Seasons          []Season  `json:"seasons"`
	LastUpdated      time.Time `json:"last_updated"`
}

func (s Series) Key() Key      { return Key{ID: s.ID, Kind: KindSeries} }
func (s Series) Kind() Kind    { return KindSeries }
func (s Series) Info() Details { return s.Details }
func (Series) item()           {}

// Season groups the episodes of one season. Episodes are filled lazily.
type Season struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	SeasonNumber int       `json:"season_number"` // 0 = specials
	Episodes     []Episode `json:"episodes"`
}

// Episode is a single episode. Seen is the only user-editable field.
type Episode struct {
	ID            int64  `json:"id"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date"` // "2011-04-17", empty if unknown
	Title         string `json:"title"`
	Overview      string `json:"overview"`
	Seen          bool   `json:"seen"`
}

// Coordinate is the merge identity of an episode.
type Coordinate struct {
	Season  int
	Episode int
}

func (e Episode) Coordinate() Coordinate {
	return Coordinate{Season: e.SeasonNumber, Episode: e.EpisodeNumber}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("S%02dE%02d", c.Season, c.Episode)
}

// unknownItem panics for an Item implementation this package does not know.
func unknownItem(it Item) {
	panic(fmt.Sprintf("media: unknown item type %T", it))
}

// WithStatus returns a copy of it with the status replaced.
func WithStatus(it Item, status Status) Item {
	switch v := it.(type) {
	case Movie:
		v.Details = v.Details.clone()
		v.Status = status
		return v
	case Series:
		v = v.Clone()
		v.Status = status
		return v
	default:
		unknownItem(it)
		return nil
	}
}

// Clone returns a deep copy of it.
func Clone(it Item) Item {
	switch v := it.(type) {
	case Movie:
		v.Details = v.Details.clone()
		return v
	case Series:
		return v.Clone()
	default:
		unknownItem(it)
		return nil
	}
}

func (d Details) clone() Details {
	if d.Genres != nil {
		d.Genres = append([]Genre(nil), d.Genres...)
	}
	return d
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	s.Details = s.Details.clone()
	if s.Seasons != nil {
		seasons := make([]Season, len(s.Seasons))
		for i, season := range s.Seasons {
			if season.Episodes != nil {
				season.Episodes = append([]Episode(nil), season.Episodes...)
			}
			seasons[i] = season
		}
		s.Seasons = seasons
	}
	return s
}
