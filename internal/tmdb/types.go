// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Media types reported by search/multi.
const (
	MediaTypeMovie  = "movie"
	MediaTypeTV     = "tv"
	MediaTypePerson = "person"
)

// Movie represents TMDB movie metadata.
type Movie struct {
	ID          int64   `json:"id"`
	IMDBID      string  `json:"imdb_id,omitempty"` // e.g., "tt1375666"
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"` // "2010-07-15"
	PosterPath  string  `json:"poster_path"`  // "/abc123.jpg"
	VoteAverage float64 `json:"vote_average"`
	Runtime     int     `json:"runtime"` // minutes
	Genres      []Genre `json:"genres"`
}

// TV represents TMDB series metadata.
type TV struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Overview         string       `json:"overview"`
	FirstAirDate     string       `json:"first_air_date"`
	PosterPath       string       `json:"poster_path"`
	EpisodeRunTime   []int        `json:"episode_run_time"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	Genres           []Genre      `json:"genres"`
	Seasons          []SeasonInfo `json:"seasons"`
}

// SeasonInfo is the season summary embedded in a TV response.
type SeasonInfo struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date"`
}

// Season is a full season with its episodes.
type Season struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is a single TMDB episode.
type Episode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
}

// Genre represents a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SearchResult is one hit from search/multi.
type SearchResult struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Title     string `json:"title"` // movies
	Name      string `json:"name"`  // tv, person
}

type searchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// Year extracts the year from FirstAirDate.
func (t *TV) Year() int {
	return yearOf(t.FirstAirDate)
}

// Runtime returns the first reported episode runtime, or 0.
func (t *TV) Runtime() int {
	if len(t.EpisodeRunTime) == 0 {
		return 0
	}
	return t.EpisodeRunTime[0]
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}
