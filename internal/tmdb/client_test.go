package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMovie(t *testing.T) {
	// Mock TMDB API
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/27205", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))

		resp := Movie{
			ID:          27205,
			Title:       "Inception",
			Overview:    "Cobb, a skilled thief who commits corporate espionage...",
			ReleaseDate: "2010-07-15",
			PosterPath:  "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg",
			Runtime:     148,
			Genres:      []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, int64(27205), movie.ID)
	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, 2010, movie.Year())
	assert.Equal(t, 148, movie.Runtime)
	assert.Equal(t, "Action", movie.Genres[0].Name)
}

func TestClient_GetMovie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 99999999)
	assert.Nil(t, movie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetMovie_Cached(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		resp := Movie{ID: 27205, Title: "Inception"}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCacheTTL(time.Hour))

	// First call hits API
	_, err := client.GetMovie(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)

	// Second call uses cache
	_, err = client.GetMovie(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, 1, callCount, "should use cache, not call API again")
}

func TestClient_SearchMulti(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/multi", r.URL.Path)
		assert.Equal(t, "game of thrones", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"page":1,"total_results":2,"results":[
			{"id":1399,"media_type":"tv","name":"Game of Thrones"},
			{"id":1223786,"media_type":"person","name":"Someone"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	results, err := client.SearchMulti(context.Background(), "game of thrones")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(1399), results[0].ID)
	assert.Equal(t, MediaTypeTV, results[0].MediaType)
	assert.Equal(t, MediaTypePerson, results[1].MediaType)
}

func TestClient_GetTV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/1399", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 1399, "name": "Game of Thrones", "first_air_date": "2011-04-17",
			"episode_run_time": [60], "number_of_episodes": 73,
			"genres": [{"id": 18, "name": "Drama"}],
			"seasons": [
				{"id": 3627, "name": "Specials", "season_number": 0, "episode_count": 14},
				{"id": 3624, "name": "Season 1", "season_number": 1, "episode_count": 10}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	tv, err := client.GetTV(context.Background(), 1399)
	require.NoError(t, err)
	assert.Equal(t, "Game of Thrones", tv.Name)
	assert.Equal(t, 2011, tv.Year())
	assert.Equal(t, 60, tv.Runtime())
	assert.Equal(t, 73, tv.NumberOfEpisodes)
	require.Len(t, tv.Seasons, 2)
	assert.Equal(t, 0, tv.Seasons[0].SeasonNumber)
}

func TestClient_GetSeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/1399/season/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 3624, "season_number": 1, "episodes": [
			{"id": 63056, "name": "Winter Is Coming", "air_date": "2011-04-17", "season_number": 1, "episode_number": 1},
			{"id": 63057, "name": "The Kingsroad", "air_date": null, "season_number": 1, "episode_number": 2}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	season, err := client.GetSeason(context.Background(), 1399, 1)
	require.NoError(t, err)
	require.Len(t, season.Episodes, 2)
	assert.Equal(t, "2011-04-17", season.Episodes[0].AirDate)
	assert.Equal(t, "", season.Episodes[1].AirDate, "null air date decodes empty")
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient("k", WithBaseURL(server.URL)).GetTV(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUnexpectedResponse)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "not a number"`))
		}))
		defer server.Close()

		_, err := NewClient("k", WithBaseURL(server.URL)).GetTV(context.Background(), 1)
		assert.ErrorIs(t, err, ErrUnexpectedResponse)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewClient("k", WithBaseURL(url)).SearchMulti(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", PosterURL("/abc.jpg", "w500"))
	assert.Equal(t, "", PosterURL("", "w500"))
}
