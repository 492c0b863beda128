package media

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrSeasonNotFound indicates the series has no season with that number.
	ErrSeasonNotFound = errors.New("season not found")

	// ErrEpisodeNotFound indicates the season has no episode at that coordinate.
	ErrEpisodeNotFound = errors.New("episode not found")
)

// MergeEpisodes combines freshly fetched episodes with the ones already known.
// Fresh episodes win on every field except Seen, which is carried over from an
// existing episode at the same (season, episode) coordinate. The result is
// sorted by episode number.
func MergeEpisodes(existing, fresh []Episode) []Episode {
	seen := make(map[Coordinate]bool, len(existing))
	for _, e := range existing {
		seen[e.Coordinate()] = e.Seen
	}

	merged := make([]Episode, len(fresh))
	for i, e := range fresh {
		if s, ok := seen[e.Coordinate()]; ok {
			e.Seen = s
		}
		merged[i] = e
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EpisodeNumber < merged[j].EpisodeNumber
	})
	return merged
}

// AppendMissingSeasons adds every season of fresh whose id is not already
// present. Known seasons are never removed. Returns the new series and the
// number of seasons added.
func (s Series) AppendMissingSeasons(fresh []Season) (Series, int) {
	out := s.Clone()
	known := make(map[int64]bool, len(out.Seasons))
	for _, season := range out.Seasons {
		known[season.ID] = true
	}

	added := 0
	for _, season := range fresh {
		if known[season.ID] {
			continue
		}
		known[season.ID] = true
		out.Seasons = append(out.Seasons, Season{
			ID:           season.ID,
			Title:        season.Title,
			SeasonNumber: season.SeasonNumber,
			Episodes:     []Episode{},
		})
		added++
	}
	if added > 0 {
		sort.SliceStable(out.Seasons, func(i, j int) bool {
			return out.Seasons[i].SeasonNumber < out.Seasons[j].SeasonNumber
		})
	}
	return out, added
}

func (s Series) seasonIndex(number int) int {
	for i, season := range s.Seasons {
		if season.SeasonNumber == number {
			return i
		}
	}
	return -1
}

// Season returns the season with the given number.
func (s Series) Season(number int) (Season, bool) {
	if i := s.seasonIndex(number); i >= 0 {
		return s.Seasons[i], true
	}
	return Season{}, false
}

// SetEpisodeSeen returns a copy of the series with one episode's seen flag set.
func (s Series) SetEpisodeSeen(season, episode int, seen bool) (Series, error) {
	si := s.seasonIndex(season)
	if si < 0 {
		return s, fmt.Errorf("series %d season %d: %w", s.ID, season, ErrSeasonNotFound)
	}
	target := Coordinate{Season: season, Episode: episode}
	for ei, e := range s.Seasons[si].Episodes {
		if e.Coordinate() == target {
			out := s.Clone()
			out.Seasons[si].Episodes[ei].Seen = seen
			return out, nil
		}
	}
	return s, fmt.Errorf("series %d %s: %w", s.ID, target, ErrEpisodeNotFound)
}

// SetSeasonSeen returns a copy of the series with every episode of a season
// marked seen or unseen.
func (s Series) SetSeasonSeen(season int, seen bool) (Series, error) {
	si := s.seasonIndex(season)
	if si < 0 {
		return s, fmt.Errorf("series %d season %d: %w", s.ID, season, ErrSeasonNotFound)
	}
	out := s.Clone()
	for ei := range out.Seasons[si].Episodes {
		out.Seasons[si].Episodes[ei].Seen = seen
	}
	return out, nil
}

// NextUnwatched returns the first unseen regular episode in season-then-episode
// order. Specials (season 0) are skipped.
func (s Series) NextUnwatched() (Episode, bool) {
	for _, season := range s.Seasons {
		for _, e := range season.Episodes {
			if e.SeasonNumber > 0 && !e.Seen {
				return e, true
			}
		}
	}
	return Episode{}, false
}

// Progress counts seen and known regular episodes.
func (s Series) Progress() (seen, total int) {
	for _, season := range s.Seasons {
		for _, e := range season.Episodes {
			if e.SeasonNumber == 0 {
				continue
			}
			total++
			if e.Seen {
				seen++
			}
		}
	}
	return seen, total
}
