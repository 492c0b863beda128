package media

import (
	"fmt"
	"strings"
	"time"
)

// FormatRuntime renders a runtime in minutes for display.
// Zero means unknown and renders as an empty string.
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dmin", m)
	}
	return fmt.Sprintf("%dh.%dmin", h, m)
}

// YearLabel renders a release year, using "TBA" for unknown.
func YearLabel(year int) string {
	if year == 0 {
		return "TBA"
	}
	return fmt.Sprintf("%d", year)
}

// Subtitle is the one-line summary shown under a title:
// year, runtime and, for series, the episode count.
func Subtitle(it Item) string {
	info := it.Info()
	parts := []string{YearLabel(info.ReleaseYear)}
	if rt := FormatRuntime(info.Runtime); rt != "" {
		parts = append(parts, rt)
	}
	switch v := it.(type) {
	case Movie:
	case Series:
		parts = append(parts, fmt.Sprintf("%d episodes", v.NumberOfEpisodes))
	default:
		unknownItem(it)
	}
	return strings.Join(parts, " • ")
}

// GenreNames returns up to limit genre names in catalog order.
// A limit of 0 returns all of them.
func GenreNames(info Details, limit int) []string {
	var names []string
	for _, g := range info.Genres {
		if limit > 0 && len(names) == limit {
			break
		}
		names = append(names, g.Name)
	}
	return names
}

const airDateLayout = "2006-01-02"

// Aired reports whether the episode air date is on or before today.
// Episodes without a parseable air date have not aired.
func (e Episode) Aired(today time.Time) bool {
	if e.AirDate == "" {
		return false
	}
	d, err := time.Parse(airDateLayout, e.AirDate)
	if err != nil {
		return false
	}
	y, m, day := today.Date()
	return !d.After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

// Annotate returns a copy of it with the notify hint recomputed.
// A series being watched gets a hint when its next unwatched episode has aired.
func Annotate(it Item, today time.Time) Item {
	switch v := it.(type) {
	case Movie:
		v.Notify, v.NotifyText = false, ""
		return v
	case Series:
		v.Notify, v.NotifyText = false, ""
		if v.Status != StatusWatching {
			return v
		}
		if next, ok := v.NextUnwatched(); ok && next.Aired(today) {
			v.Notify = true
			v.NotifyText = next.Coordinate().String() + " is out"
		}
		return v
	default:
		unknownItem(it)
		return nil
	}
}
