package media

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMatchThreshold is the minimum similarity MatchTitle accepts.
const DefaultMatchThreshold = 0.85

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// CleanTitle normalizes a title for comparison: lowercase, no accents,
// punctuation collapsed to single spaces, leading article dropped.
func CleanTitle(title string) string {
	s := strings.ToLower(removeAccents(title))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.TrimSpace(nonAlnum.ReplaceAllString(s, " "))
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, article) && len(s) > len(article) {
			s = s[len(article):]
			break
		}
	}
	return s
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// MatchTitle picks the item whose title best matches query.
// Exact matches after cleaning always win; otherwise the highest Jaro-Winkler
// similarity at or above threshold is returned.
func MatchTitle(query string, items []Item, threshold float32) (Item, float32, bool) {
	q := CleanTitle(query)
	if q == "" {
		return nil, 0, false
	}

	var best Item
	var bestScore float32
	for _, it := range items {
		candidate := CleanTitle(it.Info().Title)
		if candidate == q {
			return it, 1, true
		}
		score := edlib.JaroWinklerSimilarity(q, candidate)
		if score > bestScore {
			best, bestScore = it, score
		}
	}
	if best == nil || bestScore < threshold {
		return nil, bestScore, false
	}
	return best, bestScore, true
}
