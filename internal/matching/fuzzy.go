package matching

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Minimum normalized edit similarity for two restaurant names to be
// considered the same venue. 0.8 tolerates a typo or a dropped word marker
// without conflating genuinely different names.
const nameSimilarityThreshold = 0.8

// stripMarks removes combining marks after NFD decomposition, so "Café" and
// "Cafe" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a restaurant name for comparison: lowercased,
// diacritics and punctuation stripped, whitespace collapsed.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	lastSpace := true
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
		// Punctuation drops out entirely.
	}

	return strings.TrimSpace(b.String())
}

// IsFuzzyRestaurantMatch reports whether two restaurant names likely refer to
// the same venue. The comparison is symmetric and tolerant of case,
// punctuation, diacritics, and minor misspellings.
func IsFuzzyRestaurantMatch(a, b string) bool {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	// One name embedding the other ("Le Bernardin" vs "Le Bernardin NYC")
	// counts as the same venue.
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	return levenshtein.Similarity(na, nb, levenshtein.NewParams()) >= nameSimilarityThreshold
}
