// Package slug generates URL-friendly identifiers for catalog entities and
// job postings. Generation is deterministic: the same input always yields the
// same slug, so re-importing an entity never produces a different URL.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// maxUniqueAttempts bounds the numeric-suffix retry loop in Unique.
const maxUniqueAttempts = 100

// Make converts free text to a lowercase hyphen-joined slug. Non-ASCII
// letters are folded to their base form where possible, everything that is
// not alphanumeric collapses into single hyphens.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(text) {
		r = foldRune(r)
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// ForLocation builds the city-state slug used in /jobs/in-{slug} URLs,
// e.g. ("San Francisco", "CA") → "san-francisco-ca".
func ForLocation(city, state string) string {
	return Make(city) + "-" + Make(state)
}

// ForJob builds a job slug of the form {title}-{company}-{short-id}. The
// short id is the first six hex characters of the job UUID, enough to keep
// slugs unique across same-title postings from one company.
func ForJob(title, companyName string, id uuid.UUID) string {
	shortID := strings.ReplaceAll(id.String(), "-", "")[:6]
	return fmt.Sprintf("%s-%s-%s", Make(title), Make(companyName), shortID)
}

// Unique returns base (slugified) if unused, otherwise the first available
// "{base}-N" candidate starting at N=2. exists reports whether a slug is
// already taken; its error aborts the search.
func Unique(base string, exists func(string) (bool, error)) (string, error) {
	candidate := Make(base)

	taken, err := exists(candidate)
	if err != nil {
		return "", fmt.Errorf("slug existence check: %w", err)
	}
	if !taken {
		return candidate, nil
	}

	for i := 2; i < maxUniqueAttempts+2; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := exists(next)
		if err != nil {
			return "", fmt.Errorf("slug existence check: %w", err)
		}
		if !taken {
			return next, nil
		}
	}

	return "", fmt.Errorf("no unique slug for %q after %d attempts", base, maxUniqueAttempts)
}

// foldRune maps common accented Latin letters to their ASCII base. Runes
// outside the table that are not alphanumeric are dropped by Make.
func foldRune(r rune) rune {
	if r < 0x80 {
		return r
	}
	if folded, ok := latinFold[r]; ok {
		return folded
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return r // kept as-is; Make drops anything outside [a-z0-9]
	}
	return ' '
}

var latinFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ý': 'y', 'ß': 's',
}
