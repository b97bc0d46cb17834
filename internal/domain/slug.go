package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRuns    = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// NormalizeSlug turns arbitrary text (typically a business name) into a URL
// slug: accents stripped, lowercased, spaces collapsed to single hyphens.
func NormalizeSlug(text string) string {
	s := stripDiacritics(strings.ToLower(text))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSpaceRuns.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return s
}

func ValidSlug(slug string) bool {
	return len(slug) >= 3 && slugPattern.MatchString(slug)
}

func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
