package dedup

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	soundRefRe   = regexp.MustCompile(`(?i)\[sound:[^\]]+\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Fold lowercases s and strips diacritics, so "Café" and "cafe" compare
// equal. Characters outside the decomposable range pass through unchanged.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// StripMarkup removes HTML tags and sound references, leaving only the
// visible text. Anki hashes this form of the sort field when computing a
// note's import checksum.
func StripMarkup(s string) string {
	s = soundRefRe.ReplaceAllString(s, "")
	return htmlTagRe.ReplaceAllString(s, "")
}

// Normalize reduces card text to its comparable form: markup and sound
// references removed, whitespace collapsed, trimmed, then folded. Two fields
// are considered the same card content iff their normalized forms are equal.
func Normalize(s string) string {
	s = soundRefRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return Fold(strings.TrimSpace(s))
}
