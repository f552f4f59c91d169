package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// \p{Zs} covers the non-breaking spaces html.UnescapeString leaves
	// behind, which Go's \s does not match.
	whitespaceRe  = regexp.MustCompile(`[\s\p{Zs}]+`)
	leadingIntRe  = regexp.MustCompile(`^-?\d+`)
	reservedWords = map[string]bool{"1": true, "si": true, "s": true, "true": true}
)

// comparableTransformer decomposes text and drops combining marks so
// accented and unaccented spellings compare equal.
var comparableTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeWhitespace collapses whitespace runs to single spaces and
// trims the ends. It never fails; empty input yields an empty string.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NormalizeComparable lower-cases and strips diacritics on top of
// whitespace normalization. Used for alias and keyword matching.
func NormalizeComparable(s string) string {
	normalized := NormalizeWhitespace(s)
	stripped, _, err := transform.String(comparableTransformer, normalized)
	if err != nil {
		stripped = normalized
	}
	return strings.ToLower(stripped)
}

// ParseInteger parses a leading integer from s, returning fallback when
// no finite integer is present.
func ParseInteger(s string, fallback int) int {
	match := leadingIntRe.FindString(strings.TrimSpace(s))
	if match == "" {
		return fallback
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return fallback
	}
	return n
}

// ParseReserved reports whether s spells one of the fixed truthy tokens
// the portal uses for reserved-quota flags. Everything else, including
// the empty string, is false.
func ParseReserved(s string) bool {
	return reservedWords[NormalizeComparable(s)]
}

// dayCodes maps the portal's single-letter day codes to canonical day
// names. K is Tuesday and M is Wednesday; the mapping is the portal's,
// not alphabetical.
var dayCodes = map[string]string{
	"l": "Lunes",
	"k": "Martes",
	"m": "Miércoles",
	"j": "Jueves",
	"v": "Viernes",
	"s": "Sábado",
	"d": "Domingo",
}

var dayNames = map[string]string{
	"lunes":     "Lunes",
	"martes":    "Martes",
	"miercoles": "Miércoles",
	"jueves":    "Jueves",
	"viernes":   "Viernes",
	"sabado":    "Sábado",
	"domingo":   "Domingo",
}

// NormalizeDay resolves a raw day token, either a single-letter code or
// a full accent-insensitive day name, to the canonical day string. It
// returns the empty string when the token is not a known day.
func NormalizeDay(raw string) string {
	token := NormalizeComparable(raw)
	if token == "" {
		return ""
	}
	if len(token) == 1 {
		return dayCodes[token]
	}
	return dayNames[token]
}

// NormalizeTimeParts builds a zero-padded HH:MM string from separate
// hour and minute texts. The boolean result is false when either part
// is missing or out of range.
func NormalizeTimeParts(hourText, minuteText string) (string, bool) {
	hour, err := strconv.Atoi(strings.TrimSpace(hourText))
	if err != nil || hour < 0 || hour > 23 {
		return "", false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minuteText))
	if err != nil || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// firstTextLine returns the first non-empty plain-text line of a cell
// that may contain multiple lines separated by markup.
func firstTextLine(innerHTML string) string {
	for _, line := range splitHTMLLines(innerHTML) {
		if line != "" {
			return line
		}
	}
	return ""
}
