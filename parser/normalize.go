package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	countryZipToken = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(?:PL|D-|D)\s?\d{2}-?\d{3,5}\s*`)
	zipToken        = regexp.MustCompile(`(^|[^\p{L}\p{N}])\d{2}-?\d{3,5}($|[^\p{L}\p{N}])`)
	separators      = regexp.MustCompile(`[;,|]`)
)

// NormalizeCity turns a matched city string into its canonical form: postal
// and country tokens removed, text cut at the first annotation marker or
// separator, whitespace collapsed and every word capitalized. The result is
// stable under repeated normalization.
func NormalizeCity(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFC.String(raw)

	s = countryZipToken.ReplaceAllString(s, "$1")
	for zipToken.MatchString(s) {
		s = zipToken.ReplaceAllString(s, "$1$2")
	}

	if loc := annotationMatcher.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if loc := separators.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first letter and lower-cases the rest. An
// abbreviation keeps its trailing period ("b." becomes "B.").
func capitalize(word string) string {
	if trimmed, ok := strings.CutSuffix(word, "."); ok {
		return capitalize(trimmed) + "."
	}
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}
	return string(unicode.ToTitle(first)) + cases.Lower(language.Und).String(word[size:])
}
