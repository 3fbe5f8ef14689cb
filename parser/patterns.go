package parser

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	plLetters = `A-Za-zĄĆĘŁŃÓŚŻŹąćęłńóśżź`
	deLetters = `A-Za-zÄÖÜäöüẞß`

	// a zip code must not continue a word or a number
	zipStart = `(?:^|[^\p{L}\p{N}])`
)

// zipCityPatterns in priority order: country-prefixed PL and DE codes, then
// the bare PL and DE shapes. Group 1 is the city including a "b. <place>"
// (near) suffix.
var zipCityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + zipStart + `PL\s?\d{2}-\d{3}\s+([` + plLetters + ` .\-']+(?:\s+b\.\s+[` + plLetters + ` .\-']+)?)`),
	regexp.MustCompile(`(?i)` + zipStart + `D\s?-?\d{4,5}\s+([` + deLetters + ` .\-']+)`),
	regexp.MustCompile(zipStart + `\d{2}-\d{3}\s+([` + plLetters + ` .\-']+(?:\s+b\.\s+[` + plLetters + ` .\-']+)?)`),
	regexp.MustCompile(zipStart + `\d{5}\s+([` + deLetters + ` .\-']+)`),
}

// bareCityPattern is the weak fallback: a capitalized run of letters.
var bareCityPattern = regexp.MustCompile(
	`(?:^|[^\p{L}\p{N}])([A-ZĄĆĘŁŃÓŚŻŹÄÖÜ][A-Za-zĄĆĘŁŃÓŚŻŹąćęłńóśżźÄÖÜäöüẞß .\-']{2,}(?:\s+b\.\s+[A-Za-z .\-']+)?)`,
)

// cityMatcher recovers a normalized city from one line, or "" if the line
// carries none.
type cityMatcher func(line string) string

// zipCity tries every zip-anchored pattern on the line in priority order.
func zipCity(line string) string {
	for _, pattern := range zipCityPatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		raw := strings.TrimRight(extractUntilMultipleSpaces(m[1]), " -'")
		if city := NormalizeCity(raw); city != "" {
			return city
		}
	}
	return ""
}

// bareCity matches a capitalized token on a line that is neither a street
// nor a header. Mostly numeric lines are skipped as well, which is stricter
// than the zip phase: phone and reference lines never yield a bare city.
func bareCity(line string) string {
	if looksLikeStreet(line) || tooNumeric(line) || looksLikeHeader(line) {
		return ""
	}
	m := bareCityPattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	raw := strings.TrimRightFunc(extractUntilMultipleSpaces(m[1]), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len([]rune(raw)) < 3 {
		return ""
	}
	return NormalizeCity(raw)
}

// firstCity returns the first line's city in document order.
func firstCity(lines []string, match cityMatcher) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if city := match(line); city != "" {
			return city
		}
	}
	return ""
}

// allCities collects at most one city per line, in document order, without
// duplicates.
func allCities(lines []string, match cityMatcher) []string {
	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		city := match(line)
		if city == "" || seen[city] {
			continue
		}
		seen[city] = true
		found = append(found, city)
	}
	return found
}

// PatternCity runs the cascade in single-city mode. The zip phase covers
// every line before the bare-token phase starts, so a weak match never
// overrides an anchored one.
func PatternCity(lines []string) string {
	if city := firstCity(lines, zipCity); city != "" {
		return city
	}
	return firstCity(lines, bareCity)
}

// PatternCities runs the cascade in multi-stop mode.
func PatternCities(lines []string) []string {
	if cities := allCities(lines, zipCity); len(cities) > 0 {
		return cities
	}
	return allCities(lines, bareCity)
}

// ZipCity runs only the zip-anchored phase. The entity strategy uses it to
// check whether a section already has an anchored answer.
func ZipCity(lines []string) string {
	return firstCity(lines, zipCity)
}

func ZipCities(lines []string) []string {
	return allCities(lines, zipCity)
}
