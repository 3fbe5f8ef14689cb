package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	CountryDE = "DE"
	CountryPL = "PL"
	CountryCZ = "CZ"
	CountryAT = "AT"
	CountryNL = "NL"
	CountryBE = "BE"
	CountryFR = "FR"
	CountrySK = "SK"
	CountryLT = "LT"
)

type Country struct {
	Code  string
	Name  string
	Emoji string
}

var Countries = map[string]Country{
	CountryDE: {Code: "DE", Name: "Germany", Emoji: "🇩🇪"},
	CountryPL: {Code: "PL", Name: "Poland", Emoji: "🇵🇱"},
	CountryCZ: {Code: "CZ", Name: "Czechia", Emoji: "🇨🇿"},
	CountryAT: {Code: "AT", Name: "Austria", Emoji: "🇦🇹"},
	CountryNL: {Code: "NL", Name: "Netherlands", Emoji: "🇳🇱"},
	CountryBE: {Code: "BE", Name: "Belgium", Emoji: "🇧🇪"},
	CountryFR: {Code: "FR", Name: "France", Emoji: "🇫🇷"},
	CountrySK: {Code: "SK", Name: "Slovakia", Emoji: "🇸🇰"},
	CountryLT: {Code: "LT", Name: "Lithuania", Emoji: "🇱🇹"},
}

// zipCountries follows the order of zipCityPatterns.
var zipCountries = []string{CountryPL, CountryDE, CountryPL, CountryDE}

var countryPrefix = regexp.MustCompile(`\b([A-Z]{2})[\s-]\d`)

func GetCountryByCode(code string) (Country, bool) {
	country, exists := Countries[code]
	return country, exists
}

// ExtractCountryCode finds an explicit "DE 68219" / "CZ-110 00" style prefix
// or a standalone country code in an address line.
func ExtractCountryCode(address string) string {
	if m := countryPrefix.FindStringSubmatch(address); m != nil {
		if _, exists := Countries[m[1]]; exists {
			return m[1]
		}
	}

	for _, word := range strings.Fields(address) {
		cleaned := strings.Trim(word, ",.")
		if len(cleaned) == 2 {
			if _, exists := Countries[cleaned]; exists {
				return cleaned
			}
		}
	}
	return ""
}

// zipCountry infers the country from the shape of the first zip-anchored
// line. An explicit country prefix wins over the digit grouping.
func zipCountry(lines []string) string {
	for _, line := range lines {
		for i, pattern := range zipCityPatterns {
			if !pattern.MatchString(line) {
				continue
			}
			if code := ExtractCountryCode(line); code != "" {
				return code
			}
			return zipCountries[i]
		}
	}
	return ""
}

// SectionCountries reports the country of the loading and unloading
// sections, "" when a section is missing or has no zip anchor.
func (e *CityExtractor) SectionCountries(text string) (loading, unloading string) {
	lines := splitLines(norm.NFC.String(text))
	loading = zipCountry(LocateSection(lines, e.loading, e.maxLines).Lines)
	unloading = zipCountry(LocateSection(lines, e.unloading, e.maxLines).Lines)
	return loading, unloading
}
