// Package parser turns the text of a transport order into an Order: city
// resolution for the loading and unloading places plus the simple fields
// (order number, unloading date, license plate, freight price).
package parser

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

const (
	FieldLoading   = "loading"
	FieldUnloading = "unloading"

	OrderNumber   = "order number"
	UnloadingDate = "unloading date"
	LicensePlate  = "license plate"
	Freight       = "freight"
	Street        = "street"
	Annotation    = "annotation"
)

// DefaultSectionMaxLines is how many lines after a header belong to its section.
const DefaultSectionMaxLines = 30

// HeaderKeywords holds the literal header variants per city field. Diacritic
// and plain spellings are listed separately, nothing is folded.
var HeaderKeywords = map[string][]string{
	FieldLoading:   {"miejsce załadunku", "miejsce zaladunku", "ladestelle", "beladestelle"},
	FieldUnloading: {"miejsce rozładunku", "miejsce rozladunku", "entladestelle"},
}

// SplitHeaderKeywords are the continuations of a header broken over two
// lines ("Miejsce" / "załadunku").
var SplitHeaderKeywords = map[string][]string{
	FieldLoading:   {"załadunku", "zaladunku"},
	FieldUnloading: {"rozładunku", "rozladunku"},
}

const SplitHeaderLabel = "miejsce"

var DetailsKeywords = map[string][]string{
	OrderNumber:   {"zlecenie nr", "speditionsauftrag"},
	UnloadingDate: {"termin rozładunku", "termin rozladunku", "entladetermin"},
	LicensePlate:  {"samochód", "samochod", "lkw-nr"},
	Freight:       {"vereinbarter frachtpreis", "uzgodniony fracht"},

	Street:     {"str.", "straße", "strasse", "allee", "ul.", "ulica", "platz", "ring", "weg", "gasse"},
	Annotation: {"na zlec", "auftr", "auftrag", "attn"},
}

// streetWords only count as street markers when they open the line or a
// field ("Am Markt 3", "Adres: An der Alster 5"). Hamburg, Amberg and
// Frankfurt am Main pass.
var streetWords = []string{"am", "an der"}

// NextHeaderTokens end a section. Every city header and every simple-field
// label is a delimiter.
var NextHeaderTokens []string

var (
	nextHeaderMatcher *regexp.Regexp
	streetWordMatcher *regexp.Regexp
	annotationMatcher *regexp.Regexp
	columnGap         = regexp.MustCompile(`\s{2,}`)
)

func init() {
	NextHeaderTokens = slices.Concat(
		HeaderKeywords[FieldLoading],
		HeaderKeywords[FieldUnloading],
		DetailsKeywords[OrderNumber],
		DetailsKeywords[UnloadingDate],
		DetailsKeywords[LicensePlate],
		DetailsKeywords[Freight],
	)

	nextHeaderMatcher = keywordMatcher(NextHeaderTokens)
	streetWordMatcher = regexp.MustCompile(`(?i)(?:^|[:,;]|\s{2})\s*(?:` + quoteAll(streetWords) + `)(?:$|[^\p{L}])`)
	annotationMatcher = regexp.MustCompile(`(?i)(?:` + quoteAll(DetailsKeywords[Annotation]) + `)`)
}

// keywordMatcher matches any of the keywords case-insensitively, as long as
// the keyword does not continue a preceding word ("ladestelle" does not match
// inside "Entladestelle").
func keywordMatcher(keywords []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + quoteAll(keywords) + `)`)
}

func quoteAll(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(quoted, "|")
}

func looksLikeHeader(line string) bool {
	return nextHeaderMatcher.MatchString(line)
}

func looksLikeStreet(text string) bool {
	lower := strings.ToLower(text)
	for _, token := range DetailsKeywords[Street] {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return streetWordMatcher.MatchString(text)
}

// tooNumeric reports lines that are mostly digits: phone numbers, ids, dates.
func tooNumeric(line string) bool {
	digits, length := 0, 0
	for _, r := range line {
		length++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits > max(3, length/3)
}

func hasDigit(text string) bool {
	return strings.IndexFunc(text, unicode.IsDigit) >= 0
}

// extractUntilMultipleSpaces cuts text at the first column gap of a
// layout-preserving PDF rendering.
func extractUntilMultipleSpaces(text string) string {
	loc := columnGap.FindStringIndex(text)
	if loc != nil {
		return strings.TrimSpace(text[:loc[0]])
	}
	return strings.TrimSpace(text)
}

// pdftotext ends every page with a form feed.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n")

func splitLines(text string) []string {
	return strings.Split(lineBreaks.Replace(text), "\n")
}
