package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"ordersbot/ner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plOrder = `Zlecenie Nr 12/2024A
Samochód: PN12345A
Miejsce załadunku
Kowalski Sp. z o.o.
ul. Polna 5
PL62-090  Rokietnica      tel. 61 123 45 67
Miejsce rozładunku
Müller GmbH
Hauptstraße 5
D-10115 Berlin
Termin rozładunku: 12.03.2024
Uzgodniony fracht: 1.250,00 €
`

const deOrder = `Speditionsauftrag Nr 05/2024B
Beladestelle
Firma Schmidt
DE 68219 Mannheim
Entladestelle
PL 60-001 Poznań
Entladetermin: 03.04.2024
Vereinbarter Frachtpreis: 980,00 €
LKW-Nr: PN1234A
`

const multiStopOrder = `Miejsce załadunku
PL62-090  Rokietnica
Miejsce rozładunku
66-008  Świdnica
65-001  Zielona Góra
66-008  Świdnica
`

const splitHeaderOrder = `Zlecenie Nr 01/2024C
Miejsce
załadunku
Stęszew b. Poznania
Miejsce rozładunku
Am Markt 3
Hamburg
`

const noHeaderOrder = `Nadawca: Kowalski
Adres: 60-001  Poznań
Odbiorca: Schmidt
D-10115 Berlin
`

const lowercaseOrder = `Miejsce załadunku
odbiór: warszawa
Miejsce rozładunku
D-10115 Berlin
`

func patternExtractor() *CityExtractor {
	return NewCityExtractor(CityExtractorConfig{})
}

func taggedExtractor(tagger ner.Tagger) *CityExtractor {
	return NewCityExtractor(CityExtractorConfig{
		UseTagger: true,
		Models:    []string{"pl_core_news_sm"},
		Load:      loadAll(tagger),
	})
}

func TestExtractPatternDocuments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Cities
	}{
		{"polish order", plOrder, Cities{Loading: "Rokietnica", Unloading: "Berlin"}},
		{"german order", deOrder, Cities{Loading: "Mannheim", Unloading: "Poznań"}},
		{"multi stop", multiStopOrder, Cities{Loading: "Rokietnica", Unloading: "Świdnica-Zielona Góra"}},
		{"split header", splitHeaderOrder, Cities{Loading: "Stęszew B. Poznania", Unloading: "Hamburg"}},
		{"no headers", noHeaderOrder, Cities{Loading: "Poznań", Unloading: "Berlin"}},
		{"empty", "", Cities{}},
	}

	x := patternExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(context.Background(), tt.text))
			assert.Equal(t, tt.want, x.ExtractPatternOnly(context.Background(), tt.text))
		})
	}
}

func TestExtractEntityOnly(t *testing.T) {
	text := "Miejsce załadunku\nmagazyn centralny Warszawa\nMiejsce rozładunku\nodbiorca w Berlin\n"
	x := taggedExtractor(nameTagger{"Warszawa": "GPE", "Berlin": "GPE"})

	got := x.ExtractEntityOnly(context.Background(), text)
	assert.Equal(t, Cities{Loading: "Warszawa", Unloading: "Berlin"}, got)
}

func TestHybridFallsBackToTagger(t *testing.T) {
	x := taggedExtractor(nameTagger{"warszawa": "GPE"})

	got := x.Extract(context.Background(), lowercaseOrder)
	assert.Equal(t, Cities{Loading: "Warszawa", Unloading: "Berlin"}, got)

	// the pattern cascade finds nothing in the loading section, so the
	// document fallback reuses the only anchored city
	pattern := x.ExtractPatternOnly(context.Background(), lowercaseOrder)
	assert.Equal(t, Cities{Loading: "Berlin", Unloading: "Berlin"}, pattern)
}

func TestEntityNeverOverridesZipAnchor(t *testing.T) {
	x := taggedExtractor(nameTagger{"Kowalski": "GPE", "Müller": "GPE"})

	want := Cities{Loading: "Rokietnica", Unloading: "Berlin"}
	assert.Equal(t, want, x.ExtractEntityOnly(context.Background(), plOrder))

	cmp := x.Compare(context.Background(), plOrder)
	assert.Equal(t, want, cmp.Pattern)
	assert.Equal(t, want, cmp.Entity)
	assert.Equal(t, want, cmp.Hybrid)
}

func TestUnavailableTaggerMatchesPatternOnly(t *testing.T) {
	unavailable := NewCityExtractor(CityExtractorConfig{
		UseTagger: true,
		Models:    []string{"pl_core_news_sm"},
		Load: func(ctx context.Context, model string) (ner.Tagger, error) {
			return nil, fmt.Errorf("%w: %s", ner.ErrUnavailable, model)
		},
	})
	plain := patternExtractor()

	for _, text := range []string{plOrder, deOrder, lowercaseOrder, noHeaderOrder} {
		assert.Equal(t, plain.ExtractPatternOnly(context.Background(), text), unavailable.Extract(context.Background(), text))
	}

	status := unavailable.Diagnostics(context.Background())
	assert.True(t, status.Available)
	assert.Empty(t, status.Loaded)
	assert.Equal(t, []string{"pl_core_news_sm"}, status.Missing)
}

func TestDiagnosticsWithoutTagger(t *testing.T) {
	x := NewCityExtractor(CityExtractorConfig{Models: []string{"pl_core_news_sm", "de_core_news_sm"}})

	status := x.Diagnostics(context.Background())
	assert.False(t, status.Available)
	assert.Equal(t, []string{"pl_core_news_sm", "de_core_news_sm"}, status.Requested)
	assert.Equal(t, []string{"pl_core_news_sm", "de_core_news_sm"}, status.Missing)
}

func TestSectionCountries(t *testing.T) {
	x := patternExtractor()

	loading, unloading := x.SectionCountries(plOrder)
	assert.Equal(t, CountryPL, loading)
	assert.Equal(t, CountryDE, unloading)

	loading, unloading = x.SectionCountries(deOrder)
	assert.Equal(t, CountryDE, loading)
	assert.Equal(t, CountryPL, unloading)

	loading, unloading = x.SectionCountries(noHeaderOrder)
	assert.Empty(t, loading)
	assert.Empty(t, unloading)
}

func TestExtractCountryCode(t *testing.T) {
	assert.Equal(t, "CZ", ExtractCountryCode("CZ-110 00 Praha"))
	assert.Equal(t, "AT", ExtractCountryCode("Wien, AT"))
	assert.Equal(t, "", ExtractCountryCode("PL62-090 Rokietnica"))
}

func TestCitiesMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Cities{Loading: "Poznań"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"loading_city":"Poznań","unloading_city":null}`, string(data))

	data, err = json.Marshal(Comparison{})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"pattern": {"loading_city": null, "unloading_city": null},
		"entity": {"loading_city": null, "unloading_city": null},
		"hybrid": {"loading_city": null, "unloading_city": null}
	}`, string(data))
}

// countingTagger records every text it is asked to tag and finds nothing.
type countingTagger struct {
	texts []string
}

func (c *countingTagger) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	c.texts = append(c.texts, text)
	return nil, nil
}

func TestSectionStopsTagsOnce(t *testing.T) {
	section := Section{Lines: []string{"odbiór: 12 34", "tel. 555"}}

	for _, mode := range []Mode{ModeHybrid, ModeEntity} {
		tagger := &countingTagger{}
		x := taggedExtractor(tagger)

		assert.Equal(t, "", x.sectionStops(context.Background(), section, mode), mode)
		assert.Len(t, tagger.texts, 1, mode)
	}
}
