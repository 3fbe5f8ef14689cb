package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateSectionDirectHeader(t *testing.T) {
	lines := []string{
		"Zlecenie Nr 12/2024A",
		"MIEJSCE ZAŁADUNKU:",
		"Kowalski Sp. z o.o.",
		"PL62-090  Rokietnica",
		"Miejsce rozładunku",
		"D-10115 Berlin",
	}

	loading := LocateSection(lines, FieldHeader(FieldLoading), DefaultSectionMaxLines)
	assert.Equal(t, []string{"Kowalski Sp. z o.o.", "PL62-090  Rokietnica"}, loading.Lines)

	unloading := LocateSection(lines, FieldHeader(FieldUnloading), DefaultSectionMaxLines)
	assert.Equal(t, []string{"D-10115 Berlin"}, unloading.Lines)
}

func TestLocateSectionPlainSpelling(t *testing.T) {
	lines := []string{"Miejsce zaladunku", "Poznan"}
	assert.Equal(t, []string{"Poznan"}, LocateSection(lines, FieldHeader(FieldLoading), 0).Lines)
}

func TestLocateSectionSplitHeader(t *testing.T) {
	lines := []string{
		"Miejsce",
		"załadunku",
		"PL62-090  Rokietnica",
	}

	section := LocateSection(lines, FieldHeader(FieldLoading), DefaultSectionMaxLines)
	assert.Equal(t, []string{"PL62-090  Rokietnica"}, section.Lines)

	assert.True(t, LocateSection(lines, FieldHeader(FieldUnloading), DefaultSectionMaxLines).Empty())
}

func TestLocateSectionStopsAtNextHeader(t *testing.T) {
	lines := []string{
		"Miejsce rozładunku",
		"65-001  Zielona Góra",
		"Termin rozładunku: 12.03.2024",
		"66-008  Świdnica",
	}

	section := LocateSection(lines, FieldHeader(FieldUnloading), DefaultSectionMaxLines)
	assert.Equal(t, []string{"65-001  Zielona Góra"}, section.Lines)
}

func TestLocateSectionMaxLines(t *testing.T) {
	lines := []string{"Ladestelle", "a", "b", "c", "d"}

	section := LocateSection(lines, FieldHeader(FieldLoading), 2)
	assert.Equal(t, []string{"a", "b"}, section.Lines)
}

func TestLocateSectionDoesNotMatchInsideWords(t *testing.T) {
	lines := []string{"Entladestelle", "50667 Köln"}

	assert.True(t, LocateSection(lines, FieldHeader(FieldLoading), DefaultSectionMaxLines).Empty())
	assert.Equal(t, []string{"50667 Köln"}, LocateSection(lines, FieldHeader(FieldUnloading), DefaultSectionMaxLines).Lines)
}

func TestLocateSectionMissingHeader(t *testing.T) {
	section := LocateSection([]string{"Nadawca", "60-001 Poznań"}, FieldHeader(FieldLoading), DefaultSectionMaxLines)
	assert.True(t, section.Empty())
	assert.Equal(t, "", section.Text())
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d"}, splitLines("a\r\nb\rc\fd"))
}
