package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, LoadLocalesFrom("../locales"))

	assert.Equal(t, "not found", Translate(English, "field_missing"))
	assert.Equal(t, "brak", Translate(Polish, "field_missing"))
	assert.Equal(t, "2 field(s) could not be found.", Translate(English, "order_incomplete", 2))
	assert.Equal(t, "no_such_key", Translate(German, "no_such_key"))

	// unknown languages read the English strings
	assert.Equal(t, Translate(English, "send_pdf"), Translate(LangCode("fr"), "send_pdf"))
}

func TestLocalesShareKeys(t *testing.T) {
	require.NoError(t, LoadLocalesFrom("../locales"))

	localesMu.RLock()
	defer localesMu.RUnlock()
	for _, lang := range Languages {
		assert.Len(t, locales[lang], len(locales[English]), lang)
		for key := range locales[English] {
			assert.Contains(t, locales[lang], key, lang)
		}
	}
}

func TestLoadLocalesMissingDir(t *testing.T) {
	assert.Error(t, LoadLocalesFrom(t.TempDir()))
}

func TestUserLang(t *testing.T) {
	assert.Equal(t, Polish, GetLang(-1))

	SetUserLang(-2, German)
	assert.Equal(t, German, GetLang(-2))

	assert.True(t, German.IsValid())
	assert.False(t, LangCode("fr").IsValid())
}
