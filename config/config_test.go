package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CITY_SECTION_MAX_LINES", "USE_TAGGER_CITIES", "TAGGER_CITY_MODELS", "TAGGER_TIMEOUT", "FRACHT_MIN", "FRACHT_MAX", "DB_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 30, cfg.Extraction.SectionMaxLines)
	assert.True(t, cfg.Extraction.UseTagger)
	assert.Equal(t, []string{"pl_core_news_sm", "de_core_news_sm"}, cfg.Extraction.TaggerModels)
	assert.Equal(t, 30*time.Second, cfg.Extraction.TaggerTimeout)
	assert.Equal(t, 50.0, cfg.Extraction.FreightMin)
	assert.Equal(t, 5000.0, cfg.Extraction.FreightMax)
	assert.Equal(t, "./bot.db", cfg.DBPath)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CITY_SECTION_MAX_LINES", "12")
	t.Setenv("USE_TAGGER_CITIES", "false")
	t.Setenv("TAGGER_CITY_MODELS", " pl_core_news_lg , geonames:PL ,")
	t.Setenv("TAGGER_TIMEOUT", "5s")
	t.Setenv("FRACHT_MAX", "not a number")

	cfg := Load()
	assert.Equal(t, 12, cfg.Extraction.SectionMaxLines)
	assert.False(t, cfg.Extraction.UseTagger)
	assert.Equal(t, []string{"pl_core_news_lg", "geonames:PL"}, cfg.Extraction.TaggerModels)
	assert.Equal(t, 5*time.Second, cfg.Extraction.TaggerTimeout)
	assert.Equal(t, 5000.0, cfg.Extraction.FreightMax)

	t.Setenv("TAGGER_CITY_MODELS", "none")
	assert.Empty(t, Load().Extraction.TaggerModels)
}

func TestOutDocsPath(t *testing.T) {
	t.Setenv("OUTDOCS_PATH", "")
	assert.Equal(t, "./storage/", GetOutDocsPath())

	dir := t.TempDir()
	t.Setenv("OUTDOCS_PATH", dir)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), GetFullPath("a.pdf"))
}

func TestDownloadFile(t *testing.T) {
	t.Setenv("OUTDOCS_PATH", t.TempDir())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	path, err := DownloadFile(server.URL+"/doc", "order.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = DownloadFile(server.URL+"/missing", "missing.pdf")
	assert.Error(t, err)
}

func TestWriteLogs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OUTDOCS_PATH", dir)

	require.NoError(t, WriteLogs("telegram", "first"))
	require.NoError(t, WriteLogs("telegram", "second"))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "telegram.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}
