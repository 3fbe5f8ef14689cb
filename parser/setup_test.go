package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ordersbot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorFromConfigWithoutBackend(t *testing.T) {
	x := NewExtractorFromConfig(config.Extraction{
		UseTagger:    true,
		TaggerModels: []string{"pl_core_news_sm"},
	}, nil)

	status := x.Cities().Diagnostics(context.Background())
	assert.False(t, status.Available)
	assert.Empty(t, status.Loaded)
	assert.Equal(t, []string{"pl_core_news_sm"}, status.Missing)

	assert.Equal(t, x.Cities().ExtractPatternOnly(context.Background(), plOrder), x.Cities().Extract(context.Background(), plOrder))
}

func TestExtractorFromConfigWithGeonames(t *testing.T) {
	dir := t.TempDir()
	dump := strings.Join([]string{"1", "Rokietnica", "Rokietnica", "", "52.5", "16.7", "P", "PPL", "PL"}, "\t")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PL.txt"), []byte(dump), 0o644))

	x := NewExtractorFromConfig(config.Extraction{
		UseTagger:     true,
		TaggerModels:  []string{"geonames:PL", "pl_core_news_sm"},
		GeonamesDir:   dir,
		TaggerTimeout: time.Second,
	}, nil)

	status := x.Cities().Diagnostics(context.Background())
	assert.True(t, status.Available)
	assert.Equal(t, []string{"geonames:PL"}, status.Loaded)
	assert.Equal(t, []string{"pl_core_news_sm"}, status.Missing)
}

func TestExtractorFromConfigTaggerDisabled(t *testing.T) {
	x := NewExtractorFromConfig(config.Extraction{
		TaggerModels: []string{"geonames:PL"},
		GeonamesDir:  t.TempDir(),
	}, nil)

	assert.False(t, x.Cities().Diagnostics(context.Background()).Available)
}
