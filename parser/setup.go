package parser

import (
	"net/http"

	"ordersbot/config"
	"ordersbot/ner"

	"go.uber.org/zap"
)

// NewExtractorFromConfig wires the field scraper and the city extractor from
// the environment configuration. Taggers come from GeoNames dumps for
// "geonames:<CC>" models and from the spaCy service for the rest. With
// neither configured the tagger is reported unavailable.
func NewExtractorFromConfig(cfg config.Extraction, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	var remote ner.LoadFunc
	if cfg.SpacyURL != "" {
		client := &http.Client{Timeout: cfg.TaggerTimeout}
		remote = ner.NewRemoteLoader(cfg.SpacyURL, client, logger.Named("spacy"))
	}
	load := ner.NewLoader(cfg.GeonamesDir, remote)

	cities := NewCityExtractor(CityExtractorConfig{
		SectionMaxLines: cfg.SectionMaxLines,
		UseTagger:       cfg.UseTagger,
		Models:          cfg.TaggerModels,
		Load:            load,
		Logger:          logger.Named("cities"),
	})
	fields := NewFieldExtractor(cfg.FreightMin, cfg.FreightMax, logger.Named("fields"))

	return NewExtractor(fields, cities)
}
