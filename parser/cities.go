package parser

import (
	"context"
	"encoding/json"
	"strings"

	"ordersbot/ner"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

type Mode string

const (
	ModeHybrid  Mode = "hybrid"
	ModePattern Mode = "pattern"
	ModeEntity  Mode = "entity"
)

// Cities is the resolved pair. An empty string means the field is absent.
// Unloading may hold several stops joined by "-" and must be shown as is.
type Cities struct {
	Loading   string
	Unloading string
}

func (c Cities) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Loading   *string `json:"loading_city"`
		Unloading *string `json:"unloading_city"`
	}{nullable(c.Loading), nullable(c.Unloading)})
}

func (c Cities) Complete() bool {
	return c.Loading != "" && c.Unloading != ""
}

// Comparison holds the output of every mode for the same document.
type Comparison struct {
	Pattern Cities `json:"pattern"`
	Entity  Cities `json:"entity"`
	Hybrid  Cities `json:"hybrid"`
}

type CityExtractorConfig struct {
	SectionMaxLines int
	UseTagger       bool
	Models          []string
	// Load is required when UseTagger is set, see ner.NewLoader
	Load   ner.LoadFunc
	Logger *zap.Logger
}

// CityExtractor resolves the loading and unloading cities of a document. It
// owns its tagger registry: models are loaded on first use and a model that
// fails stays unavailable for the extractor's lifetime.
type CityExtractor struct {
	maxLines  int
	loading   Header
	unloading Header
	registry  *ner.Registry
	scorer    *Scorer
	logger    *zap.Logger
}

func NewCityExtractor(cfg CityExtractorConfig) *CityExtractor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var load ner.LoadFunc
	if cfg.UseTagger {
		load = cfg.Load
	}
	registry := ner.NewRegistry(cfg.Models, load, logger.Named("ner"))

	return &CityExtractor{
		maxLines:  cfg.SectionMaxLines,
		loading:   FieldHeader(FieldLoading),
		unloading: FieldHeader(FieldUnloading),
		registry:  registry,
		scorer:    NewScorer(registry, logger),
		logger:    logger,
	}
}

// Extract runs the hybrid strategy: pattern cascade first, entity scorer
// when the cascade is silent, whole-document fallback for what is left.
func (e *CityExtractor) Extract(ctx context.Context, text string) Cities {
	return e.ExtractWith(ctx, text, ModeHybrid)
}

func (e *CityExtractor) ExtractPatternOnly(ctx context.Context, text string) Cities {
	return e.ExtractWith(ctx, text, ModePattern)
}

func (e *CityExtractor) ExtractEntityOnly(ctx context.Context, text string) Cities {
	return e.ExtractWith(ctx, text, ModeEntity)
}

func (e *CityExtractor) Compare(ctx context.Context, text string) Comparison {
	return Comparison{
		Pattern: e.ExtractPatternOnly(ctx, text),
		Entity:  e.ExtractEntityOnly(ctx, text),
		Hybrid:  e.Extract(ctx, text),
	}
}

// Diagnostics reports tagger availability. It loads the models if no
// extraction has done so yet.
func (e *CityExtractor) Diagnostics(ctx context.Context) ner.Status {
	return e.registry.Status(ctx)
}

func (e *CityExtractor) ExtractWith(ctx context.Context, text string, mode Mode) Cities {
	lines := splitLines(norm.NFC.String(text))

	loadingSection := LocateSection(lines, e.loading, e.maxLines)
	unloadingSection := LocateSection(lines, e.unloading, e.maxLines)

	var cities Cities
	if !loadingSection.Empty() {
		cities.Loading = e.sectionCity(ctx, loadingSection, mode)
	}
	if !unloadingSection.Empty() {
		cities.Unloading = e.sectionStops(ctx, unloadingSection, mode)
	}

	if !cities.Complete() {
		candidates := e.documentCandidates(ctx, lines, mode)
		if len(candidates) > 0 {
			if cities.Loading == "" {
				cities.Loading = candidates[0]
			}
			if cities.Unloading == "" {
				cities.Unloading = candidates[len(candidates)-1]
			}
		}
		e.logger.Debug("Whole-document city fallback",
			zap.String("mode", string(mode)),
			zap.Strings("candidates", candidates))
	}

	e.logger.Debug("Cities resolved",
		zap.String("mode", string(mode)),
		zap.String("loading", cities.Loading),
		zap.String("unloading", cities.Unloading))
	return cities
}

// sectionCity resolves a single city from a section.
func (e *CityExtractor) sectionCity(ctx context.Context, section Section, mode Mode) string {
	switch mode {
	case ModePattern:
		return PatternCity(section.Lines)
	case ModeEntity:
		return e.entityCity(ctx, section)
	default:
		if city := PatternCity(section.Lines); city != "" {
			return city
		}
		return e.entityCity(ctx, section)
	}
}

// sectionStops resolves the unloading field, which may list several stops.
// The section is tagged at most once.
func (e *CityExtractor) sectionStops(ctx context.Context, section Section, mode Mode) string {
	var stops []string
	switch mode {
	case ModePattern:
		stops = PatternCities(section.Lines)
	case ModeEntity:
		stops = ZipCities(section.Lines)
		if len(stops) == 0 {
			stops = Distinct(e.scorer.Candidates(ctx, section.Text()))
		}
	default:
		stops = PatternCities(section.Lines)
		if len(stops) == 0 {
			stops = Distinct(e.scorer.Candidates(ctx, section.Text()))
		}
	}

	return strings.Join(stops, "-")
}

// entityCity defers to a zip-anchored match when the section has one, so
// the tagger can never override an anchored city.
func (e *CityExtractor) entityCity(ctx context.Context, section Section) string {
	if city := ZipCity(section.Lines); city != "" {
		return city
	}
	best, ok := Best(e.scorer.Candidates(ctx, section.Text()))
	if !ok {
		return ""
	}
	return best.Text
}

// documentCandidates lists every plausible city of the whole text in order
// of appearance: zip anchors first, capitalized tokens only if there are
// none, tagged places only if both phases found nothing.
func (e *CityExtractor) documentCandidates(ctx context.Context, lines []string, mode Mode) []string {
	if candidates := ZipCities(lines); len(candidates) > 0 {
		return candidates
	}
	if mode != ModeEntity {
		if candidates := allCities(lines, bareCity); len(candidates) > 0 {
			return candidates
		}
	}
	if mode == ModePattern {
		return nil
	}
	return e.scorer.Places(ctx, strings.Join(lines, "\n"))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
