package parser

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"ordersbot/ner"

	"go.uber.org/zap"
)

type Origin string

const (
	OriginPattern Origin = "pattern-cascade"
	OriginEntity  Origin = "entity-scorer"
)

// Candidate is a city proposed by one of the strategies. A zero score means
// rejected.
type Candidate struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Origin Origin  `json:"origin"`

	offset int
}

var (
	placeLabels = []string{"GPE", "LOC", "PLACE", "PLACENAME", "GEOGNAME", "SETTLEMENT"}
	orgLabels   = []string{"ORG", "ORGNAME"}
)

func isPlaceLabel(label string) bool {
	return slices.Contains(placeLabels, strings.ToUpper(label))
}

// ScoreEntity rates how plausible a tagged span is as a city name. Spans with
// digits or street markers score 0. Place labels start at 1.0, organizations
// at 0.2, anything else at 0.1; a "/" composite adds 0.2 and length adds up
// to 0.3.
func ScoreEntity(e ner.Entity) float64 {
	text := strings.TrimSpace(e.Text)
	if text == "" || hasDigit(text) || looksLikeStreet(text) {
		return 0
	}

	var score float64
	label := strings.ToUpper(e.Label)
	switch {
	case slices.Contains(placeLabels, label):
		score = 1.0
	case slices.Contains(orgLabels, label):
		score = 0.2
	default:
		score = 0.1
	}

	if strings.Contains(text, "/") {
		score += 0.2
	}
	score += min(float64(utf8.RuneCountInString(text))/40.0, 0.3)
	return score
}

// Scorer runs the loaded taggers over a text and ranks what they find.
type Scorer struct {
	registry *ner.Registry
	logger   *zap.Logger
}

func NewScorer(registry *ner.Registry, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{registry: registry, logger: logger}
}

// Candidates returns every non-zero scored entity from all loaded taggers in
// reading order. A tagger that fails on the text is skipped.
func (s *Scorer) Candidates(ctx context.Context, text string) []Candidate {
	return s.collect(ctx, text, func(e ner.Entity) float64 {
		return ScoreEntity(e)
	})
}

// Places returns the place-labeled, digit-free entities of the text in
// reading order, without duplicates. It backs the whole-document fallback.
func (s *Scorer) Places(ctx context.Context, text string) []string {
	candidates := s.collect(ctx, text, func(e ner.Entity) float64 {
		if !isPlaceLabel(e.Label) || hasDigit(e.Text) {
			return 0
		}
		return ScoreEntity(e)
	})
	return Distinct(candidates)
}

func (s *Scorer) collect(ctx context.Context, text string, score func(ner.Entity) float64) []Candidate {
	if s == nil || s.registry == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := make([]Candidate, 0)
	for _, tagger := range s.registry.Taggers(ctx) {
		entities, err := tagger.Recognize(ctx, text)
		if err != nil {
			s.logger.Warn("Entity tagging failed", zap.Error(err))
			continue
		}
		for _, e := range entities {
			value := score(e)
			if value <= 0 {
				continue
			}
			city := NormalizeCity(e.Text)
			if city == "" {
				continue
			}
			candidates = append(candidates, Candidate{
				Text:   city,
				Score:  value,
				Origin: OriginEntity,
				offset: e.Start,
			})
		}
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return a.offset - b.offset
	})
	return candidates
}

// Best picks the highest score, ties going to the longer text.
func Best(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score || (c.Score == best.Score && utf8.RuneCountInString(c.Text) > utf8.RuneCountInString(best.Text)) {
			best = c
		}
	}
	return best, true
}

// Distinct keeps the first occurrence of every candidate text.
func Distinct(candidates []Candidate) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		out = append(out, c.Text)
	}
	return out
}
