// Package ner holds the named-entity taggers used as the secondary city
// strategy and the per-extractor registry that loads them.
package ner

import (
	"context"
	"errors"
)

// ErrUnavailable marks a model that cannot be loaded: no backend configured
// for it, resource missing, or the serving side does not know it.
var ErrUnavailable = errors.New("tagger model unavailable")

// Entity is a tagged span of the input text.
type Entity struct {
	// Text is the span as it appears in the input
	Text string `json:"text"`
	// Label is the entity type reported by the tagger (GPE, LOC, placeName, ORG, ...)
	Label string `json:"label"`
	// Start is the byte offset where the span begins
	Start int `json:"start"`
	// End is the byte offset where the span ends (exclusive)
	End int `json:"end"`
}

// Tagger recognizes named entities in text.
type Tagger interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// LoadFunc loads the tagger registered under a model identifier.
type LoadFunc func(ctx context.Context, model string) (Tagger, error)
