package ner

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Status reports which taggers were requested and which of them loaded.
type Status struct {
	Available bool     `json:"tagger_available"`
	Requested []string `json:"requested_models"`
	Loaded    []string `json:"loaded_models"`
	Missing   []string `json:"missing_models"`
}

// Registry loads each requested model at most once. A model that fails to
// load stays unavailable for the lifetime of the registry.
type Registry struct {
	models []string
	load   LoadFunc
	logger *zap.Logger

	once    sync.Once
	taggers map[string]Tagger // nil value: load failed
}

// NewRegistry creates a registry for the given models. A nil load function
// disables tagging entirely; every model is then reported as missing.
func NewRegistry(models []string, load LoadFunc, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		models:  append([]string(nil), models...),
		load:    load,
		logger:  logger,
		taggers: make(map[string]Tagger, len(models)),
	}
}

// Taggers returns the loaded taggers in requested order, loading them on the
// first call.
func (r *Registry) Taggers(ctx context.Context) []Tagger {
	r.ensureLoaded(ctx)

	out := make([]Tagger, 0, len(r.models))
	for _, model := range r.models {
		if t := r.taggers[model]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Status triggers the one-time load if it has not happened yet.
func (r *Registry) Status(ctx context.Context) Status {
	status := Status{
		Available: r.load != nil,
		Requested: append([]string{}, r.models...),
		Loaded:    []string{},
		Missing:   []string{},
	}

	r.ensureLoaded(ctx)

	for _, model := range r.models {
		if r.taggers[model] != nil {
			status.Loaded = append(status.Loaded, model)
		} else {
			status.Missing = append(status.Missing, model)
		}
	}
	return status
}

func (r *Registry) ensureLoaded(ctx context.Context) {
	r.once.Do(func() {
		if r.load == nil {
			r.logger.Info("Entity tagging disabled", zap.Strings("models", r.models))
			return
		}

		for _, model := range r.models {
			if _, seen := r.taggers[model]; seen {
				continue
			}

			tagger, err := r.load(ctx, model)
			if err != nil {
				level := r.logger.Warn
				if errors.Is(err, ErrUnavailable) {
					level = r.logger.Info
				}
				level("Tagger model not loaded", zap.String("model", model), zap.Error(err))
				r.taggers[model] = nil
				continue
			}

			r.logger.Info("Tagger model loaded", zap.String("model", model))
			r.taggers[model] = tagger
		}
	})
}
