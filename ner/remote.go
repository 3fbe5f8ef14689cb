package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RemoteTagger talks to a spaCy model server exposing the displaCy-ent API:
// GET /models lists served models, POST /ent tags a text.
type RemoteTagger struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

type entRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type entSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

// NewRemoteLoader returns a LoadFunc that binds model identifiers to the
// server at baseURL. A model is only loaded if the server lists it.
func NewRemoteLoader(baseURL string, client *http.Client, logger *zap.Logger) LoadFunc {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return func(ctx context.Context, model string) (Tagger, error) {
		if baseURL == "" {
			return nil, fmt.Errorf("%w: no model server configured for %s", ErrUnavailable, model)
		}

		served, err := listModels(ctx, client, baseURL)
		if err != nil {
			return nil, fmt.Errorf("list models at %s: %w", baseURL, err)
		}
		if !slices.Contains(served, model) {
			return nil, fmt.Errorf("%w: %s is not served by %s", ErrUnavailable, model, baseURL)
		}

		return &RemoteTagger{
			baseURL: baseURL,
			model:   model,
			client:  client,
			logger:  logger,
		}, nil
	}
}

func listModels(ctx context.Context, client *http.Client, baseURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var models []string
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return models, nil
}

// Recognize sends text to the server. Span offsets come back in code points
// and are converted to byte offsets.
func (t *RemoteTagger) Recognize(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(entRequest{Text: text, Model: t.model})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/ent", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tag with %s: %w", t.model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	t.logger.Debug("Remote tagger response",
		zap.String("model", t.model),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tag with %s: bad status: %s", t.model, resp.Status)
	}

	var spans []entSpan
	if err := json.Unmarshal(raw, &spans); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}

	offsets := runeOffsets(text)
	entities := make([]Entity, 0, len(spans))
	for _, span := range spans {
		if span.Start < 0 || span.End > len(offsets)-1 || span.Start >= span.End {
			continue
		}
		start, end := offsets[span.Start], offsets[span.End]
		entities = append(entities, Entity{
			Text:  text[start:end],
			Label: span.Type,
			Start: start,
			End:   end,
		})
	}
	return entities, nil
}

// runeOffsets maps code point index -> byte offset, with one trailing entry
// for the end of the text.
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
