package ner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTagger struct {
	entities []Entity
	err      error
}

func (s *stubTagger) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return s.entities, s.err
}

func countingLoader(calls *atomic.Int32, available ...string) LoadFunc {
	return func(ctx context.Context, model string) (Tagger, error) {
		calls.Add(1)
		for _, a := range available {
			if a == model {
				return &stubTagger{}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, model)
	}
}

func TestRegistryLoadsEachModelOnce(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry([]string{"pl_core_news_sm", "de_core_news_sm"}, countingLoader(&calls, "pl_core_news_sm"), nil)

	assert.Len(t, r.Taggers(context.Background()), 1)
	assert.Len(t, r.Taggers(context.Background()), 1)
	r.Status(context.Background())

	assert.Equal(t, int32(2), calls.Load(), "a failed model must not be retried")
}

func TestRegistryStatus(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry([]string{"pl_core_news_sm", "de_core_news_sm"}, countingLoader(&calls, "de_core_news_sm"), nil)

	status := r.Status(context.Background())
	assert.True(t, status.Available)
	assert.Equal(t, []string{"pl_core_news_sm", "de_core_news_sm"}, status.Requested)
	assert.Equal(t, []string{"de_core_news_sm"}, status.Loaded)
	assert.Equal(t, []string{"pl_core_news_sm"}, status.Missing)
}

func TestRegistryWithoutLoader(t *testing.T) {
	r := NewRegistry([]string{"pl_core_news_sm"}, nil, nil)

	assert.Empty(t, r.Taggers(context.Background()))

	status := r.Status(context.Background())
	assert.False(t, status.Available)
	assert.Empty(t, status.Loaded)
	assert.Equal(t, []string{"pl_core_news_sm"}, status.Missing)
}

func TestRegistryConcurrentFirstUse(t *testing.T) {
	var calls atomic.Int32
	r := NewRegistry([]string{"a", "b", "c"}, countingLoader(&calls, "a", "b", "c"), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Len(t, r.Taggers(context.Background()), 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), calls.Load())
}
