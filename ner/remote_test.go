package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spanOf returns the code point offsets of sub in text, as spaCy reports them.
func spanOf(text, sub string) (int, int) {
	i := strings.Index(text, sub)
	start := utf8.RuneCountInString(text[:i])
	return start, start + utf8.RuneCountInString(sub)
}

func newSpacyServer(t *testing.T, models []string, tag func(entRequest) []entSpan) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models)
	})
	mux.HandleFunc("/ent", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req entRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(tag(req))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteTaggerRecognize(t *testing.T) {
	text := "Odbiór: Łódź, dostawa Zielona Góra"

	srv := newSpacyServer(t, []string{"pl_core_news_sm"}, func(req entRequest) []entSpan {
		assert.Equal(t, "pl_core_news_sm", req.Model)
		s1, e1 := spanOf(req.Text, "Łódź")
		s2, e2 := spanOf(req.Text, "Zielona Góra")
		return []entSpan{
			{Start: s1, End: e1, Type: "placeName"},
			{Start: s2, End: e2, Type: "placeName"},
			{Start: 0, End: 1000, Type: "ORG"},
		}
	})

	load := NewRemoteLoader(srv.URL+"/", srv.Client(), nil)
	tagger, err := load(context.Background(), "pl_core_news_sm")
	require.NoError(t, err)

	entities, err := tagger.Recognize(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, entities, 2, "out of range spans are dropped")

	assert.Equal(t, "Łódź", entities[0].Text)
	assert.Equal(t, "placeName", entities[0].Label)
	assert.Equal(t, strings.Index(text, "Łódź"), entities[0].Start)
	assert.Equal(t, text[entities[1].Start:entities[1].End], "Zielona Góra")
}

func TestRemoteLoaderUnknownModel(t *testing.T) {
	srv := newSpacyServer(t, []string{"de_core_news_sm"}, func(entRequest) []entSpan { return nil })

	_, err := NewRemoteLoader(srv.URL, srv.Client(), nil)(context.Background(), "pl_core_news_sm")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRemoteLoaderWithoutServer(t *testing.T) {
	_, err := NewRemoteLoader("", nil, nil)(context.Background(), "pl_core_news_sm")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRemoteTaggerBadStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["pl_core_news_sm"]`))
	})
	mux.HandleFunc("/ent", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tagger, err := NewRemoteLoader(srv.URL, srv.Client(), nil)(context.Background(), "pl_core_news_sm")
	require.NoError(t, err)

	_, err = tagger.Recognize(context.Background(), "Poznań")
	assert.Error(t, err)
}

func TestRuneOffsets(t *testing.T) {
	assert.Equal(t, []int{0, 2, 3, 5}, runeOffsets("Łaź"))
	assert.Equal(t, []int{0}, runeOffsets(""))
}
