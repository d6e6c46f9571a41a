package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embeddings":
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Prompt == "fail" {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(len(req.Prompt)), 1, 0}})
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, 768, s.Dimensions())
	assert.Equal(t, DefaultBaseURL, s.baseURL)
}

func TestEmbed(t *testing.T) {
	srv := newServer(t)
	s := NewEmbeddingService(Config{BaseURL: srv.URL, Model: "custom-model"})
	assert.Equal(t, 0, s.Dimensions())

	vec, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 1, 0}, vec)
	assert.Equal(t, 3, s.Dimensions())
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	srv := newServer(t)
	s := NewEmbeddingService(Config{BaseURL: srv.URL})

	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "abc", "ab"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.InDelta(t, 1, vecs[0][0], 0)
	assert.InDelta(t, 3, vecs[1][0], 0)
	assert.InDelta(t, 2, vecs[2][0], 0)
}

func TestEmbed_UpstreamError(t *testing.T) {
	srv := newServer(t)
	s := NewEmbeddingService(Config{BaseURL: srv.URL})

	_, err := s.EmbedBatch(context.Background(), []string{"ok", "fail"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "embed text 1")
}

func TestPing(t *testing.T) {
	srv := newServer(t)
	s := NewEmbeddingService(Config{BaseURL: srv.URL})
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
