package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// fakeQdrant keeps uploaded points and answers searches with exact cosine.
type fakeQdrant struct {
	mu       sync.Mutex
	points   []point
	size     int
	requests []string
	apiKeys  []string
}

func (f *fakeQdrant) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/test", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		switch r.Method {
		case http.MethodDelete:
			f.mu.Lock()
			f.points = nil
			f.mu.Unlock()
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			var body struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Cosine", body.Vectors.Distance)
			f.mu.Lock()
			f.size = body.Vectors.Size
			f.mu.Unlock()
			_, _ = w.Write([]byte(`{"result":true}`))
		}
	})
	mux.HandleFunc("/collections/test/points", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var body struct {
			Points []point `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.points = append(f.points, body.Points...)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	})
	mux.HandleFunc("/collections/test/points/search", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		type hit struct {
			ID      int     `json:"id"`
			Score   float64 `json:"score"`
			Payload payload `json:"payload"`
		}
		var hits []hit
		// Reverse order so the client has to restore tie order itself.
		for i := len(f.points) - 1; i >= 0; i-- {
			p := f.points[i]
			hits = append(hits, hit{ID: p.ID, Score: vectorindex.Cosine(req.Vector, p.Vector), Payload: p.Payload})
		}
		f.mu.Unlock()
		if len(hits) > req.Limit {
			hits = hits[:req.Limit]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": hits})
	})
	return mux
}

func (f *fakeQdrant) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.apiKeys = append(f.apiKeys, r.Header.Get("api-key"))
}

func newTestIndex(t *testing.T, batch int) (*Index, *fakeQdrant) {
	t.Helper()
	fake := &fakeQdrant{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL, Collection: "test", APIKey: "secret", BatchSize: batch}, logger.Nop()), fake
}

func chunk(id string, vec ...float32) domain.EmbeddedChunk {
	return domain.EmbeddedChunk{
		Chunk:  domain.Chunk{ID: id, SourceID: "doc", Text: "text " + id, CharStart: 1, CharEnd: 5},
		Vector: vec,
	}
}

func TestIndex_SearchBeforeBuild(t *testing.T) {
	x, _ := newTestIndex(t, 10)
	_, err := x.Search(context.Background(), []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrNotBuilt)
}

func TestIndex_BuildEmpty(t *testing.T) {
	x, fake := newTestIndex(t, 10)
	assert.ErrorIs(t, x.Build(context.Background(), nil), domain.ErrEmptyInput)
	assert.Empty(t, fake.requests)
}

func TestIndex_BuildAndSearch(t *testing.T) {
	x, fake := newTestIndex(t, 2)
	ctx := context.Background()

	require.NoError(t, x.Build(ctx, []domain.EmbeddedChunk{
		chunk("a", 1, 0),
		chunk("b", 2, 0),
		chunk("c", 0, 1),
	}))

	assert.Equal(t, 3, x.Len())
	assert.Equal(t, 2, x.Dimensions())
	assert.Equal(t, 2, fake.size)
	assert.Equal(t, []string{
		"DELETE /collections/test",
		"PUT /collections/test",
		"PUT /collections/test/points",
		"PUT /collections/test/points",
	}, fake.requests)
	for _, k := range fake.apiKeys {
		assert.Equal(t, "secret", k)
	}

	results, err := x.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// a and b tie at 1; insertion order decides.
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "b", results[1].Chunk.ID)
	assert.Equal(t, "c", results[2].Chunk.ID)
	assert.Equal(t, "text a", results[0].Chunk.Text)
	assert.Equal(t, 5, results[0].Chunk.CharEnd)
}

func TestIndex_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	x := New(Config{URL: srv.URL, Collection: "test"}, logger.Nop())
	err := x.Build(context.Background(), []domain.EmbeddedChunk{chunk("a", 1)})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, 0, x.Len())
}

func TestNew_Defaults(t *testing.T) {
	x := New(Config{}, nil)
	assert.Equal(t, DefaultURL, x.baseURL)
	assert.Equal(t, DefaultCollection, x.collection)
	assert.Equal(t, DefaultBatchSize, x.batchSize)
}
