// Package qdrant provides a VectorIndex backed by a Qdrant server.
//
// It speaks the Qdrant REST API directly. Build drops and recreates the
// collection with cosine distance, then upserts points in batches. Each
// point id is the chunk's insertion position and the chunk itself is
// kept in the payload.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/logger"
)

const (
	// DefaultURL is the default Qdrant REST endpoint.
	DefaultURL = "http://localhost:6333"
	// DefaultCollection is the default collection name.
	DefaultCollection = "ragqa"
	// DefaultBatchSize is the number of points per upsert request.
	DefaultBatchSize = 256
	defaultTimeout   = 15 * time.Second
)

// Ensure Index implements the VectorIndex interface.
var _ driven.VectorIndex = (*Index)(nil)

// Config holds connection settings.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	BatchSize  int
	Timeout    time.Duration
}

// Index is a Qdrant-backed vector index.
type Index struct {
	baseURL    string
	apiKey     string
	collection string
	batchSize  int
	client     *http.Client
	log        *logger.Logger

	mu    sync.RWMutex
	dims  int
	count int
	built bool
}

// New creates a Qdrant index client. No request is made until Build.
func New(cfg Config, log *logger.Logger) *Index {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Index{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		batchSize:  cfg.BatchSize,
		client:     &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type payload struct {
	Position  int    `json:"position"`
	ChunkID   string `json:"chunk_id"`
	SourceID  string `json:"source_id"`
	Index     int    `json:"index"`
	Text      string `json:"text"`
	CharStart int    `json:"char_start"`
	CharEnd   int    `json:"char_end"`
	Section   string `json:"section,omitempty"`
}

type point struct {
	ID      int       `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload payload   `json:"payload"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		ID      int     `json:"id"`
		Score   float64 `json:"score"`
		Payload payload `json:"payload"`
	} `json:"result"`
}

// Build recreates the collection and uploads items.
func (x *Index) Build(ctx context.Context, items []domain.EmbeddedChunk) error {
	dims, err := vectorindex.CheckBatch(items)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.built = false

	if err := x.do(ctx, http.MethodDelete, x.collectionURL(), nil, nil, http.StatusNotFound); err != nil {
		return fmt.Errorf("drop collection %s: %w", x.collection, err)
	}
	create := map[string]any{
		"vectors": map[string]any{
			"size":     dims,
			"distance": "Cosine",
		},
	}
	if err := x.do(ctx, http.MethodPut, x.collectionURL(), create, nil); err != nil {
		return fmt.Errorf("create collection %s: %w", x.collection, err)
	}

	for start := 0; start < len(items); start += x.batchSize {
		end := start + x.batchSize
		if end > len(items) {
			end = len(items)
		}
		points := make([]point, 0, end-start)
		for i := start; i < end; i++ {
			c := items[i].Chunk
			points = append(points, point{
				ID:     i,
				Vector: items[i].Vector,
				Payload: payload{
					Position:  i,
					ChunkID:   c.ID,
					SourceID:  c.SourceID,
					Index:     c.Index,
					Text:      c.Text,
					CharStart: c.CharStart,
					CharEnd:   c.CharEnd,
					Section:   c.Section,
				},
			})
		}
		body := map[string]any{"points": points}
		if err := x.do(ctx, http.MethodPut, x.collectionURL()+"/points?wait=true", body, nil); err != nil {
			return fmt.Errorf("upsert points %d-%d: %w", start, end, err)
		}
		x.log.Debug("qdrant: upserted %d/%d points", end, len(items))
	}

	x.dims = dims
	x.count = len(items)
	x.built = true
	return nil
}

// Search queries the collection for the k nearest points.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if !x.built {
		return nil, domain.ErrNotBuilt
	}
	if len(query) != x.dims {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), x.dims, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return []domain.ScoredChunk{}, nil
	}

	var resp searchResponse
	req := searchRequest{Vector: query, Limit: k, WithPayload: true}
	if err := x.do(ctx, http.MethodPost, x.collectionURL()+"/points/search", req, &resp); err != nil {
		return nil, fmt.Errorf("search collection %s: %w", x.collection, err)
	}

	ranked := make([]vectorindex.Ranked, 0, len(resp.Result))
	for _, r := range resp.Result {
		p := r.Payload
		ranked = append(ranked, vectorindex.Ranked{
			Position: p.Position,
			Score:    r.Score,
			Chunk: domain.Chunk{
				ID:        p.ChunkID,
				SourceID:  p.SourceID,
				Index:     p.Index,
				Text:      p.Text,
				CharStart: p.CharStart,
				CharEnd:   p.CharEnd,
				Section:   p.Section,
			},
		})
	}
	vectorindex.SortRanked(ranked)
	return vectorindex.TopK(ranked, k), nil
}

// Len returns the number of points uploaded by the last Build.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.count
}

// Dimensions returns the vector dimension, or 0 before Build.
func (x *Index) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dims
}

// Close releases idle connections. The collection is left in place.
func (x *Index) Close() error {
	x.client.CloseIdleConnections()
	return nil
}

func (x *Index) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", x.baseURL, x.collection)
}

// do sends a JSON request. Status codes in okExtra are accepted in
// addition to 2xx.
func (x *Index) do(ctx context.Context, method, url string, body, out any, okExtra ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	for _, code := range okExtra {
		if resp.StatusCode == code {
			ok = true
		}
	}
	if !ok {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: qdrant %s returned %d: %s",
			domain.ErrUpstream, method, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
