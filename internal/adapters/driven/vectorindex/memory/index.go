// Package memory provides an in-process VectorIndex using exact
// brute-force cosine similarity.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Ensure Index implements the VectorIndex interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores embedded chunks in insertion order.
// Search is safe for concurrent use. Build replaces the contents.
type Index struct {
	mu    sync.RWMutex
	dims  int
	items []domain.EmbeddedChunk
	built bool
}

// New creates an empty, unbuilt index.
func New() *Index {
	return &Index{}
}

// Build replaces the index contents with items.
// On failure the previous contents are left untouched.
func (x *Index) Build(ctx context.Context, items []domain.EmbeddedChunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dims, err := vectorindex.CheckBatch(items)
	if err != nil {
		return err
	}

	owned := make([]domain.EmbeddedChunk, len(items))
	for i, it := range items {
		vec := make([]float32, len(it.Vector))
		copy(vec, it.Vector)
		owned[i] = domain.EmbeddedChunk{Chunk: it.Chunk, Vector: vec}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.items = owned
	x.dims = dims
	x.built = true
	return nil
}

// Search returns the min(k, Len()) chunks most similar to query.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if !x.built {
		return nil, domain.ErrNotBuilt
	}
	if len(query) != x.dims {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), x.dims, domain.ErrDimensionMismatch)
	}

	ranked := make([]vectorindex.Ranked, len(x.items))
	for i, it := range x.items {
		ranked[i] = vectorindex.Ranked{
			Position: i,
			Score:    vectorindex.Cosine(query, it.Vector),
			Chunk:    it.Chunk,
		}
	}
	vectorindex.SortRanked(ranked)
	return vectorindex.TopK(ranked, k), nil
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

// Dimensions returns the vector dimension, or 0 before Build.
func (x *Index) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dims
}

// Items returns a copy of the indexed chunks in insertion order.
func (x *Index) Items() []domain.EmbeddedChunk {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]domain.EmbeddedChunk, len(x.items))
	copy(out, x.items)
	return out
}

// Close releases the stored vectors.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.items = nil
	x.dims = 0
	x.built = false
	return nil
}
