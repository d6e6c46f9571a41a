package services

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Ensure SwapIndex implements the interface.
var _ driven.VectorIndex = (*SwapIndex)(nil)

type indexRef struct {
	index driven.VectorIndex
}

// SwapIndex is a VectorIndex whose backing index can be replaced while
// readers are searching. A replaced index is never mutated again; callers
// close it once Swap returns.
type SwapIndex struct {
	current atomic.Pointer[indexRef]
}

// NewSwapIndex wraps initial.
func NewSwapIndex(initial driven.VectorIndex) *SwapIndex {
	s := &SwapIndex{}
	s.current.Store(&indexRef{index: initial})
	return s
}

// Swap installs next and returns the previous index.
func (s *SwapIndex) Swap(next driven.VectorIndex) driven.VectorIndex {
	old := s.current.Swap(&indexRef{index: next})
	if old == nil {
		return nil
	}
	return old.index
}

// Current returns the active index.
func (s *SwapIndex) Current() driven.VectorIndex {
	return s.current.Load().index
}

// Build builds the active index in place.
func (s *SwapIndex) Build(ctx context.Context, items []domain.EmbeddedChunk) error {
	return s.Current().Build(ctx, items)
}

// Search searches the active index.
func (s *SwapIndex) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	return s.Current().Search(ctx, query, k)
}

// Len returns the size of the active index.
func (s *SwapIndex) Len() int { return s.Current().Len() }

// Dimensions returns the dimension of the active index.
func (s *SwapIndex) Dimensions() int { return s.Current().Dimensions() }

// Close closes the active index.
func (s *SwapIndex) Close() error { return s.Current().Close() }
