package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/logger"
)

func builtIndex(t *testing.T, n int) *memory.Index {
	t.Helper()
	items := make([]domain.EmbeddedChunk, n)
	for i := range items {
		items[i] = domain.EmbeddedChunk{
			Chunk:  domain.Chunk{ID: fmt.Sprintf("c%d", i), Index: i, Text: fmt.Sprintf("chunk %d", i)},
			Vector: []float32{float32(n - i), float32(i)},
		}
	}
	index := memory.New()
	require.NoError(t, index.Build(context.Background(), items))
	return index
}

func TestRetriever_DefaultK(t *testing.T) {
	r := NewRetriever(&mockEmbeddingService{}, builtIndex(t, 10), 0, logger.Nop())
	assert.Equal(t, DefaultTopK, r.TopK())

	results, err := r.Retrieve(context.Background(), "question", 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = r.Retrieve(context.Background(), "question", -1)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRetriever_BoundedByIndexSize(t *testing.T) {
	r := NewRetriever(&mockEmbeddingService{}, builtIndex(t, 2), 3, logger.Nop())

	results, err := r.Retrieve(context.Background(), "question", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetriever_Ordering(t *testing.T) {
	r := NewRetriever(&mockEmbeddingService{fallback: []float32{1, 0}}, builtIndex(t, 5), 5, logger.Nop())

	results, err := r.Retrieve(context.Background(), "question", 5)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "c0", results[0].Chunk.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetriever_ReembedsEveryCall(t *testing.T) {
	embedder := &mockEmbeddingService{}
	r := NewRetriever(embedder, builtIndex(t, 3), 3, logger.Nop())

	for i := 0; i < 3; i++ {
		_, err := r.Retrieve(context.Background(), "same question", 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, embedder.embeds)
}

func TestRetriever_EmptyQuestion(t *testing.T) {
	embedder := &mockEmbeddingService{}
	r := NewRetriever(embedder, builtIndex(t, 1), 3, logger.Nop())

	_, err := r.Retrieve(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, embedder.embeds)
}

func TestRetriever_EmbedderFailureKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	upstream := fmt.Errorf("%w: %w", domain.ErrUpstream, cause)
	r := NewRetriever(&mockEmbeddingService{embedErr: upstream}, builtIndex(t, 1), 3, logger.Nop())

	_, err := r.Retrieve(context.Background(), "q", 3)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, cause)
}

func TestRetriever_NotBuilt(t *testing.T) {
	r := NewRetriever(&mockEmbeddingService{}, memory.New(), 3, logger.Nop())

	_, err := r.Retrieve(context.Background(), "q", 3)
	assert.ErrorIs(t, err, domain.ErrNotBuilt)
}
