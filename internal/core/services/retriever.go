package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// DefaultTopK is used when neither the caller nor the configuration
// gives a positive k.
const DefaultTopK = 3

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever ranks indexed chunks by similarity to a question.
// Every call embeds the question afresh.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
	log      *logger.Logger
}

// NewRetriever creates a retriever. A topK of zero or less means DefaultTopK.
func NewRetriever(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	topK int,
	log *logger.Logger,
) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		log:      log,
	}
}

// TopK returns the default number of results.
func (r *Retriever) TopK() int {
	return r.topK
}

// Retrieve returns at most min(k, index size) chunks, highest score first.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = r.topK
	}

	r.log.Debug("Retrieve: query=%q, k=%d", question, k)
	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	results, err := r.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	r.log.Debug("Retrieve: %d results", len(results))
	for i, res := range results {
		r.log.Debug("  [%d] score=%.4f source=%s chunk=%d", i, res.Score, res.Chunk.SourceID, res.Chunk.Index)
	}
	return results, nil
}
