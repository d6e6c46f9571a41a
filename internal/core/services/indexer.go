package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// Indexer embeds chunks and builds a vector index from them.
type Indexer struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	store    driven.IndexStore
	chunker  domain.ChunkerSettings
	log      *logger.Logger
	now      func() time.Time
}

// NewIndexer creates an indexer that fills index using embedder.
func NewIndexer(embedder driven.EmbeddingService, index driven.VectorIndex, log *logger.Logger) *Indexer {
	return &Indexer{
		embedder: embedder,
		index:    index,
		log:      log,
		now:      time.Now,
	}
}

// SetStore enables persistence. After a successful Build the index is
// saved to store together with a manifest recording the chunker settings.
func (s *Indexer) SetStore(store driven.IndexStore, chunker domain.ChunkerSettings) {
	s.store = store
	s.chunker = chunker
}

// Build embeds chunks in one batch and builds the index.
// If embedding fails the index is not touched.
func (s *Indexer) Build(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("build index: %w", domain.ErrEmptyInput)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	s.log.Debug("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())
	start := time.Now()
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			domain.ErrUpstream, len(vectors), len(chunks))
	}
	s.log.Debug("Embedded %d chunks in %s", len(chunks), time.Since(start).Round(time.Millisecond))

	items := make([]domain.EmbeddedChunk, len(chunks))
	for i := range chunks {
		items[i] = domain.EmbeddedChunk{Chunk: chunks[i], Vector: vectors[i]}
	}
	if err := s.index.Build(ctx, items); err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	s.log.Info("Indexed %d chunks (%d dimensions)", s.index.Len(), s.index.Dimensions())

	if s.store == nil {
		return nil
	}
	manifest := domain.IndexManifest{
		EmbeddingModel: s.embedder.ModelName(),
		Dimensions:     s.index.Dimensions(),
		ChunkSize:      s.chunker.ChunkSize,
		ChunkOverlap:   s.chunker.ChunkOverlap,
		Chunks:         len(items),
		BuiltAt:        s.now().UTC(),
	}
	if err := s.store.SaveIndex(ctx, manifest, items); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	s.log.Debug("Saved index manifest: model=%s chunks=%d", manifest.EmbeddingModel, manifest.Chunks)
	return nil
}

// Restore builds the index from the configured store without embedding.
// It fails with domain.ErrConfiguration when the stored vectors do not
// match the active embedder's dimension.
func (s *Indexer) Restore(ctx context.Context) (*domain.IndexManifest, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no index store configured", domain.ErrConfiguration)
	}
	manifest, items, err := s.store.LoadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if dims := s.embedder.Dimensions(); dims > 0 && manifest.Dimensions != dims {
		return nil, fmt.Errorf("%w: stored index has %d dimensions but %s produces %d",
			domain.ErrConfiguration, manifest.Dimensions, s.embedder.ModelName(), dims)
	}
	if manifest.EmbeddingModel != s.embedder.ModelName() {
		s.log.Warn("Stored index was built with %s, querying with %s",
			manifest.EmbeddingModel, s.embedder.ModelName())
	}
	if err := s.index.Build(ctx, items); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	s.log.Info("Restored %d chunks built %s", len(items), manifest.BuiltAt.Format(time.RFC3339))
	return manifest, nil
}
