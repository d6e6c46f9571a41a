package driven

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// IndexStore persists a built index so later runs can skip embedding.
type IndexStore interface {
	// SaveIndex replaces the stored index with the given chunks.
	SaveIndex(ctx context.Context, manifest domain.IndexManifest, chunks []domain.EmbeddedChunk) error

	// LoadIndex returns the stored index in insertion order.
	// It fails with domain.ErrNotFound when nothing has been saved.
	LoadIndex(ctx context.Context) (*domain.IndexManifest, []domain.EmbeddedChunk, error)

	// Close releases resources.
	Close() error
}
