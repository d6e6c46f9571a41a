package driven

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers similarity queries.
//
// An index is built once from a batch and is read-only afterwards.
// Calling Build again replaces the contents as a whole.
type VectorIndex interface {
	// Build stores the batch. It fails with domain.ErrEmptyInput for an empty
	// batch and domain.ErrDimensionMismatch when vector lengths differ.
	Build(ctx context.Context, chunks []domain.EmbeddedChunk) error

	// Search returns the k chunks most similar to the query by cosine
	// similarity, highest first. Equal scores keep insertion order.
	// It fails with domain.ErrNotBuilt before Build.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Len returns the number of stored chunks.
	Len() int

	// Dimensions returns the vector length, or 0 before Build.
	Dimensions() int

	// Close releases resources.
	Close() error
}
