package driven

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// Splitter chunks a document into bounded, overlapping spans.
type Splitter interface {
	// Name returns the strategy name for logging and configuration.
	Name() string

	// Split returns the document's chunks in source order.
	// Empty text yields no chunks.
	Split(doc *domain.SourceDocument) []domain.Chunk
}

// PostProcessor refines chunks after splitting (e.g., metadata stamping).
// PostProcessors are chained in a pipeline after the splitter. They must
// not change chunk text or offsets.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process receives the splitter's chunks and returns the refined chunks.
	Process(ctx context.Context, doc *domain.SourceDocument, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// ChunkPipeline splits a document and runs the post-processors in order.
type ChunkPipeline interface {
	// Process returns the final chunks for the document.
	Process(ctx context.Context, doc *domain.SourceDocument) ([]domain.Chunk, error)
}
