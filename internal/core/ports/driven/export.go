package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// ChunkExporter writes extracted chunks to a document for review.
type ChunkExporter interface {
	// Export writes a document titled title with one entry per chunk.
	Export(ctx context.Context, w io.Writer, title string, chunks []domain.Chunk) error

	// Extension returns the file extension of the produced format, e.g. ".docx".
	Extension() string
}
