package driven

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// Normaliser transforms raw file bytes into a SourceDocument.
// Each normaliser handles specific MIME types (e.g., PDF, DOCX).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the document's sections from the raw bytes.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error)
}
