package driven

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// DocumentLoader reads a file and returns its text with source identity.
type DocumentLoader interface {
	// Load reads the file at path. It fails with domain.ErrNotFound for a
	// missing file and domain.ErrUnsupportedFormat for an unknown extension.
	Load(ctx context.Context, path string) (*domain.SourceDocument, error)

	// Supports reports whether the path has a recognised extension.
	Supports(path string) bool
}
