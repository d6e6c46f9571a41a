package driving

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// IngestService loads and chunks files.
type IngestService interface {
	// Ingest loads every path and chunks the documents. Unsupported files
	// are skipped and reported in the warnings; other failures abort.
	Ingest(ctx context.Context, paths []string) (*domain.IngestReport, error)
}
