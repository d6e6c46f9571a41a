// Package metadata provides a post-processor that copies document
// attributes onto each chunk.
package metadata

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// Chunk metadata keys.
const (
	KeyTitle  = domain.MetaTitle
	KeyPath   = "path"
	KeyFormat = "format"
)

// Processor stamps title, path and format onto chunk metadata.
type Processor struct{}

// New creates a metadata processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "metadata"
}

// Process copies document attributes into each chunk's metadata.
// Existing chunk keys are kept.
func (p *Processor) Process(_ context.Context, doc *domain.SourceDocument, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]any)
		}
		setIfAbsent(chunks[i].Metadata, KeyTitle, doc.Title)
		setIfAbsent(chunks[i].Metadata, KeyPath, doc.Path)
		if format, ok := doc.Metadata[KeyFormat].(string); ok {
			setIfAbsent(chunks[i].Metadata, KeyFormat, format)
		}
	}
	return chunks, nil
}

func setIfAbsent(m map[string]any, key, value string) {
	if value == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
