// Package chunker splits document text into bounded, overlapping chunks.
//
// Two strategies are provided. Recursive splits on structural separators,
// coarsest first. Fixed uses a plain sliding window. Both measure lengths
// in characters (runes) and produce chunks whose text is exactly the
// source runes between CharStart and CharEnd.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Option configures a chunker.
type Option func(*settings)

type settings struct {
	chunkSize int
	overlap   int
}

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *settings) {
		s.chunkSize = size
	}
}

// WithOverlap sets the maximum overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *settings) {
		s.overlap = overlap
	}
}

func newSettings(opts []Option) (settings, error) {
	s := settings{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.chunkSize <= 0 {
		return s, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, s.chunkSize)
	}
	if s.overlap < 0 || s.overlap >= s.chunkSize {
		return s, fmt.Errorf("%w: overlap must be in [0, %d), got %d",
			domain.ErrConfiguration, s.chunkSize, s.overlap)
	}
	return s, nil
}

// span is a half-open rune range.
type span struct {
	start, end int
}

func (s span) len() int {
	return s.end - s.start
}

// toChunks materialises spans of text as chunks of the given source.
// sectionOf may be nil when the source has no sections.
func toChunks(sourceID string, runes []rune, spans []span, sectionOf func(int) string) []domain.Chunk {
	if len(spans) == 0 {
		return nil
	}
	chunks := make([]domain.Chunk, 0, len(spans))
	for i, sp := range spans {
		c := domain.Chunk{
			ID:        uuid.New().String(),
			SourceID:  sourceID,
			Index:     i,
			Text:      string(runes[sp.start:sp.end]),
			CharStart: sp.start,
			CharEnd:   sp.end,
			Metadata:  make(map[string]any),
		}
		if sectionOf != nil {
			c.Section = sectionOf(sp.start)
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func splitDocument(doc *domain.SourceDocument, split func([]rune) []span) []domain.Chunk {
	if doc == nil {
		return nil
	}
	runes := []rune(doc.Text())
	if len(runes) == 0 {
		return nil
	}
	return toChunks(doc.ID, runes, split(runes), doc.SectionAt)
}
