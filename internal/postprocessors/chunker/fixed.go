package chunker

import (
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Fixed splits text into windows of exactly the chunk size, each starting
// chunk size minus overlap characters after the previous one. Only the
// last window may be shorter.
type Fixed struct {
	chunkSize int
	overlap   int
}

// Ensure Fixed implements the Splitter interface.
var _ driven.Splitter = (*Fixed)(nil)

// NewFixed creates a fixed-window chunker.
func NewFixed(opts ...Option) (*Fixed, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return &Fixed{chunkSize: s.chunkSize, overlap: s.overlap}, nil
}

// Name returns the strategy name.
func (c *Fixed) Name() string {
	return string(domain.ChunkStrategyFixed)
}

// Split chunks the joined text of doc.
func (c *Fixed) Split(doc *domain.SourceDocument) []domain.Chunk {
	return splitDocument(doc, c.spans)
}

// SplitText chunks a single text attributed to sourceID.
func (c *Fixed) SplitText(sourceID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	return toChunks(sourceID, runes, c.spans(runes), nil)
}

func (c *Fixed) spans(r []rune) []span {
	n := len(r)
	step := c.chunkSize - c.overlap

	// Estimate number of chunks
	out := make([]span, 0, n/step+1)
	for start := 0; start < n; start += step {
		end := start + c.chunkSize
		if end >= n {
			out = append(out, span{start, n})
			break
		}
		out = append(out, span{start, end})
	}
	return out
}
