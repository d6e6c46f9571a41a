// Package postprocessors builds the chunking pipeline: a splitter chosen
// by strategy name followed by chunk post-processors.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Pipeline splits a document and then runs PostProcessors in order.
// It implements the ChunkPipeline interface.
type Pipeline struct {
	splitter   driven.Splitter
	processors []driven.PostProcessor
}

// Ensure Pipeline implements the interface.
var _ driven.ChunkPipeline = (*Pipeline)(nil)

// NewPipeline creates a new pipeline with the given splitter and processors.
// Processors are executed in the order provided.
func NewPipeline(splitter driven.Splitter, processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		splitter:   splitter,
		processors: processors,
	}
}

// Process splits the document and runs it through all processors in order.
func (p *Pipeline) Process(ctx context.Context, doc *domain.SourceDocument) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if p.splitter == nil {
		return nil, fmt.Errorf("%w: pipeline has no splitter", domain.ErrConfiguration)
	}

	chunks := p.splitter.Split(doc)

	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		chunks, err = processor.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return chunks, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Splitter returns the pipeline's splitter.
func (p *Pipeline) Splitter() driven.Splitter {
	return p.splitter
}
