package mcp

import (
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
)

// IndexStatus reports the size of the loaded index.
type IndexStatus interface {
	Len() int
	Dimensions() int
}

// Ports aggregates the services the MCP server exposes.
type Ports struct {
	// Retrieval backs the retrieve tool.
	Retrieval driving.RetrievalService

	// Query backs the ask tool. The tool is not registered when nil.
	Query driving.QueryService

	// Index backs the index resource. Optional.
	Index IndexStatus

	// EmbeddingModel is reported by the index resource.
	EmbeddingModel string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
