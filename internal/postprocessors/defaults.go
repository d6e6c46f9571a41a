package postprocessors

import (
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in splitters with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(string(domain.ChunkStrategyRecursive), buildRecursive)
	r.Register(string(domain.ChunkStrategyFixed), buildFixed)
}

// DefaultRegistry returns a registry with the built-in splitters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func chunkerOptions(cfg domain.ChunkerSettings) []chunker.Option {
	return []chunker.Option{
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	}
}

func buildRecursive(cfg domain.ChunkerSettings) (driven.Splitter, error) {
	return chunker.NewRecursive(chunkerOptions(cfg)...)
}

func buildFixed(cfg domain.ChunkerSettings) (driven.Splitter, error) {
	return chunker.NewFixed(chunkerOptions(cfg)...)
}
