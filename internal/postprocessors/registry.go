package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// BuilderFunc creates a Splitter from chunker settings.
type BuilderFunc func(cfg domain.ChunkerSettings) (driven.Splitter, error)

// Registry maps chunking strategy names to their builders.
// It allows construction of the configured splitter by name.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new splitter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a splitter builder to the registry.
// Name should be unique and match the splitter's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a splitter for cfg.Strategy, defaulting to recursive.
// Returns an error wrapping domain.ErrConfiguration for unknown names.
func (r *Registry) Build(cfg domain.ChunkerSettings) (driven.Splitter, error) {
	name := string(cfg.Strategy)
	if name == "" {
		name = string(domain.ChunkStrategyRecursive)
	}
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chunk strategy: %s", domain.ErrConfiguration, name)
	}
	return builder(cfg)
}

// Has returns true if a splitter with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered strategy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
