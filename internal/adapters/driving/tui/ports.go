// Package tui provides an interactive terminal chat over the loaded documents.
// It is a driving adapter: questions go through the QueryService port.
package tui

import (
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
)

// Ports aggregates the services the chat needs.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Status describes the loaded index in the status bar, e.g. "42 chunks".
	Status string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
