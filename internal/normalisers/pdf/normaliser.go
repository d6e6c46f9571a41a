// Package pdf normalises PDF files using github.com/ledongthuc/pdf.
// Each page becomes one section.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the PDF content type.
const MIMEType = "application/pdf"

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// PageID returns the section ID of 1-based page n.
func PageID(n int) string {
	return fmt.Sprintf("page-%d", n)
}

// Normalise extracts the plain text of every page in order. Pages without
// text are kept as empty sections so page numbers stay aligned.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (doc *domain.SourceDocument, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: malformed pdf: %v", domain.ErrInvalidInput, raw.URI, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, raw.URI, err)
	}

	pages := reader.NumPage()
	sections := make([]domain.Section, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		section := domain.Section{ID: PageID(i)}
		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: page %d: %v", domain.ErrInvalidInput, raw.URI, i, err)
			}
			section.Text = strings.TrimSpace(text)
		}
		sections = append(sections, section)
	}

	metadata := make(map[string]any, len(raw.Metadata)+3)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "pdf"
	metadata["pages"] = pages

	return &domain.SourceDocument{
		ID:       raw.URI,
		Path:     raw.URI,
		Title:    extractTitle(raw.URI),
		Sections: sections,
		Metadata: metadata,
	}, nil
}

// extractTitle derives a human-readable title from a file path.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.NewReplacer("_", " ", "-", " ").Replace(filename)
}
