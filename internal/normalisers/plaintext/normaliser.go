// Package plaintext normalises plain text and Markdown files.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// SectionID names the single section of a text document.
const SectionID = "body"

const bom = "\ufeff"

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise returns the file content as a single section. Invalid UTF-8
// is replaced and a leading byte order mark is dropped.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.ToValidUTF8(string(raw.Content), "\uFFFD")
	text = strings.TrimPrefix(text, bom)
	// Windows line endings would otherwise count twice toward chunk size.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	metadata := copyMetadata(raw.Metadata)
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = format(raw.MIMEType)

	return &domain.SourceDocument{
		ID:       raw.URI,
		Path:     raw.URI,
		Title:    extractTitleFromMetadataOrURI(raw),
		Sections: []domain.Section{{ID: SectionID, Text: text}},
		Metadata: metadata,
	}, nil
}

func format(mimeType string) string {
	if mimeType == "text/markdown" {
		return "markdown"
	}
	return "text"
}

// extractTitleFromMetadataOrURI checks metadata for title first, then falls back to URI.
func extractTitleFromMetadataOrURI(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return extractTitle(raw.URI)
}

// extractTitle derives a human-readable title from a file path.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata, never nil.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
