// Package loader reads documents from the local filesystem and hands
// them to a normaliser registry by MIME type.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// Ensure FileLoader implements the interface.
var _ driven.DocumentLoader = (*FileLoader)(nil)

// extensionMIME maps recognised lower-case file extensions to MIME types.
var extensionMIME = map[string]string{
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

// Extensions returns the recognised file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensionMIME))
	for ext := range extensionMIME {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FileLoader loads files from disk.
type FileLoader struct {
	registry driven.NormaliserRegistry
	log      *logger.Logger
}

// NewFileLoader creates a loader backed by registry.
func NewFileLoader(registry driven.NormaliserRegistry, log *logger.Logger) *FileLoader {
	return &FileLoader{registry: registry, log: log}
}

// Supports reports whether the path has a recognised extension.
func (l *FileLoader) Supports(path string) bool {
	_, ok := extensionMIME[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads and normalises the file at path.
func (l *FileLoader) Load(ctx context.Context, path string) (*domain.SourceDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := extensionMIME[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file not found: %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	l.log.Debug("Loading %s (%s, %d bytes)", path, mime, len(content))
	doc, err := l.registry.Normalise(ctx, &domain.RawDocument{
		URI:      path,
		MIMEType: mime,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if doc.ID == "" {
		doc.ID = path
	}
	if doc.Path == "" {
		doc.Path = path
	}
	return doc, nil
}
