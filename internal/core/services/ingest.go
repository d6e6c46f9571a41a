package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor loads files and chunks them.
type Ingestor struct {
	loader   driven.DocumentLoader
	pipeline driven.ChunkPipeline
	log      *logger.Logger
	stat     func(string) (os.FileInfo, error)
}

// NewIngestor creates an ingestor.
func NewIngestor(loader driven.DocumentLoader, pipeline driven.ChunkPipeline, log *logger.Logger) *Ingestor {
	return &Ingestor{
		loader:   loader,
		pipeline: pipeline,
		log:      log,
		stat:     os.Stat,
	}
}

// Ingest checks that every path exists before loading any of them.
// Files of an unsupported type are skipped with a warning.
func (s *Ingestor) Ingest(ctx context.Context, paths []string) (*domain.IngestReport, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files given", domain.ErrInvalidInput)
	}
	for _, path := range paths {
		if _, err := s.stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file not found: %s: %w", path, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	s.log.Info("Loading and processing documents...")
	report := &domain.IngestReport{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !s.loader.Supports(path) {
			s.skip(report, path)
			continue
		}
		doc, err := s.loader.Load(ctx, path)
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			s.skip(report, path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}

		chunks, err := s.pipeline.Process(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", path, err)
		}
		s.log.Debug("%s: %d sections, %d chunks", path, len(doc.Sections), len(chunks))

		report.Documents = append(report.Documents, doc)
		report.Chunks = append(report.Chunks, chunks...)
	}

	s.log.Info("Loaded %d document chunks from %d files", len(report.Chunks), len(paths))
	return report, nil
}

func (s *Ingestor) skip(report *domain.IngestReport, path string) {
	msg := fmt.Sprintf("Unsupported file type: %s", path)
	s.log.Warn("%s", msg)
	report.Warnings = append(report.Warnings, msg)
}
