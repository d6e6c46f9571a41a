package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
	"github.com/custodia-labs/ragqa/internal/logger"
	"github.com/custodia-labs/ragqa/internal/postprocessors"
)

// ConfigChecker pings configured providers.
type ConfigChecker interface {
	ValidateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) error
	ValidateLLM(ctx context.Context, settings domain.LLMSettings) error
}

// Runtime holds the adapters the commands assemble pipelines from.
// The factories are called once per command with the effective configuration.
type Runtime struct {
	Log       *logger.Logger
	Settings  driving.SettingsService
	Prompts   driven.PromptStore
	Loader    driven.DocumentLoader
	Exporter  driven.ChunkExporter
	Splitters *postprocessors.Registry
	Checker   ConfigChecker

	// DefaultDBPath is used by commands that need an index database when
	// neither --db nor store.path is set.
	DefaultDBPath string

	NewEmbedder func(cfg domain.PipelineConfig) (driven.EmbeddingService, error)
	NewLLM      func(cfg domain.PipelineConfig) (driven.LanguageModel, error)
	NewIndex    func(cfg domain.PipelineConfig) driven.VectorIndex
	OpenStore   func(path string) (driven.IndexStore, error)
}

var rt *Runtime

// SetRuntime installs the adapters used by every command.
func SetRuntime(r *Runtime) {
	rt = r
}

var errNoRuntime = errors.New("runtime not configured")

func currentRuntime() (*Runtime, error) {
	if rt == nil {
		return nil, errNoRuntime
	}
	return rt, nil
}
