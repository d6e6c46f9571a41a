// Command ragqa answers questions about local documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/exporter/docx"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/loader"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/ragqa/internal/adapters/driven/vectorindex/qdrant"
	"github.com/custodia-labs/ragqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/services"
	"github.com/custodia-labs/ragqa/internal/logger"
	"github.com/custodia-labs/ragqa/internal/normalisers"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; keys may come from the environment.
	_ = godotenv.Load()

	log := logger.New(os.Stderr, false)

	dir, err := file.DefaultDir()
	if err != nil {
		return err
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}
	dbPath, err := sqlite.DefaultPath()
	if err != nil {
		return err
	}

	cli.SetVersion(version)
	cli.SetRuntime(&cli.Runtime{
		Log:           log,
		Settings:      services.NewSettingsService(configStore),
		Prompts:       prompts,
		Loader:        loader.NewFileLoader(normalisers.DefaultRegistry(), log),
		Exporter:      docx.New(),
		Checker:       ai.NewConfigValidator(),
		DefaultDBPath: dbPath,
		NewEmbedder: func(cfg domain.PipelineConfig) (driven.EmbeddingService, error) {
			inner, err := ai.CreateEmbeddingService(cfg.Embedding)
			if err != nil {
				return nil, err
			}
			return ai.NewResilientEmbedder(inner, cfg.Resilience, log), nil
		},
		NewLLM: func(cfg domain.PipelineConfig) (driven.LanguageModel, error) {
			inner, err := ai.CreateLanguageModel(cfg.LLM)
			if err != nil {
				return nil, err
			}
			return ai.NewResilientLanguageModel(inner, cfg.Resilience, log), nil
		},
		NewIndex: func(cfg domain.PipelineConfig) driven.VectorIndex {
			if cfg.Store.Index == domain.IndexQdrant {
				return qdrant.New(qdrant.Config{
					URL:        cfg.Store.QdrantURL,
					APIKey:     os.Getenv("QDRANT_API_KEY"),
					Collection: cfg.Store.QdrantCollection,
					Timeout:    cfg.Resilience.Timeout,
				}, log)
			}
			return memory.New()
		},
		OpenStore: func(path string) (driven.IndexStore, error) {
			return sqlite.NewStore(path)
		},
	})

	return cli.Execute(context.Background())
}
