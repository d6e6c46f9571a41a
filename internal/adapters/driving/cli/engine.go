package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/services"
	"github.com/custodia-labs/ragqa/internal/postprocessors"
	"github.com/custodia-labs/ragqa/internal/postprocessors/metadata"
)

// engineOptions selects what a command needs.
type engineOptions struct {
	// dbPath overrides store.path.
	dbPath string

	// requireDB falls back to the runtime's default database path.
	requireDB bool

	// answers creates the language model. Commands that only retrieve
	// skip it so they need no LLM credential.
	answers bool
}

// engine is the pipeline assembled for one command invocation.
type engine struct {
	rt  *Runtime
	cfg domain.PipelineConfig

	ingestor  *services.Ingestor
	embedder  driven.EmbeddingService
	llm       driven.LanguageModel
	index     *services.SwapIndex
	store     driven.IndexStore
	retriever *services.Retriever
	query     *services.QueryPipeline

	mu    sync.Mutex
	paths []string
}

// loadConfig returns the validated effective configuration.
func loadConfig(r *Runtime) (domain.PipelineConfig, error) {
	cfg, err := r.Settings.Get()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newIngestor(r *Runtime, cfg domain.PipelineConfig) (*services.Ingestor, error) {
	splitters := r.Splitters
	if splitters == nil {
		splitters = postprocessors.DefaultRegistry()
	}
	splitter, err := splitters.Build(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	pipeline := postprocessors.NewPipeline(splitter, metadata.New())
	return services.NewIngestor(r.Loader, pipeline, r.Log), nil
}

// newEngine creates every adapter up front so that missing credentials
// and bad settings fail before any document is read.
func newEngine(r *Runtime, opts engineOptions) (*engine, error) {
	cfg, err := loadConfig(r)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Store.Path = opts.dbPath
	}
	if cfg.Store.Path == "" && opts.requireDB {
		cfg.Store.Path = r.DefaultDBPath
	}

	e := &engine{rt: r, cfg: cfg}

	if e.ingestor, err = newIngestor(r, cfg); err != nil {
		return nil, err
	}
	if e.embedder, err = r.NewEmbedder(cfg); err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	if opts.answers {
		if e.llm, err = r.NewLLM(cfg); err != nil {
			e.Close() //nolint:errcheck
			return nil, fmt.Errorf("create language model: %w", err)
		}
	}
	if cfg.Store.Path != "" {
		if e.store, err = r.OpenStore(cfg.Store.Path); err != nil {
			e.Close() //nolint:errcheck
			return nil, fmt.Errorf("open index database: %w", err)
		}
	}

	e.index = services.NewSwapIndex(r.NewIndex(cfg))
	e.retriever = services.NewRetriever(e.embedder, e.index, cfg.Retrieval.TopK, r.Log)
	if e.llm != nil {
		e.query = services.NewQueryPipeline(e.retriever, e.llm, r.Prompts, services.QueryOptions{
			TopK:          cfg.Retrieval.TopK,
			ContextBudget: cfg.Retrieval.ContextBudget,
			Temperature:   cfg.LLM.Temperature,
		}, r.Log)
	}
	return e, nil
}

func (e *engine) indexer(target driven.VectorIndex) *services.Indexer {
	ix := services.NewIndexer(e.embedder, target, e.rt.Log)
	if e.store != nil {
		ix.SetStore(e.store, e.cfg.Chunker)
	}
	return ix
}

// load builds the index from paths, or restores it from the database
// when no paths are given.
func (e *engine) load(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		if e.store == nil {
			return fmt.Errorf("%w: no files given and no index database (use --db)", domain.ErrInvalidInput)
		}
		_, err := e.indexer(e.index).Restore(ctx)
		return err
	}

	report, err := e.ingestor.Ingest(ctx, paths)
	if err != nil {
		return err
	}
	if err := e.indexer(e.index).Build(ctx, report.Chunks); err != nil {
		return err
	}

	e.mu.Lock()
	e.paths = append([]string(nil), paths...)
	e.mu.Unlock()
	return nil
}

// Rebuild re-ingests the loaded files into a fresh index and swaps it in.
// On failure the current index keeps serving.
func (e *engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	report, err := e.ingestor.Ingest(ctx, e.paths)
	if err != nil {
		return err
	}
	next := e.rt.NewIndex(e.cfg)
	if err := e.indexer(next).Build(ctx, report.Chunks); err != nil {
		next.Close() //nolint:errcheck
		return err
	}
	// In-flight searches may still hold the replaced index, so it is not closed.
	e.index.Swap(next)
	e.rt.Log.Info("Index rebuilt: %d chunks", next.Len())
	return nil
}

// Close releases every adapter the engine opened.
func (e *engine) Close() error {
	var errs []error
	if e.index != nil {
		errs = append(errs, e.index.Close())
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	if e.llm != nil {
		errs = append(errs, e.llm.Close())
	}
	if e.embedder != nil {
		errs = append(errs, e.embedder.Close())
	}
	return errors.Join(errs...)
}
