package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyChunkSize        = "chunker.chunk_size"
	KeyChunkOverlap     = "chunker.chunk_overlap"
	KeyChunkStrategy    = "chunker.strategy"
	KeyTopK             = "retrieval.top_k"
	KeyContextBudget    = "retrieval.context_budget"
	KeyLLMProvider      = "llm.provider"
	KeyLLMModel         = "llm.model"
	KeyLLMTemperature   = "llm.temperature"
	KeyLLMBaseURL       = "llm.base_url"
	KeyEmbedProvider    = "embedding.provider"
	KeyEmbedModel       = "embedding.model"
	KeyEmbedBaseURL     = "embedding.base_url"
	KeyTimeout          = "resilience.timeout"
	KeyMaxRetries       = "resilience.max_retries"
	KeyRequestsPerSec   = "resilience.requests_per_second"
	KeyBurst            = "resilience.burst"
	KeyStorePath        = "store.path"
	KeyStoreIndex       = "store.index"
	KeyQdrantURL        = "store.qdrant_url"
	KeyQdrantCollection = "store.qdrant_collection"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindDuration
)

var keyKinds = map[string]keyKind{
	KeyChunkSize:        kindInt,
	KeyChunkOverlap:     kindInt,
	KeyChunkStrategy:    kindString,
	KeyTopK:             kindInt,
	KeyContextBudget:    kindInt,
	KeyLLMProvider:      kindString,
	KeyLLMModel:         kindString,
	KeyLLMTemperature:   kindFloat,
	KeyLLMBaseURL:       kindString,
	KeyEmbedProvider:    kindString,
	KeyEmbedModel:       kindString,
	KeyEmbedBaseURL:     kindString,
	KeyTimeout:          kindDuration,
	KeyMaxRetries:       kindInt,
	KeyRequestsPerSec:   kindFloat,
	KeyBurst:            kindInt,
	KeyStorePath:        kindString,
	KeyStoreIndex:       kindString,
	KeyQdrantURL:        kindString,
	KeyQdrantCollection: kindString,
}

// SettingsService resolves pipeline configuration from a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a settings service that reads API keys from
// the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Used by tests.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get returns stored values layered over the defaults.
func (s *SettingsService) Get() (domain.PipelineConfig, error) {
	cfg := domain.DefaultPipelineConfig()

	cfg.Chunker.ChunkSize = s.getInt(KeyChunkSize, cfg.Chunker.ChunkSize)
	cfg.Chunker.ChunkOverlap = s.getInt(KeyChunkOverlap, cfg.Chunker.ChunkOverlap)
	cfg.Chunker.Strategy = domain.ChunkStrategy(s.getString(KeyChunkStrategy, string(cfg.Chunker.Strategy)))

	cfg.Retrieval.TopK = s.getInt(KeyTopK, cfg.Retrieval.TopK)
	cfg.Retrieval.ContextBudget = s.getInt(KeyContextBudget, cfg.Retrieval.ContextBudget)

	llmProvider := domain.AIProvider(s.getString(KeyLLMProvider, string(cfg.LLM.Provider)))
	if llmProvider != cfg.LLM.Provider {
		cfg.LLM.Model = domain.DefaultLLMModels()[llmProvider]
	}
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = s.getString(KeyLLMModel, cfg.LLM.Model)
	cfg.LLM.Temperature = s.getFloat(KeyLLMTemperature, cfg.LLM.Temperature)
	cfg.LLM.BaseURL = s.configStore.GetString(KeyLLMBaseURL)
	cfg.LLM.APIKey = s.apiKey(llmProvider)

	embedProvider := domain.AIProvider(s.getString(KeyEmbedProvider, string(cfg.Embedding.Provider)))
	if embedProvider != cfg.Embedding.Provider {
		cfg.Embedding.Model = domain.DefaultEmbeddingModels()[embedProvider]
	}
	cfg.Embedding.Provider = embedProvider
	cfg.Embedding.Model = s.getString(KeyEmbedModel, cfg.Embedding.Model)
	cfg.Embedding.BaseURL = s.configStore.GetString(KeyEmbedBaseURL)
	cfg.Embedding.APIKey = s.apiKey(embedProvider)

	cfg.Resilience.Timeout = s.getDuration(KeyTimeout, cfg.Resilience.Timeout)
	cfg.Resilience.MaxRetries = s.getInt(KeyMaxRetries, cfg.Resilience.MaxRetries)
	cfg.Resilience.RequestsPerSecond = s.getFloat(KeyRequestsPerSec, cfg.Resilience.RequestsPerSecond)
	cfg.Resilience.Burst = s.getInt(KeyBurst, cfg.Resilience.Burst)

	cfg.Store.Path = s.getString(KeyStorePath, cfg.Store.Path)
	cfg.Store.Index = s.getString(KeyStoreIndex, cfg.Store.Index)
	cfg.Store.QdrantURL = s.getString(KeyQdrantURL, cfg.Store.QdrantURL)
	cfg.Store.QdrantCollection = s.getString(KeyQdrantCollection, cfg.Store.QdrantCollection)

	return cfg, nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrConfiguration, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %q", domain.ErrConfiguration, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %q", domain.ErrConfiguration, key, value)
		}
		parsed = f
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration such as 30s: %q", domain.ErrConfiguration, key, value)
		}
		parsed = value
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the effective value of key, including defaults.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := keyKinds[key]; !ok {
		return "", fmt.Errorf("%w: unknown config key %q", domain.ErrConfiguration, key)
	}
	cfg, err := s.Get()
	if err != nil {
		return "", err
	}
	return effectiveValues(cfg)[key], nil
}

func effectiveValues(cfg domain.PipelineConfig) map[string]string {
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
	return map[string]string{
		KeyChunkSize:        itoa(cfg.Chunker.ChunkSize),
		KeyChunkOverlap:     itoa(cfg.Chunker.ChunkOverlap),
		KeyChunkStrategy:    string(cfg.Chunker.Strategy),
		KeyTopK:             itoa(cfg.Retrieval.TopK),
		KeyContextBudget:    itoa(cfg.Retrieval.ContextBudget),
		KeyLLMProvider:      string(cfg.LLM.Provider),
		KeyLLMModel:         cfg.LLM.Model,
		KeyLLMTemperature:   ftoa(cfg.LLM.Temperature),
		KeyLLMBaseURL:       cfg.LLM.BaseURL,
		KeyEmbedProvider:    string(cfg.Embedding.Provider),
		KeyEmbedModel:       cfg.Embedding.Model,
		KeyEmbedBaseURL:     cfg.Embedding.BaseURL,
		KeyTimeout:          cfg.Resilience.Timeout.String(),
		KeyMaxRetries:       itoa(cfg.Resilience.MaxRetries),
		KeyRequestsPerSec:   ftoa(cfg.Resilience.RequestsPerSecond),
		KeyBurst:            itoa(cfg.Resilience.Burst),
		KeyStorePath:        cfg.Store.Path,
		KeyStoreIndex:       cfg.Store.Index,
		KeyQdrantURL:        cfg.Store.QdrantURL,
		KeyQdrantCollection: cfg.Store.QdrantCollection,
	}
}

func (s *SettingsService) apiKey(provider domain.AIProvider) string {
	env := provider.APIKeyEnv()
	if env == "" {
		return ""
	}
	return s.getenv(env)
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, def time.Duration) time.Duration {
	if d := s.configStore.GetDuration(key); d > 0 {
		return d
	}
	return def
}
