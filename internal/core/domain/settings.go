package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderLocal is the in-process hashing embedder.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// APIKeyEnv returns the environment variable holding the provider's key,
// or an empty string for providers that need none.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderGemini:
		return "GOOGLE_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderLocal:
		return "Hashing embedder (in-process)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key, read from the environment.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key, read from the environment.
	APIKey string

	// Temperature is the sampling randomness in [0, 1].
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkStrategy names a chunking algorithm.
type ChunkStrategy string

// Available chunking strategies.
const (
	// ChunkStrategyRecursive splits on structural separators.
	ChunkStrategyRecursive ChunkStrategy = "recursive"

	// ChunkStrategyFixed uses a fixed-size sliding window.
	ChunkStrategyFixed ChunkStrategy = "fixed"
)

// ChunkerSettings configures the chunker.
type ChunkerSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the maximum shared context between chunks.
	ChunkOverlap int

	// Strategy selects the chunking algorithm.
	Strategy ChunkStrategy
}

// Validate checks the size and overlap relationship.
func (c ChunkerSettings) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrConfiguration, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, %d), got %d",
			ErrConfiguration, c.ChunkSize, c.ChunkOverlap)
	}
	switch c.Strategy {
	case ChunkStrategyRecursive, ChunkStrategyFixed, "":
		return nil
	default:
		return fmt.Errorf("%w: unknown chunk strategy %q", ErrConfiguration, c.Strategy)
	}
}

// RetrievalSettings configures retrieval and context assembly.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per question.
	TopK int

	// ContextBudget is the maximum context length in characters.
	ContextBudget int
}

// ResilienceSettings configures the capability wrapper.
type ResilienceSettings struct {
	// Timeout bounds each provider attempt.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// RequestsPerSecond throttles provider calls. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the limiter burst size.
	Burst int
}

// StoreSettings configures index persistence and the vector index backend.
type StoreSettings struct {
	// Path is the SQLite database file. Empty means no persistence.
	Path string

	// Index selects the vector index backend ("memory" or "qdrant").
	Index string

	// QdrantURL is the Qdrant REST endpoint.
	QdrantURL string

	// QdrantCollection is the collection name.
	QdrantCollection string
}

// Vector index backends.
const (
	IndexMemory = "memory"
	IndexQdrant = "qdrant"
)

// PipelineConfig holds all pipeline settings.
type PipelineConfig struct {
	Chunker    ChunkerSettings
	Retrieval  RetrievalSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Resilience ResilienceSettings
	Store      StoreSettings
}

// DefaultPipelineConfig returns the default configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Chunker: ChunkerSettings{
			ChunkSize:    500,
			ChunkOverlap: 100,
			Strategy:     ChunkStrategyRecursive,
		},
		Retrieval: RetrievalSettings{
			TopK:          3,
			ContextBudget: 6000,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
			Model:    DefaultEmbeddingModels()[AIProviderGemini],
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			Model:       DefaultLLMModels()[AIProviderGemini],
			Temperature: 0.7,
		},
		Resilience: ResilienceSettings{
			Timeout:           60 * time.Second,
			MaxRetries:        3,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Store: StoreSettings{
			Index:            IndexMemory,
			QdrantURL:        "http://localhost:6333",
			QdrantCollection: "ragqa",
		},
	}
}

// Validate checks every setting that can be checked without I/O.
func (c PipelineConfig) Validate() error {
	if err := c.Chunker.Validate(); err != nil {
		return err
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrConfiguration, c.Retrieval.TopK)
	}
	if c.Retrieval.ContextBudget <= 0 {
		return fmt.Errorf("%w: context_budget must be positive, got %d",
			ErrConfiguration, c.Retrieval.ContextBudget)
	}
	if !c.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrConfiguration, c.Embedding.Provider)
	}
	if !c.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", ErrConfiguration, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("%w: temperature must be in [0, 1], got %g", ErrConfiguration, c.LLM.Temperature)
	}
	if c.Resilience.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrConfiguration)
	}
	switch c.Store.Index {
	case IndexMemory, IndexQdrant, "":
	default:
		return fmt.Errorf("%w: unknown index backend %q", ErrConfiguration, c.Store.Index)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderOllama,
		AIProviderLocal,
	}
}

// AllLLMProviders returns providers that support completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "text-embedding-004",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderOllama: "nomic-embed-text",
		AIProviderLocal:  "hashing-512",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderOllama:    "llama3.2",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"text-embedding-004":   768,
		"gemini-embedding-001": 3072,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
