// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	geminiembed "github.com/custodia-labs/ragqa/internal/adapters/driven/embedding/gemini"
	localembed "github.com/custodia-labs/ragqa/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/ragqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragqa/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragqa/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/ragqa/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/ragqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// CreateEmbeddingService creates the embedding service named by settings.
// A cloud provider without an API key fails with domain.ErrConfiguration.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if err := requireKey(settings.Provider, settings.APIKey); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderLocal:
		return localembed.NewEmbeddingService(localDimensions(settings.Model)), nil

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use gemini, openai, ollama or local",
			domain.ErrConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %q", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateLanguageModel creates the language model named by settings.
// A cloud provider without an API key fails with domain.ErrConfiguration.
func CreateLanguageModel(settings domain.LLMSettings) (driven.LanguageModel, error) {
	if err := requireKey(settings.Provider, settings.APIKey); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLanguageModel(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLanguageModel(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLanguageModel(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLanguageModel(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderLocal:
		return nil, fmt.Errorf("%w: the local provider only supports embeddings", domain.ErrConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %q", domain.ErrConfiguration, settings.Provider)
	}
}

func requireKey(p domain.AIProvider, key string) error {
	if p.RequiresAPIKey() && key == "" {
		return fmt.Errorf("%w: %s requires an API key, set %s", domain.ErrConfiguration, p, p.APIKeyEnv())
	}
	return nil
}

// localDimensions reads the size from a "hashing-N" model name.
func localDimensions(model string) int {
	var n int
	if _, err := fmt.Sscanf(model, "hashing-%d", &n); err != nil {
		return localembed.DefaultDimensions
	}
	return n
}
