package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// ConfigValidator checks that configured providers are reachable.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// ValidateEmbedding creates the embedding service and pings it.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("embedding provider %s unreachable: %w", settings.Provider, err)
	}
	return nil
}

// ValidateLLM creates the language model and pings it.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings domain.LLMSettings) error {
	llm, err := CreateLanguageModel(settings)
	if err != nil {
		return err
	}
	defer llm.Close()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	if err := llm.Ping(ctx); err != nil {
		return fmt.Errorf("llm provider %s unreachable: %w", settings.Provider, err)
	}
	return nil
}
