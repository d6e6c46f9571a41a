// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LanguageModel completes prompts.
//
// Failures are wrapped with domain.ErrUpstream and, where the cause is known,
// domain.ErrAuthentication, domain.ErrQuotaExceeded or domain.ErrTimeout.
//
// Implementations may include:
//   - Gemini (gemini-2.5-flash)
//   - OpenAI (gpt-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LanguageModel interface {
	// Complete produces a text completion for the prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
