// Package ollama provides a language model adapter using Ollama.
package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/ai/upstream"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Ensure LanguageModel implements the interface.
var _ driven.LanguageModel = (*LanguageModel)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama language model.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the HTTP client timeout (default: 120s).
	Timeout time.Duration
}

// LanguageModel completes prompts using a local Ollama instance.
type LanguageModel struct {
	api     *upstream.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewLanguageModel creates a new Ollama language model.
func NewLanguageModel(cfg Config) *LanguageModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LanguageModel{
		api: &upstream.Client{
			Provider: "ollama",
			HTTP:     &http.Client{Timeout: cfg.Timeout},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

// Complete runs a non-streaming generation.
func (m *LanguageModel) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	temperature := opts.Temperature
	req := generateRequest{
		Model:  m.model,
		Prompt: prompt,
		Options: options{
			NumPredict:  opts.MaxTokens,
			Temperature: &temperature,
			Stop:        opts.StopWords,
		},
	}

	var resp generateResponse
	if err := m.api.PostJSON(ctx, m.baseURL+"/api/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// ModelName returns the name of the model being used.
func (m *LanguageModel) ModelName() string {
	return m.model
}

// Ping checks the /api/tags endpoint without running inference.
func (m *LanguageModel) Ping(ctx context.Context) error {
	return m.api.Get(ctx, m.baseURL+"/api/tags", nil)
}

// Close releases resources.
func (m *LanguageModel) Close() error {
	return nil
}
