// Package gemini provides a language model adapter using the Google
// Generative Language REST API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/ai/upstream"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// Ensure LanguageModel implements the interface.
var _ driven.LanguageModel = (*LanguageModel)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini language model.
type Config struct {
	// APIKey is the Google API key (required).
	APIKey string

	// BaseURL is the API base URL.
	BaseURL string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// Timeout is the HTTP client timeout (default: 120s).
	Timeout time.Duration
}

// LanguageModel completes prompts using generateContent.
type LanguageModel struct {
	api     *upstream.Client
	baseURL string
	model   string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewLanguageModel creates a new Gemini language model.
func NewLanguageModel(cfg Config) (*LanguageModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini: API key is required", domain.ErrConfiguration)
	}
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
			Provider: "gemini",
			HTTP:     &http.Client{Timeout: cfg.Timeout},
			Headers:  map[string]string{"x-goog-api-key": cfg.APIKey},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   strings.TrimPrefix(cfg.Model, "models/"),
	}, nil
}

// Complete sends the prompt as a single user turn and joins the text parts
// of the first candidate.
func (m *LanguageModel) Complete(ctx context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	temperature := opts.Temperature
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: opts.MaxTokens,
			StopSequences:   opts.StopWords,
		},
	}

	var resp generateResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", m.baseURL, m.model)
	if err := m.api.PostJSON(ctx, url, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", upstream.Malformed("gemini", "prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", upstream.Malformed("gemini", "no candidates returned")
	}

	var out strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String(), nil
}

// ModelName returns the name of the model being used.
func (m *LanguageModel) ModelName() string {
	return m.model
}

// Ping fetches the model description.
func (m *LanguageModel) Ping(ctx context.Context) error {
	return m.api.Get(ctx, fmt.Sprintf("%s/models/%s", m.baseURL, m.model), nil)
}

// Close releases resources.
func (m *LanguageModel) Close() error {
	return nil
}
