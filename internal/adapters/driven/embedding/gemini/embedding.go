// Package gemini provides an embedding service adapter using the Google
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

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 30 * time.Second

	// maxBatch is the batchEmbedContents request limit.
	maxBatch = 100
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google API key (required).
	APIKey string

	// BaseURL is the API base URL.
	BaseURL string

	// Model is the embedding model (default: text-embedding-004).
	Model string

	// Timeout is the HTTP client timeout (default: 30s).
	Timeout time.Duration
}

// EmbeddingService generates embeddings using Gemini.
type EmbeddingService struct {
	api        *upstream.Client
	baseURL    string
	model      string
	dimensions int
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type values struct {
	Values []float32 `json:"values"`
}

type embedResponse struct {
	Embedding values `json:"embedding"`
}

type batchRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchResponse struct {
	Embeddings []values `json:"embeddings"`
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
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

	return &EmbeddingService{
		api: &upstream.Client{
			Provider: "gemini",
			HTTP:     &http.Client{Timeout: cfg.Timeout},
			Headers:  map[string]string{"x-goog-api-key": cfg.APIKey},
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      strings.TrimPrefix(cfg.Model, "models/"),
		dimensions: domain.EmbeddingDimensions()[cfg.Model],
	}, nil
}

func (s *EmbeddingService) request(text string) embedRequest {
	return embedRequest{
		Model:   "models/" + s.model,
		Content: content{Parts: []part{{Text: text}}},
	}
}

func (s *EmbeddingService) url(method string) string {
	return fmt.Sprintf("%s/models/%s:%s", s.baseURL, s.model, method)
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	if err := s.api.PostJSON(ctx, s.url("embedContent"), s.request(text), &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, upstream.Malformed("gemini", "empty embedding for model %s", s.model)
	}
	s.learn(resp.Embedding.Values)
	return resp.Embedding.Values, nil
}

// EmbedBatch generates embeddings for multiple texts, maxBatch per request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))

		req := batchRequest{Requests: make([]embedRequest, 0, end-start)}
		for _, text := range texts[start:end] {
			req.Requests = append(req.Requests, s.request(text))
		}

		var resp batchResponse
		if err := s.api.PostJSON(ctx, s.url("batchEmbedContents"), req, &resp); err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != end-start {
			return nil, upstream.Malformed("gemini", "expected %d embeddings, got %d", end-start, len(resp.Embeddings))
		}
		for _, e := range resp.Embeddings {
			s.learn(e.Values)
			out = append(out, e.Values)
		}
	}
	return out, nil
}

func (s *EmbeddingService) learn(vec []float32) {
	if s.dimensions == 0 {
		s.dimensions = len(vec)
	}
}

// Dimensions returns the embedding vector size, or 0 if not yet known.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model description.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, fmt.Sprintf("%s/models/%s", s.baseURL, s.model), nil)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
