package services

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService maps known texts to fixed vectors and counts calls.
type mockEmbeddingService struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	fallback  []float32
	embedErr  error
	short     bool
	dims      int
	model     string
	embeds    int
	batches   int
	lastBatch []string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 0}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeds++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	m.lastBatch = texts
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	n := len(texts)
	if m.short {
		n--
	}
	result := make([][]float32, n)
	for i := 0; i < n; i++ {
		result[i] = m.vector(texts[i])
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dims
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model == "" {
		return "mock-embed"
	}
	return m.model
}

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLM records prompts and returns a canned response.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	opts     []driven.CompleteOptions
}

func (m *mockLLM) Complete(_ context.Context, prompt string, opts driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockRetriever returns fixed results.
type mockRetriever struct {
	results []domain.ScoredChunk
	err     error
	lastK   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.ScoredChunk, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// mockVectorIndex records builds and can fail.
type mockVectorIndex struct {
	built    []domain.EmbeddedChunk
	buildErr error
	builds   int
}

func (m *mockVectorIndex) Build(_ context.Context, items []domain.EmbeddedChunk) error {
	m.builds++
	if m.buildErr != nil {
		return m.buildErr
	}
	m.built = items
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, _ int) ([]domain.ScoredChunk, error) {
	if m.built == nil {
		return nil, domain.ErrNotBuilt
	}
	return []domain.ScoredChunk{}, nil
}

func (m *mockVectorIndex) Len() int { return len(m.built) }

func (m *mockVectorIndex) Dimensions() int {
	if len(m.built) == 0 {
		return 0
	}
	return len(m.built[0].Vector)
}

func (m *mockVectorIndex) Close() error { return nil }

// mockIndexStore keeps one saved index in memory.
type mockIndexStore struct {
	manifest *domain.IndexManifest
	chunks   []domain.EmbeddedChunk
	saveErr  error
}

func (m *mockIndexStore) SaveIndex(_ context.Context, manifest domain.IndexManifest, chunks []domain.EmbeddedChunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.manifest = &manifest
	m.chunks = chunks
	return nil
}

func (m *mockIndexStore) LoadIndex(_ context.Context) (*domain.IndexManifest, []domain.EmbeddedChunk, error) {
	if m.manifest == nil {
		return nil, nil, domain.ErrNotFound
	}
	return m.manifest, m.chunks, nil
}

func (m *mockIndexStore) Close() error { return nil }

// mockLoader serves documents by path and rejects unknown extensions.
type mockLoader struct {
	docs    map[string]*domain.SourceDocument
	loadErr map[string]error
	loaded  []string
}

func (m *mockLoader) Supports(path string) bool {
	return strings.HasSuffix(path, ".txt") || strings.HasSuffix(path, ".pdf")
}

func (m *mockLoader) Load(_ context.Context, path string) (*domain.SourceDocument, error) {
	m.loaded = append(m.loaded, path)
	if err, ok := m.loadErr[path]; ok {
		return nil, err
	}
	if doc, ok := m.docs[path]; ok {
		return doc, nil
	}
	return nil, domain.ErrUnsupportedFormat
}

// mockPipeline makes one chunk per section.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.SourceDocument) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks := make([]domain.Chunk, len(doc.Sections))
	for i, s := range doc.Sections {
		chunks[i] = domain.Chunk{ID: doc.ID + "#" + s.ID, SourceID: doc.ID, Index: i, Text: s.Text}
	}
	return chunks, nil
}

// fakeFileInfo satisfies os.FileInfo for stat stubs.
type fakeFileInfo struct{ name string }

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

func statExisting(paths ...string) func(string) (os.FileInfo, error) {
	return func(p string) (os.FileInfo, error) {
		for _, e := range paths {
			if e == p {
				return fakeFileInfo{name: p}, nil
			}
		}
		return nil, os.ErrNotExist
	}
}
