package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// mockSplitter returns predefined chunks.
type mockSplitter struct {
	chunks []domain.Chunk
}

func (m *mockSplitter) Name() string { return "mock" }

func (m *mockSplitter) Split(_ *domain.SourceDocument) []domain.Chunk {
	return m.chunks
}

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(
	_ context.Context,
	_ *domain.SourceDocument,
	chunks []domain.Chunk,
) ([]domain.Chunk, error) {
	m.seen = chunks
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func testDoc() *domain.SourceDocument {
	return &domain.SourceDocument{
		ID:       "test-doc",
		Sections: []domain.Section{{ID: "body", Text: "test content"}},
	}
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline(&mockSplitter{})
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
	if p.Splitter().Name() != "mock" {
		t.Errorf("expected mock splitter, got %s", p.Splitter().Name())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline(&mockSplitter{})
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline(&mockSplitter{})

	_, err := p.Process(context.Background(), nil)
	if err == nil {
		t.Error("expected error for nil document")
	}
}

func TestPipeline_Process_NoSplitter(t *testing.T) {
	p := NewPipeline(nil)

	_, err := p.Process(context.Background(), testDoc())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestPipeline_Process_SplitterOnly(t *testing.T) {
	expected := []domain.Chunk{{ID: "chunk-1", Text: "test"}}
	p := NewPipeline(&mockSplitter{chunks: expected})

	chunks, err := p.Process(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "chunk-1" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}

func TestPipeline_Process_ChainsProcessors(t *testing.T) {
	split := []domain.Chunk{{ID: "a"}, {ID: "b"}}
	replaced := []domain.Chunk{{ID: "c"}}
	first := &mockProcessor{name: "first", chunks: replaced}
	second := &mockProcessor{name: "second"}

	p := NewPipeline(&mockSplitter{chunks: split}, first, second)

	chunks, err := p.Process(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.seen) != 2 {
		t.Errorf("first processor should see splitter output, got %v", first.seen)
	}
	if len(second.seen) != 1 || second.seen[0].ID != "c" {
		t.Errorf("second processor should see first output, got %v", second.seen)
	}
	if len(chunks) != 1 || chunks[0].ID != "c" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")
	p := NewPipeline(&mockSplitter{}, &mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), testDoc())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped processor error, got %v", err)
	}
}

func TestPipeline_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipeline(&mockSplitter{}, &mockProcessor{name: "never"})

	_, err := p.Process(ctx, testDoc())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
