package mcp

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.ScoredChunk
	err     error

	gotQuestion string
	gotK        int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, question string, k int) ([]domain.ScoredChunk, error) {
	m.gotQuestion = question
	m.gotK = k
	return m.results, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer  *domain.Answer
	results []domain.ScoredChunk
	err     error
}

func (m *mockQueryService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	a, _, err := m.AnswerWithResults(ctx, question)
	return a, err
}

func (m *mockQueryService) AnswerWithResults(
	_ context.Context, _ string,
) (*domain.Answer, []domain.ScoredChunk, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.answer, m.results, nil
}

type fixedIndex struct {
	n, dims int
}

func (f fixedIndex) Len() int        { return f.n }
func (f fixedIndex) Dimensions() int { return f.dims }
