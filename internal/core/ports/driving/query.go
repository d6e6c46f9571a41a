package driving

import (
	"context"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// RetrievalService ranks indexed chunks against a question.
type RetrievalService interface {
	// Retrieve returns at most k chunks, highest score first.
	// A k of zero or less uses the configured default.
	Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredChunk, error)
}

// QueryService answers questions against the index.
type QueryService interface {
	// Answer retrieves context and asks the language model.
	Answer(ctx context.Context, question string) (*domain.Answer, error)

	// AnswerWithResults is Answer that also returns every retrieved chunk
	// with its score, including chunks left out of the context.
	AnswerWithResults(ctx context.Context, question string) (*domain.Answer, []domain.ScoredChunk, error)
}
