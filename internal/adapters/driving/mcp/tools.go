package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to find relevant passages for"`
	K        int    `json:"k,omitempty" jsonschema:"maximum number of passages to return (default from configuration)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput is a single retrieved chunk.
type PassageOutput struct {
	ChunkID  string  `json:"chunk_id"`
	SourceID string  `json:"source_id"`
	Title    string  `json:"title"`
	Section  string  `json:"section,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Text     string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Sources []PassageOutput `json:"sources"`
	Count   int             `json:"count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the passages of the loaded documents most similar to a question",
	}, s.handleRetrieve)

	if s.ports.Query != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using passages retrieved from the loaded documents",
		}, s.handleAsk)
	}
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Question, input.K)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]PassageOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = passage(results[i].Chunk, results[i].Score)
	}
	return nil, output, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, results, err := s.ports.Query.AnswerWithResults(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.Chunk.ID] = r.Score
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]PassageOutput, len(answer.Sources)),
		Count:   len(answer.Sources),
	}
	for i, c := range answer.Sources {
		output.Sources[i] = passage(c, scores[c.ID])
	}
	return nil, output, nil
}

func passage(c domain.Chunk, score float64) PassageOutput {
	return PassageOutput{
		ChunkID:  c.ID,
		SourceID: c.SourceID,
		Title:    c.Title(),
		Section:  c.Section,
		Score:    score,
		Text:     c.Text,
	}
}
