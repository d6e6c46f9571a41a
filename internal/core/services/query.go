package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/core/ports/driving"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// ContextSeparator joins chunk texts in the assembled context.
const ContextSeparator = "\n\n"

// Ensure QueryPipeline implements the interface.
var _ driving.QueryService = (*QueryPipeline)(nil)

// QueryOptions configures a QueryPipeline.
type QueryOptions struct {
	// TopK is the number of chunks retrieved per question.
	TopK int

	// ContextBudget caps the assembled context in characters.
	// Zero or less disables the cap.
	ContextBudget int

	// Temperature is passed to the language model.
	Temperature float64
}

// QueryPipeline answers questions with retrieved context.
// It holds no per-call state and is safe for concurrent use.
type QueryPipeline struct {
	retriever driving.RetrievalService
	llm       driven.LanguageModel
	prompts   driven.PromptStore
	opts      QueryOptions
	log       *logger.Logger

	mu        sync.Mutex
	tmplText  string
	tmplCache *template.Template
}

// NewQueryPipeline creates a query pipeline. prompts may be nil, in which
// case the built-in answer template is used.
func NewQueryPipeline(
	retriever driving.RetrievalService,
	llm driven.LanguageModel,
	prompts driven.PromptStore,
	opts QueryOptions,
	log *logger.Logger,
) *QueryPipeline {
	return &QueryPipeline{
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
		opts:      opts,
		log:       log,
	}
}

// Answer retrieves context for question and asks the language model.
func (p *QueryPipeline) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	answer, _, err := p.AnswerWithResults(ctx, question)
	return answer, err
}

// AnswerWithResults is Answer that also returns every retrieved chunk.
// Language model errors are returned as they are.
func (p *QueryPipeline) AnswerWithResults(
	ctx context.Context, question string,
) (*domain.Answer, []domain.ScoredChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	results, err := p.retriever.Retrieve(ctx, question, p.opts.TopK)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve context: %w", err)
	}

	contextText, sources := AssembleContext(results, p.opts.ContextBudget)
	p.log.Debug("Context: %d of %d chunks, %d characters",
		len(sources), len(results), len([]rune(contextText)))

	prompt, err := p.render(contextText, question)
	if err != nil {
		return nil, nil, err
	}

	text, err := p.llm.Complete(ctx, prompt, driven.CompleteOptions{Temperature: p.opts.Temperature})
	if err != nil {
		return nil, nil, err
	}

	return &domain.Answer{Text: strings.TrimSpace(text), Sources: sources}, results, nil
}

// AssembleContext concatenates chunk texts in the given order, separated
// by ContextSeparator, stopping before the total would exceed budget
// characters. A first chunk longer than the budget is truncated to it.
// It returns the context and the chunks that contributed to it.
func AssembleContext(results []domain.ScoredChunk, budget int) (string, []domain.Chunk) {
	var b strings.Builder
	sources := make([]domain.Chunk, 0, len(results))
	used := 0
	sepLen := len([]rune(ContextSeparator))

	for i, res := range results {
		text := []rune(res.Chunk.Text)
		if i == 0 {
			if budget > 0 && len(text) > budget {
				text = text[:budget]
			}
			b.WriteString(string(text))
			used = len(text)
			sources = append(sources, res.Chunk)
			continue
		}
		if budget > 0 && used+sepLen+len(text) > budget {
			break
		}
		b.WriteString(ContextSeparator)
		b.WriteString(string(text))
		used += sepLen + len(text)
		sources = append(sources, res.Chunk)
	}
	return b.String(), sources
}

type promptData struct {
	Context  string
	Question string
}

// RenderPrompt executes an answer template.
func RenderPrompt(tmpl, contextText, question string) (string, error) {
	t, err := template.New(driven.PromptAnswer).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: parse prompt template: %w", domain.ErrConfiguration, err)
	}
	return execute(t, contextText, question)
}

func execute(t *template.Template, contextText, question string) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, promptData{Context: contextText, Question: question}); err != nil {
		return "", fmt.Errorf("%w: render prompt: %w", domain.ErrConfiguration, err)
	}
	return b.String(), nil
}

func (p *QueryPipeline) render(contextText, question string) (string, error) {
	text := driven.DefaultAnswerPrompt
	if p.prompts != nil {
		loaded, err := p.prompts.Load(driven.PromptAnswer)
		if err != nil {
			p.log.Warn("Using built-in answer prompt: %v", err)
		} else {
			text = loaded
		}
	}

	p.mu.Lock()
	if p.tmplCache == nil || p.tmplText != text {
		t, err := template.New(driven.PromptAnswer).Parse(text)
		if err != nil {
			p.mu.Unlock()
			return "", fmt.Errorf("%w: parse prompt template: %w", domain.ErrConfiguration, err)
		}
		p.tmplCache = t
		p.tmplText = text
	}
	t := p.tmplCache
	p.mu.Unlock()

	return execute(t, contextText, question)
}
