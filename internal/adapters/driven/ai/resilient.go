package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragqa/internal/adapters/driven/ai/upstream"
	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
	"github.com/custodia-labs/ragqa/internal/logger"
)

// Backoff bounds. The delay before retry n (0-based) is baseDelay<<n,
// capped at maxDelay.
const (
	baseDelay = 200 * time.Millisecond
	maxDelay  = 5 * time.Second
)

// Ensure the wrappers implement their ports.
var (
	_ driven.EmbeddingService = (*ResilientEmbedder)(nil)
	_ driven.LanguageModel    = (*ResilientLanguageModel)(nil)
)

// policy runs a call under a per-attempt timeout, with throttling and
// bounded retries of retryable failures.
type policy struct {
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	log        *logger.Logger
	wait       func(ctx context.Context, d time.Duration) error
}

func newPolicy(settings domain.ResilienceSettings, log *logger.Logger) *policy {
	p := &policy{
		timeout:    settings.Timeout,
		maxRetries: max(settings.MaxRetries, 0),
		log:        log,
		wait:       sleep,
	}
	if settings.RequestsPerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), max(settings.Burst, 1))
	}
	return p
}

func retryDelay(attempt int) time.Duration {
	if attempt > 5 {
		return maxDelay
	}
	return min(baseDelay<<attempt, maxDelay)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *policy) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if p.limiter != nil {
			if werr := p.limiter.Wait(ctx); werr != nil {
				return fmt.Errorf("%s: rate limit wait: %w", op, werr)
			}
		}

		err = p.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if !upstream.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		if attempt >= p.maxRetries {
			break
		}

		delay := retryDelay(attempt)
		p.log.Debug("%s failed (attempt %d/%d), retrying in %s: %v", op, attempt+1, p.maxRetries+1, delay, err)
		if werr := p.wait(ctx, delay); werr != nil {
			return err
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, p.maxRetries+1, err)
}

func (p *policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		// Adapters that surface the raw context error still count as timeouts.
		return fmt.Errorf("%w: %w: %w", domain.ErrUpstream, domain.ErrTimeout, err)
	}
	return err
}

// ResilientEmbedder decorates an EmbeddingService with timeouts, retries
// and rate limiting.
type ResilientEmbedder struct {
	inner  driven.EmbeddingService
	policy *policy
}

// NewResilientEmbedder wraps inner using the resilience settings.
func NewResilientEmbedder(inner driven.EmbeddingService, settings domain.ResilienceSettings,
	log *logger.Logger) *ResilientEmbedder {
	return &ResilientEmbedder{inner: inner, policy: newPolicy(settings, log)}
}

// Embed generates a vector embedding for the given text.
func (r *ResilientEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := r.policy.do(ctx, "embed", func(ctx context.Context) error {
		var err error
		vec, err = r.inner.Embed(ctx, text)
		return err
	})
	return vec, err
}

// EmbedBatch generates embeddings for multiple texts as one retried unit.
func (r *ResilientEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := r.policy.do(ctx, "embed batch", func(ctx context.Context) error {
		var err error
		vecs, err = r.inner.EmbedBatch(ctx, texts)
		return err
	})
	return vecs, err
}

// Dimensions returns the wrapped service's vector size.
func (r *ResilientEmbedder) Dimensions() int { return r.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (r *ResilientEmbedder) ModelName() string { return r.inner.ModelName() }

// Ping is not retried.
func (r *ResilientEmbedder) Ping(ctx context.Context) error { return r.inner.Ping(ctx) }

// Close closes the wrapped service.
func (r *ResilientEmbedder) Close() error { return r.inner.Close() }

// ResilientLanguageModel decorates a LanguageModel with timeouts, retries
// and rate limiting.
type ResilientLanguageModel struct {
	inner  driven.LanguageModel
	policy *policy
}

// NewResilientLanguageModel wraps inner using the resilience settings.
func NewResilientLanguageModel(inner driven.LanguageModel, settings domain.ResilienceSettings,
	log *logger.Logger) *ResilientLanguageModel {
	return &ResilientLanguageModel{inner: inner, policy: newPolicy(settings, log)}
}

// Complete produces a text completion for the prompt.
func (r *ResilientLanguageModel) Complete(ctx context.Context, prompt string,
	opts driven.CompleteOptions) (string, error) {
	var out string
	err := r.policy.do(ctx, "complete", func(ctx context.Context) error {
		var err error
		out, err = r.inner.Complete(ctx, prompt, opts)
		return err
	})
	return out, err
}

// ModelName returns the wrapped model's name.
func (r *ResilientLanguageModel) ModelName() string { return r.inner.ModelName() }

// Ping is not retried.
func (r *ResilientLanguageModel) Ping(ctx context.Context) error { return r.inner.Ping(ctx) }

// Close closes the wrapped model.
func (r *ResilientLanguageModel) Close() error { return r.inner.Close() }
