// Package upstream classifies provider failures and carries the shared
// JSON-over-HTTP plumbing used by the REST embedding and LLM adapters.
//
// Every error produced here wraps domain.ErrUpstream. HTTP 401/403 also
// wrap domain.ErrAuthentication, 429 wraps domain.ErrQuotaExceeded and
// deadline expiry wraps domain.ErrTimeout.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 2048

// StatusError is a non-success HTTP response from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap exposes the domain classification of the status code.
func (e *StatusError) Unwrap() []error {
	errs := []error{domain.ErrUpstream}
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		errs = append(errs, domain.ErrAuthentication)
	case e.StatusCode == http.StatusTooManyRequests:
		errs = append(errs, domain.ErrQuotaExceeded)
	case e.StatusCode == http.StatusGatewayTimeout || e.StatusCode == http.StatusRequestTimeout:
		errs = append(errs, domain.ErrTimeout)
	}
	return errs
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode >= 500
}

// FromStatus builds a StatusError, trimming the body.
func FromStatus(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return &StatusError{Provider: provider, StatusCode: status, Body: msg}
}

// FromTransport wraps a failure that produced no response.
func FromTransport(provider string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %w: %w", provider, domain.ErrUpstream, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, domain.ErrUpstream, err)
}

// Malformed wraps a response that could not be understood.
func Malformed(provider string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", provider, domain.ErrUpstream, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether err is worth another attempt: a retryable
// status or a timeout. Cancellation is never retried.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return errors.Is(err, domain.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Client sends JSON requests for one provider.
type Client struct {
	Provider string
	HTTP     *http.Client
	Headers  map[string]string
}

// PostJSON marshals body, posts it to url and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, bytes.NewReader(data), out)
}

// Get issues a GET to url and decodes the response into out, which may be nil.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.do(ctx, http.MethodGet, url, http.NoBody, out)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return FromTransport(c.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return FromStatus(c.Provider, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Malformed(c.Provider, "decode response: %v", err)
	}
	return nil
}
