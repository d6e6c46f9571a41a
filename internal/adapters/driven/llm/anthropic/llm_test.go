package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
	"github.com/custodia-labs/ragqa/internal/core/ports/driven"
)

func TestNewLanguageModel(t *testing.T) {
	_, err := NewLanguageModel(Config{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	m, err := NewLanguageModel(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, m.ModelName())
	assert.NoError(t, m.Close())
}

func TestComplete(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Cats "},{"type":"tool_use"},{"type":"text","text":"purr."}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	m, err := NewLanguageModel(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := m.Complete(context.Background(), "Why do cats purr?", driven.CompleteOptions{StopWords: []string{"END"}})
	require.NoError(t, err)
	assert.Equal(t, "Cats purr.", out)

	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.0, *got.Temperature, 0)
	assert.Equal(t, []string{"END"}, got.StopSeqs)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestComplete_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("x-api-key") {
		case "limited":
			http.Error(w, `{"type":"error","error":{"type":"rate_limit_error"}}`, http.StatusTooManyRequests)
		case "empty":
			_, _ = w.Write([]byte(`{"content":[]}`))
		default:
			http.Error(w, `{"type":"error"}`, http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	for key, sentinel := range map[string]error{
		"limited": domain.ErrQuotaExceeded,
		"empty":   domain.ErrUpstream,
		"bad":     domain.ErrAuthentication,
	} {
		m, err := NewLanguageModel(Config{APIKey: key, BaseURL: srv.URL})
		require.NoError(t, err)
		_, err = m.Complete(context.Background(), "hi", driven.CompleteOptions{})
		assert.ErrorIs(t, err, sentinel, key)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	m, err := NewLanguageModel(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, m.Ping(context.Background()))
}
