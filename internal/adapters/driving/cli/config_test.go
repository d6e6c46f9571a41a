package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

func TestConfigSetAndGet(t *testing.T) {
	setupTestRuntime(t)

	out, err := run(t, "", "config", "set", "retrieval.top_k", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "retrieval.top_k = 5")

	out, err = run(t, "", "config", "get", "retrieval.top_k")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestConfigGet_Default(t *testing.T) {
	setupTestRuntime(t)

	out, err := run(t, "", "config", "get", "chunker.chunk_size")

	require.NoError(t, err)
	assert.Equal(t, "500\n", out)
}

func TestConfigSet_InvalidValue(t *testing.T) {
	setupTestRuntime(t)

	_, err := run(t, "", "config", "set", "retrieval.top_k", "three")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestConfigGet_UnknownKey(t *testing.T) {
	setupTestRuntime(t)

	_, err := run(t, "", "config", "get", "nope")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestConfigList(t *testing.T) {
	setupTestRuntime(t)

	out, err := run(t, "", "config", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "chunker.chunk_overlap")
	assert.Contains(t, out, "embedding.provider")
	assert.Contains(t, out, "not needed for local")
}

func TestConfigCheck_OK(t *testing.T) {
	setupTestRuntime(t)

	out, err := run(t, "", "config", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "settings:  ok")
	assert.Contains(t, out, "embedding: ok (local")
	assert.Contains(t, out, "llm:       ok (ollama")
}

func TestConfigCheck_ProviderFailure(t *testing.T) {
	env := setupTestRuntime(t)
	env.checker.llmErr = fmt.Errorf("%w: connection refused", domain.ErrUpstream)

	out, err := run(t, "", "config", "check")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Contains(t, out, "embedding: ok")
	assert.Contains(t, out, "llm:       ")
	assert.Contains(t, out, "connection refused")
}

func TestConfigCheck_InvalidSettings(t *testing.T) {
	env := setupTestRuntime(t)
	require.NoError(t, env.rt.Settings.Set("retrieval.top_k", "0"))

	_, err := run(t, "", "config", "check")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "AIza...wxyz", maskAPIKey("AIzaSyABCDEFwxyz"))
}
