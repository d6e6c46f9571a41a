package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve [files...]", mcpServeCmd.Use)
}

func TestMCPServeCmd_Flags(t *testing.T) {
	for _, name := range []string{"port", "db", "retrieve-only"} {
		assert.NotNil(t, mcpServeCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "p", mcpServeCmd.Flags().Lookup("port").Shorthand)
}

func TestMCPPorts_WithQuery(t *testing.T) {
	env := setupTestRuntime(t)
	e, err := newEngine(env.rt, engineOptions{answers: true})
	require.NoError(t, err)
	defer e.Close() //nolint:errcheck

	ports := mcpPorts(e)

	require.NoError(t, ports.Validate())
	assert.NotNil(t, ports.Query)
	assert.Equal(t, e.embedder.ModelName(), ports.EmbeddingModel)
}

func TestMCPPorts_RetrieveOnly(t *testing.T) {
	env := setupTestRuntime(t)
	e, err := newEngine(env.rt, engineOptions{})
	require.NoError(t, err)
	defer e.Close() //nolint:errcheck

	ports := mcpPorts(e)

	require.NoError(t, ports.Validate())
	assert.Nil(t, ports.Query)
}

func TestMCPServe_NoFilesNoDatabase(t *testing.T) {
	env := setupTestRuntime(t)

	// The default database exists but holds no index.
	_, err := run(t, "", "mcp", "serve", "--db", env.dbPath)

	assert.Error(t, err)
}
