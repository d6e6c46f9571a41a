package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ragqa", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ask", "chat", "search", "index", "export", "config", "mcp", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	env := setupTestRuntime(t)

	_, err := run(t, "", "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, env.rt.Log.IsVerbose())
}

func TestCommands_WithoutRuntime(t *testing.T) {
	setupTestRuntime(t)
	SetRuntime(nil)

	_, err := run(t, "", "config", "list")

	assert.ErrorIs(t, err, errNoRuntime)
}
