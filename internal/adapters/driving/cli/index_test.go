package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

func TestIndexBuildCmd_RequiresFiles(t *testing.T) {
	setupTestRuntime(t)

	_, err := run(t, "", "index", "build")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIndexBuildAndInfo(t *testing.T) {
	env := setupTestRuntime(t)
	france := env.writeFile(t, "france.txt", franceText)
	coffee := env.writeFile(t, "coffee.txt", coffeeText)

	out, err := run(t, "", "index", "build", "--db", env.dbPath, france, coffee)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 chunks from 2 files into "+env.dbPath)
	resetFlags(rootCmd)

	out, err = run(t, "", "index", "info", "--db", env.dbPath)

	require.NoError(t, err)
	assert.Contains(t, out, "Chunks:          2")
	assert.Contains(t, out, "Dimensions:      64")
	assert.Contains(t, out, "Chunk size:      500 (overlap 100)")
}

func TestIndexBuild_DefaultDatabase(t *testing.T) {
	env := setupTestRuntime(t)
	france := env.writeFile(t, "france.txt", franceText)

	out, err := run(t, "", "index", "build", france)

	require.NoError(t, err)
	assert.Contains(t, out, env.dbPath)
	assert.FileExists(t, env.dbPath)
}

func TestIndexInfo_EmptyDatabase(t *testing.T) {
	setupTestRuntime(t)

	_, err := run(t, "", "index", "info")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
