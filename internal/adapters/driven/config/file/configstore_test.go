package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gemini-2.5-flash"))
	require.NoError(t, store.Set("chunker.chunk_size", 500))
	require.NoError(t, store.Set("llm.temperature", 0.2))
	require.NoError(t, store.Set("resilience.timeout", "45s"))
	require.NoError(t, store.Set("feature.enabled", true))

	assert.Equal(t, "gemini-2.5-flash", store.GetString("llm.model"))
	assert.Equal(t, 500, store.GetInt("chunker.chunk_size"))
	assert.InDelta(t, 0.2, store.GetFloat("llm.temperature"), 1e-9)
	assert.Equal(t, 45*time.Second, store.GetDuration("resilience.timeout"))
	assert.True(t, store.GetBool("feature.enabled"))

	// Missing and mistyped keys return zero values.
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, "", store.GetString("chunker.chunk_size"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.False(t, store.GetBool("llm.model"))
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("chunker.chunk_size", 800))
	require.NoError(t, store1.Set("chunker.strategy", "fixed"))
	require.NoError(t, store1.Set("llm.temperature", 0.5))

	store2, err := NewConfigStore(dir)
	require.NoError(t, err)

	// TOML integers come back as int64 and must still convert.
	assert.Equal(t, 800, store2.GetInt("chunker.chunk_size"))
	assert.Equal(t, "fixed", store2.GetString("chunker.strategy"))
	assert.InDelta(t, 0.5, store2.GetFloat("llm.temperature"), 1e-9)
	assert.Equal(t, []string{"chunker.chunk_size", "chunker.strategy", "llm.temperature"}, store2.Keys())
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 5))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[retrieval]")
	assert.Contains(t, string(data), "top_k = 5")
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[chunker]
chunk_size = 300
chunk_overlap = 30

[llm]
provider = "openai"
temperature = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 300, store.GetInt("chunker.chunk_size"))
	assert.Equal(t, 30, store.GetInt("chunker.chunk_overlap"))
	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, 0.0, store.GetFloat("llm.temperature"))
}

func TestConfigStore_KeyConflict(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "x"))
	assert.Error(t, store.Set("llm", "y"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("a.b", "c"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Save())

	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter.value", n)
			_ = store.GetInt("counter.value")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("counter.value")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	tree, err := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"top":   true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"top": true,
	}, tree)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "top": true}, flattenMap(tree, ""))
}
