package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Empty(t, store.Keys())
	assert.Equal(t, ":memory:", store.Path())
}

func TestNewConfigStore_Initial(t *testing.T) {
	store := NewConfigStore(map[string]any{"a": 1}, map[string]any{"b": "x", "a": 2})

	assert.Equal(t, 2, store.GetInt("a"))
	assert.Equal(t, "x", store.GetString("b"))
	assert.Equal(t, []string{"a", "b"}, store.Keys())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":      int64(7),
		"float":    0.25,
		"duration": "1m",
		"bool":     true,
		"string":   "s",
	})

	assert.Equal(t, 7, store.GetInt("int"))
	assert.Equal(t, 0.25, store.GetFloat("float"))
	assert.Equal(t, time.Minute, store.GetDuration("duration"))
	assert.True(t, store.GetBool("bool"))
	assert.Equal(t, "s", store.GetString("string"))
	assert.Equal(t, "", store.GetString("int"))
}

func TestConfigStore_SaveLoadNoop(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("k", n)
			_ = store.GetInt("k")
			_ = store.Keys()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, []string{"k"}, store.Keys())
}
