package indexer

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedAliases map[string]string

// Helper function to set up a temporary cache for testing
func setupTestCache(t *testing.T) *FileCache[cachedAliases] {
	t.Helper()
	cache, err := NewFileCache[cachedAliases](filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err, "Failed to create file cache")

	t.Cleanup(func() {
		if err := cache.Close(); err != nil {
			t.Logf("Warning: error closing test cache: %v", err)
		}
	})

	return cache
}

func TestFileCache_GetMissing(t *testing.T) {
	cache := setupTestCache(t)

	value, ok, err := cache.Get("/project/webpack.config.js", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestFileCache_PutGet(t *testing.T) {
	cache := setupTestCache(t)

	content := []byte("module.exports = {}")
	hash := HashContent(content)
	require.NoError(t, cache.Put("/project/webpack.config.js", hash, cachedAliases{"@": "/project/src"}))

	value, ok, err := cache.Get("/project/webpack.config.js", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cachedAliases{"@": "/project/src"}, value)
}

func TestFileCache_HashMismatchIsMiss(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Put("/project/webpack.config.js", HashContent([]byte("a")), cachedAliases{"@": "/src"}))

	_, ok, err := cache.Get("/project/webpack.config.js", HashContent([]byte("b")))
	require.NoError(t, err)
	assert.False(t, ok, "Changed content must not hit the cache")
}

func TestFileCache_PutReplaces(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Put("a.js", 1, cachedAliases{"@": "/old"}))
	require.NoError(t, cache.Put("a.js", 2, cachedAliases{"@": "/new"}))

	_, ok, err := cache.Get("a.js", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err := cache.Get("a.js", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/new", value["@"])
}

func TestFileCache_RemoveAndClear(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Put("a.js", 1, cachedAliases{"a": "/a"}))
	require.NoError(t, cache.Put("b.js", 1, cachedAliases{"b": "/b"}))
	require.NoError(t, cache.Put("c.js", 1, cachedAliases{"c": "/c"}))

	require.NoError(t, cache.Remove([]string{"a.js"}))
	_, ok, err := cache.Get("a.js", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cache.Get("b.js", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cache.Clear())
	for _, file := range []string{"b.js", "c.js"} {
		_, ok, err := cache.Get(file, 1)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be gone after Clear", file)
	}
}

func TestFileCache_Concurrent(t *testing.T) {
	cache := setupTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := filepath.Join("/project", string(rune('a'+i))+".js")
			assert.NoError(t, cache.Put(path, uint64(i), cachedAliases{"@": path}))
			value, ok, err := cache.Get(path, uint64(i))
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, path, value["@"])
		}(i)
	}
	wg.Wait()
}

func TestHashContent(t *testing.T) {
	assert.Equal(t, HashContent([]byte("same")), HashContent([]byte("same")))
	assert.NotEqual(t, HashContent([]byte("one")), HashContent([]byte("two")))
}
