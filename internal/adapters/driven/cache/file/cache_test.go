package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
)

func TestCache_PutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := New(path)
	require.NoError(t, err)

	_, ok := c.Get("https://legacy/img.jpg")
	assert.False(t, ok)

	entry := driven.AssetCacheEntry{
		AssetID:       "image-abc123",
		OriginalSize:  2048,
		OptimizedSize: 1024,
		UploadedAt:    "2026-08-29T10:00:00Z",
	}
	require.NoError(t, c.Put("https://legacy/img.jpg", entry))

	got, ok := c.Get("https://legacy/img.jpg")
	require.True(t, ok)
	assert.Equal(t, entry, got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c, err := New(path)
	require.NoError(t, err)
	require.NoError(t, c.Put("url-1", driven.AssetCacheEntry{AssetID: "image-1"}))
	require.NoError(t, c.Put("url-2", driven.AssetCacheEntry{AssetID: "image-2"}))

	reopened, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	got, ok := reopened.Get("url-1")
	require.True(t, ok)
	assert.Equal(t, "image-1", got.AssetID)
}

func TestCache_FileIsValidJSONAfterEachPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := New(path)
	require.NoError(t, err)

	for _, url := range []string{"a", "b", "c"} {
		require.NoError(t, c.Put(url, driven.AssetCacheEntry{AssetID: "image-" + url}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded map[string]driven.AssetCacheEntry
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
}

func TestCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := New(path)
	assert.Error(t, err)
}

func TestCache_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
	c, err := New(path)
	require.NoError(t, err)

	require.NoError(t, c.Put("url", driven.AssetCacheEntry{AssetID: "image-x"}))
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
