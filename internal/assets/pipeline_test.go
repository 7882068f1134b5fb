package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
)

type fakeFetcher struct {
	responses map[string][]byte
	calls     int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls++
	data, ok := f.responses[url]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return data, nil
}

type fakeStore struct {
	uploads  int
	failures int // fail the first N uploads
	lastData []byte
}

func (s *fakeStore) DocumentIDs(context.Context, string) ([]string, error) { return nil, nil }
func (s *fakeStore) Commit(context.Context, []driven.Mutation) error      { return nil }

func (s *fakeStore) UploadAsset(_ context.Context, kind driven.AssetKind, _ string, data []byte) (string, error) {
	s.uploads++
	if s.uploads <= s.failures {
		return "", fmt.Errorf("rejected")
	}
	s.lastData = data
	return fmt.Sprintf("%s-upload-%d", kind, s.uploads), nil
}

type memCache struct {
	entries map[string]driven.AssetCacheEntry
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]driven.AssetCacheEntry)}
}

func (c *memCache) Get(url string) (driven.AssetCacheEntry, bool) {
	e, ok := c.entries[url]
	return e, ok
}

func (c *memCache) Put(url string, e driven.AssetCacheEntry) error {
	c.puts++
	c.entries[url] = e
	return nil
}

func (c *memCache) Len() int { return len(c.entries) }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestFetchAndUpload_CacheHitAvoidsNetwork(t *testing.T) {
	url := "https://legacy.example.com/img/a.jpg"
	fetcher := &fakeFetcher{responses: map[string][]byte{url: pngBytes(t, 10, 10)}}
	store := &fakeStore{}
	cache := newMemCache()
	p := New(fetcher, store, cache, Options{DownloadsPerSec: 1000})

	first := p.FetchAndUpload(context.Background(), url)
	require.NotEmpty(t, first)

	second := p.FetchAndUpload(context.Background(), url)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, fetcher.calls, "second call must be a cache hit")
	assert.Equal(t, 1, store.uploads)
	assert.Equal(t, 1, p.Stats().CacheHits)
	assert.Equal(t, 1, p.Stats().Uploads)
}

func TestFetchAndUpload_DownloadFailure(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string][]byte{}}
	store := &fakeStore{}
	p := New(fetcher, store, newMemCache(), Options{DownloadsPerSec: 1000})

	got := p.FetchAndUpload(context.Background(), "https://legacy.example.com/missing.jpg")
	assert.Empty(t, got)
	assert.Zero(t, store.uploads)
	assert.Equal(t, 1, p.Stats().Failures)
}

func TestFetchAndUpload_RetriesOriginalBytesOnUploadFailure(t *testing.T) {
	url := "https://legacy.example.com/big.png"
	original := pngBytes(t, 400, 400)
	fetcher := &fakeFetcher{responses: map[string][]byte{url: original}}
	store := &fakeStore{failures: 1}
	p := New(fetcher, store, newMemCache(), Options{
		DownloadsPerSec: 1000,
		MaxWidth:        100,
		MaxHeight:       100,
	})

	got := p.FetchAndUpload(context.Background(), url)
	require.NotEmpty(t, got)
	assert.Equal(t, 2, store.uploads, "expected one retry with original bytes")
	assert.Equal(t, original, store.lastData)
}

func TestFetchAndUpload_DryRunIsDeterministicAndOffline(t *testing.T) {
	url := "https://legacy.example.com/img/a.jpg"
	fetcher := &fakeFetcher{}
	store := &fakeStore{}
	p := New(fetcher, store, newMemCache(), Options{DryRun: true})

	first := p.FetchAndUpload(context.Background(), url)
	second := p.FetchAndUpload(context.Background(), url)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "image-mock-")
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, store.uploads)
}

func TestFetchAndUpload_AbsolutisesRelativePaths(t *testing.T) {
	full := "https://legacy.example.com/assets/img.png"
	fetcher := &fakeFetcher{responses: map[string][]byte{full: pngBytes(t, 10, 10)}}
	store := &fakeStore{}
	cache := newMemCache()
	p := New(fetcher, store, cache, Options{
		LegacyBaseURL:   "https://legacy.example.com",
		DownloadsPerSec: 1000,
	})

	got := p.FetchAndUpload(context.Background(), "assets/img.png")
	require.NotEmpty(t, got)

	_, ok := cache.Get(full)
	assert.True(t, ok, "cache is keyed by the absolute URL")
}

func TestUploadFile_NoTranscoding(t *testing.T) {
	url := "https://legacy.example.com/docs/manual.pdf"
	pdf := []byte("%PDF-1.4 fake")
	fetcher := &fakeFetcher{responses: map[string][]byte{url: pdf}}
	store := &fakeStore{}
	p := New(fetcher, store, newMemCache(), Options{
		DownloadsPerSec: 1000,
		MaxWidth:        100,
		MaxHeight:       100,
	})

	got := p.UploadFile(context.Background(), url)
	require.NotEmpty(t, got)
	assert.Equal(t, pdf, store.lastData)
}

func TestFetchAndUpload_EmptyURL(t *testing.T) {
	p := New(&fakeFetcher{}, &fakeStore{}, newMemCache(), Options{})
	assert.Empty(t, p.FetchAndUpload(context.Background(), "  "))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"within bounds untouched", 800, 600, 1600, 1600, 800, 600},
		{"wide image scales by width", 3200, 1600, 1600, 1600, 1600, 800},
		{"tall image scales by height", 1600, 3200, 1600, 1600, 800, 1600},
		{"never upscales", 100, 50, 1600, 1600, 100, 50},
		{"zero bounds unbounded", 5000, 5000, 0, 0, 5000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, gotW)
			assert.Equal(t, tt.wantH, gotH)
		})
	}
}
