// Package assets downloads legacy binary assets, optionally transcodes
// images, uploads them to the target store and caches the results.
//
// The cache file is the resumability contract: an interrupted run can
// restart and every previously uploaded URL is a cache hit with zero
// network calls.
package assets

import (
	"context"
	"crypto/sha1"
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// Options configures a Pipeline.
type Options struct {
	// LegacyBaseURL absolutises bare asset paths from the source data.
	LegacyBaseURL string

	// MaxWidth and MaxHeight bound image resizing. Zero disables
	// transcoding. Images are never upscaled.
	MaxWidth  int
	MaxHeight int

	// JPEGQuality is the re-encode quality (default 82).
	JPEGQuality int

	// DownloadsPerSec throttles legacy-host downloads (default 5).
	DownloadsPerSec float64

	// DryRun substitutes deterministic mock asset IDs and performs
	// no network calls at all.
	DryRun bool
}

// Stats counts pipeline activity for the end-of-run report.
type Stats struct {
	CacheHits int
	Uploads   int
	Failures  int
}

// Pipeline resolves source asset URLs to target-store asset IDs.
type Pipeline struct {
	fetcher driven.Fetcher
	store   driven.TargetStore
	cache   driven.AssetCache
	limiter *rate.Limiter
	opts    Options
	stats   Stats
}

// New creates a pipeline. fetcher and store may be nil in dry-run mode.
func New(fetcher driven.Fetcher, store driven.TargetStore, cache driven.AssetCache, opts Options) *Pipeline {
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 82
	}
	if opts.DownloadsPerSec == 0 {
		opts.DownloadsPerSec = 5
	}
	return &Pipeline{
		fetcher: fetcher,
		store:   store,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(opts.DownloadsPerSec), 1),
		opts:    opts,
	}
}

// Stats returns the activity counters so far.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// FetchAndUpload resolves an image URL to an uploaded asset ID.
// Returns "" when the asset could not be obtained; the caller proceeds
// without it rather than failing the record.
func (p *Pipeline) FetchAndUpload(ctx context.Context, sourceURL string) string {
	return p.process(ctx, sourceURL, driven.AssetImage, true)
}

// UploadFile resolves a binary file URL (PDFs) to an uploaded asset
// ID, without transcoding. Returns "" on failure.
func (p *Pipeline) UploadFile(ctx context.Context, sourceURL string) string {
	return p.process(ctx, sourceURL, driven.AssetFile, false)
}

func (p *Pipeline) process(ctx context.Context, sourceURL string, kind driven.AssetKind, transcode bool) string {
	url := p.absolutise(sourceURL)
	if url == "" {
		return ""
	}

	if entry, ok := p.cache.Get(url); ok {
		p.stats.CacheHits++
		logger.Debug("asset cache hit: %s -> %s", url, entry.AssetID)
		return entry.AssetID
	}

	if p.opts.DryRun {
		return mockAssetID(kind, url)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return ""
	}

	data, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		p.stats.Failures++
		logger.Warn("asset download failed: %s: %v", url, err)
		return ""
	}

	upload := data
	transcoded := false
	if transcode {
		if optimized, err := p.optimizeImage(data); err == nil {
			upload = optimized
			transcoded = true
		} else {
			logger.Debug("transcode skipped for %s: %v", url, err)
		}
	}

	assetID, err := p.store.UploadAsset(ctx, kind, path.Base(url), upload)
	if err != nil && transcoded {
		// Fallback: the store occasionally rejects transcoded bytes;
		// retry once with the original download before giving up.
		logger.Warn("upload of optimized asset failed, retrying original: %s: %v", url, err)
		assetID, err = p.store.UploadAsset(ctx, kind, path.Base(url), data)
	}
	if err != nil {
		p.stats.Failures++
		logger.Warn("asset upload failed: %s: %v", url, err)
		return ""
	}

	p.stats.Uploads++
	entry := driven.AssetCacheEntry{
		AssetID:       assetID,
		OriginalSize:  len(data),
		OptimizedSize: len(upload),
		UploadedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.cache.Put(url, entry); err != nil {
		logger.Warn("asset cache write failed: %v", err)
	}
	return assetID
}

// absolutise normalises a source reference to an absolute URL on the
// legacy host. Already-absolute URLs pass through.
func (p *Pipeline) absolutise(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return strings.TrimSuffix(p.opts.LegacyBaseURL, "/") + "/" + strings.TrimPrefix(src, "/")
}

// mockAssetID derives a deterministic dry-run identifier so previews
// are stable across runs.
func mockAssetID(kind driven.AssetKind, url string) string {
	sum := sha1.Sum([]byte(url))
	return fmt.Sprintf("%s-mock-%x", kind, sum[:8])
}
