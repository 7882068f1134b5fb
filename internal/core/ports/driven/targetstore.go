package driven

import (
	"context"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Mutation is one operation inside a target-store transaction.
// Exactly one field is set.
type Mutation struct {
	// CreateOrReplace upserts a document by its deterministic ID.
	CreateOrReplace *domain.TargetDocument

	// DeleteID removes a document by ID.
	DeleteID string
}

// AssetKind selects the target store's upload endpoint.
type AssetKind string

// Asset kinds accepted by the target store.
const (
	AssetImage AssetKind = "image"
	AssetFile  AssetKind = "file"
)

// TargetStore is the document CRUD/query/asset-upload contract the
// pipeline consumes from the target store. Everything else the store
// does (schema validation, drafts, live preview) is its own concern.
type TargetStore interface {
	// DocumentIDs returns the IDs of all documents whose _id starts
	// with the given prefix. Used for --skip-existing, reference
	// resolution and rollback.
	DocumentIDs(ctx context.Context, prefix string) ([]string, error)

	// Commit applies all mutations as one atomic transaction.
	// A rejected transaction fails every mutation in it; prior and
	// subsequent transactions are unaffected.
	Commit(ctx context.Context, mutations []Mutation) error

	// UploadAsset uploads binary content and returns the opaque
	// asset ID assigned by the store.
	UploadAsset(ctx context.Context, kind AssetKind, filename string, data []byte) (string, error)
}

// AssetCacheEntry maps one source URL to its uploaded asset.
type AssetCacheEntry struct {
	AssetID       string `json:"assetId"`
	OriginalSize  int    `json:"originalSize"`
	OptimizedSize int    `json:"optimizedSize"`
	UploadedAt    string `json:"uploadedAt"`
}

// AssetCache persists sourceURL -> asset ID mappings between runs.
// One entry per distinct source URL; a repeated URL is a cache hit,
// never a second upload. Implementations rewrite the whole file on
// every put so the file stays valid JSON across partial runs.
type AssetCache interface {
	// Get returns the cached entry for a normalised source URL.
	Get(sourceURL string) (AssetCacheEntry, bool)

	// Put stores an entry and persists the cache.
	Put(sourceURL string, entry AssetCacheEntry) error

	// Len returns the number of cached entries.
	Len() int
}

// Fetcher downloads binary content from the legacy host.
type Fetcher interface {
	// Fetch returns the response body for a URL, following redirects.
	// A non-2xx status, network error or empty body is an error.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
