package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hifiworks/sanity-migrate/internal/assets"
	"github.com/hifiworks/sanity-migrate/internal/convert"
	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// Transformer builds target documents for one entity family.
type Transformer interface {
	// Entity names the family this transformer handles.
	Entity() domain.EntityType

	// LegacyID extracts the legacy primary key from a source row.
	LegacyID(row domain.Row) string

	// Transform composes a complete target document from one row.
	// A per-record error fails only that record, never the run.
	Transform(ctx context.Context, row domain.Row, tc *TransformContext) (*domain.TargetDocument, error)
}

// TransformContext carries the shared, read-only state of one run.
type TransformContext struct {
	// Existing holds the IDs of documents already present in the
	// target store, used to resolve cross-entity references.
	Existing map[string]bool

	// Converter turns legacy HTML into content blocks.
	Converter *convert.Converter

	// Assets resolves source asset URLs to uploaded asset IDs.
	Assets *assets.Pipeline

	// Report collects reference-resolution warnings.
	Report *domain.MigrationReport

	// AssumeRefs short-circuits reference-existence checks with
	// deterministic identifiers, for dry-run previews.
	AssumeRefs bool
}

// ResolveRef looks up a cross-entity reference by legacy foreign key.
// A reference to an entity not yet migrated returns ("", false): the
// caller drops it from the array, the document is still created.
func (tc *TransformContext) ResolveRef(entity domain.EntityType, legacyID string) (string, bool) {
	if legacyID == "" {
		return "", false
	}
	id := domain.DocumentID(entity, legacyID)
	if tc.AssumeRefs || tc.Existing[id] {
		return id, true
	}
	logger.Warn("missing reference: %s not yet migrated, dropping", id)
	if tc.Report != nil {
		tc.Report.MissingReferences++
	}
	return "", false
}

// newRefKey returns a locally-unique key for array members.
func newRefKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// ResolveImage adapts the asset pipeline for the converter's resolver
// hook. Returns "" when the pipeline is absent or the upload failed.
func (tc *TransformContext) ResolveImage(ctx context.Context) func(src string) string {
	return func(src string) string {
		if tc.Assets == nil {
			return ""
		}
		return tc.Assets.FetchAndUpload(ctx, src)
	}
}
