package services

import (
	"context"
	"fmt"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Ensure AwardTransformer implements the interface.
var _ Transformer = (*AwardTransformer)(nil)

// AwardTransformer migrates industry awards and their product
// relations from the award CSV exports.
type AwardTransformer struct {
	// Products groups legacy product IDs under each award ID.
	Products *domain.ReferenceIndex
}

// NewAwardTransformer creates an award transformer over the
// award-to-product relation index.
func NewAwardTransformer(products *domain.ReferenceIndex) *AwardTransformer {
	return &AwardTransformer{Products: products}
}

// Entity implements Transformer.
func (t *AwardTransformer) Entity() domain.EntityType { return domain.EntityAward }

// LegacyID implements Transformer.
func (t *AwardTransformer) LegacyID(row domain.Row) string { return row.Get("AwardID") }

// Transform implements Transformer.
func (t *AwardTransformer) Transform(ctx context.Context, row domain.Row, tc *TransformContext) (*domain.TargetDocument, error) {
	award := domain.AwardRowFrom(row)
	if award.LegacyID == "" {
		return nil, fmt.Errorf("%w: missing AwardID", domain.ErrRowSkipped)
	}
	if award.Name == "" {
		return nil, fmt.Errorf("%w: award %s has no name", domain.ErrRowSkipped, award.LegacyID)
	}

	fields := map[string]any{
		"title":    award.Name,
		"slug":     slugField(Slugify(award.Name)),
		"legacyId": award.LegacyID,
	}
	if award.Year != "" {
		fields["year"] = award.Year
	}
	if award.LogoFilename != "" && tc.Assets != nil {
		if assetID := tc.Assets.FetchAndUpload(ctx, award.LogoFilename); assetID != "" {
			fields["logo"] = domain.AssetRef{ID: assetID}
		}
	}

	// Dangling product references are dropped, not nulled; the award
	// is still created.
	var refs []domain.Reference
	for _, productID := range t.Products.Children(award.LegacyID) {
		if targetID, ok := tc.ResolveRef(domain.EntityProduct, productID); ok {
			refs = append(refs, domain.Reference{Key: newRefKey(), TargetID: targetID})
		}
	}
	fields["products"] = refs
	if refs == nil {
		fields["products"] = []domain.Reference{}
	}

	return &domain.TargetDocument{
		ID:       domain.DocumentID(domain.EntityAward, award.LegacyID),
		Type:     domain.EntityAward,
		LegacyID: award.LegacyID,
		Fields:   fields,
	}, nil
}
