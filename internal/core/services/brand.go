package services

import (
	"context"
	"fmt"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Ensure BrandTransformer implements the interface.
var _ Transformer = (*BrandTransformer)(nil)

// BrandTransformer migrates manufacturer brands from the brand CSV.
type BrandTransformer struct{}

// NewBrandTransformer creates a brand transformer.
func NewBrandTransformer() *BrandTransformer {
	return &BrandTransformer{}
}

// Entity implements Transformer.
func (t *BrandTransformer) Entity() domain.EntityType { return domain.EntityBrand }

// LegacyID implements Transformer.
func (t *BrandTransformer) LegacyID(row domain.Row) string { return row.Get("BrandID") }

// Transform implements Transformer.
func (t *BrandTransformer) Transform(ctx context.Context, row domain.Row, tc *TransformContext) (*domain.TargetDocument, error) {
	brand := domain.BrandRowFrom(row)
	if brand.LegacyID == "" {
		return nil, fmt.Errorf("%w: missing BrandID", domain.ErrRowSkipped)
	}
	if brand.Name == "" {
		return nil, fmt.Errorf("%w: brand %s has no name", domain.ErrRowSkipped, brand.LegacyID)
	}

	fields := map[string]any{
		"title":    brand.Name,
		"slug":     slugField(Slugify(brand.Name)),
		"legacyId": brand.LegacyID,
	}
	if brand.Website != "" {
		fields["website"] = brand.Website
	}
	if brand.Description != "" {
		res := tc.Converter.Convert(brand.Description)
		if len(res.Blocks) > 0 {
			fields["description"] = res.Blocks
		}
	}
	if brand.LogoFilename != "" && tc.Assets != nil {
		if assetID := tc.Assets.FetchAndUpload(ctx, brand.LogoFilename); assetID != "" {
			fields["logo"] = domain.AssetRef{ID: assetID}
		}
	}

	return &domain.TargetDocument{
		ID:       domain.DocumentID(domain.EntityBrand, brand.LegacyID),
		Type:     domain.EntityBrand,
		LegacyID: brand.LegacyID,
		Fields:   fields,
	}, nil
}

// slugField wraps a slug value in the target store's slug shape.
func slugField(slug string) map[string]any {
	return map[string]any{"_type": "slug", "current": slug}
}
