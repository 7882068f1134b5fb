package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Ensure ProductTransformer implements the interface.
var _ Transformer = (*ProductTransformer)(nil)

// ProductTransformer migrates products from the legacy SQL dump,
// composing rich-text bodies, gallery sliders, PDF attachments and the
// brand reference.
type ProductTransformer struct {
	// Gallery groups legacy gallery image paths under each product ID.
	Gallery *domain.ReferenceIndex

	// PDFs groups PDF attachment rows under each product ID.
	PDFs map[string][]domain.ProductPDFRow
}

// NewProductTransformer creates a product transformer over the
// gallery and PDF relation data.
func NewProductTransformer(gallery *domain.ReferenceIndex, pdfs map[string][]domain.ProductPDFRow) *ProductTransformer {
	if gallery == nil {
		gallery = domain.NewReferenceIndex()
	}
	return &ProductTransformer{Gallery: gallery, PDFs: pdfs}
}

// Entity implements Transformer.
func (t *ProductTransformer) Entity() domain.EntityType { return domain.EntityProduct }

// LegacyID implements Transformer.
func (t *ProductTransformer) LegacyID(row domain.Row) string { return row.Get("ID") }

// Transform implements Transformer.
func (t *ProductTransformer) Transform(ctx context.Context, row domain.Row, tc *TransformContext) (*domain.TargetDocument, error) {
	product := domain.ProductRowFrom(row)
	if product.LegacyID == "" {
		return nil, fmt.Errorf("%w: missing product ID", domain.ErrRowSkipped)
	}
	if product.Title == "" {
		return nil, fmt.Errorf("%w: product %s has no title", domain.ErrRowSkipped, product.LegacyID)
	}

	slug := product.URLSegment
	if slug == "" {
		slug = Slugify(product.Title)
	}

	fields := map[string]any{
		"title":    product.Title,
		"slug":     slugField(slug),
		"legacyId": product.LegacyID,
	}
	setIfPresent(fields, "sku", product.SKU)

	if price, err := strconv.ParseFloat(product.Price, 64); err == nil && price > 0 {
		fields["price"] = price
	}

	// A dangling brand reference is dropped; the product still
	// migrates and picks the reference up on a later run.
	if targetID, ok := tc.ResolveRef(domain.EntityBrand, product.BrandID); ok {
		fields["brand"] = domain.Reference{TargetID: targetID}
	}

	if product.ImagePath != "" && tc.Assets != nil {
		if assetID := tc.Assets.FetchAndUpload(ctx, product.ImagePath); assetID != "" {
			fields["mainImage"] = domain.AssetRef{ID: assetID}
		}
	}

	body := tc.Converter.Convert(product.ContentHTML)
	blocks := body.Blocks
	if body.PromotedHeading != "" {
		fields["summary"] = body.PromotedHeading
	}

	// The gallery rides at the end of the body as a slider, but only
	// when enough images resolved; short galleries are dropped whole.
	if sources := t.Gallery.Children(product.LegacyID); len(sources) > 0 {
		if slider, ok := tc.Converter.ConvertGallery(sources); ok {
			blocks = append(blocks, slider)
		}
	}
	if len(blocks) > 0 {
		fields["body"] = blocks
	}

	if pdfs := t.transformPDFs(ctx, product.LegacyID, tc); len(pdfs) > 0 {
		fields["downloads"] = pdfs
	}

	return &domain.TargetDocument{
		ID:       domain.DocumentID(domain.EntityProduct, product.LegacyID),
		Type:     domain.EntityProduct,
		LegacyID: product.LegacyID,
		Fields:   fields,
	}, nil
}

// transformPDFs uploads each attachment and builds the downloads
// array. Failed uploads drop that one attachment only.
func (t *ProductTransformer) transformPDFs(ctx context.Context, legacyID string, tc *TransformContext) []map[string]any {
	var out []map[string]any
	for _, pdf := range t.PDFs[legacyID] {
		if pdf.FilePath == "" || tc.Assets == nil {
			continue
		}
		assetID := tc.Assets.UploadFile(ctx, pdf.FilePath)
		if assetID == "" {
			continue
		}
		title := pdf.Title
		if title == "" {
			title = "Download"
		}
		out = append(out, map[string]any{
			"_type": "productPdf",
			"_key":  newRefKey(),
			"title": title,
			"file": map[string]any{
				"_type": "file",
				"asset": map[string]any{"_type": "reference", "_ref": assetID},
			},
		})
	}
	return out
}
