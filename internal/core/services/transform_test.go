package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hifiworks/sanity-migrate/internal/convert"
	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

func testContext() *TransformContext {
	return &TransformContext{
		Existing:  make(map[string]bool),
		Converter: convert.New(convert.Config{LegacyBaseURL: "https://legacy.example.com"}),
		Report:    domain.NewMigrationReport(domain.EntityProduct, true),
	}
}

func TestBrandTransform(t *testing.T) {
	tc := testContext()
	row := domain.Row{
		"BrandID":     "12",
		"BrandName":   "Naim Audio",
		"Website":     "https://naimaudio.com",
		"Description": "<p>British amplification since 1973.</p>",
	}

	doc, err := NewBrandTransformer().Transform(context.Background(), row, tc)
	require.NoError(t, err)

	assert.Equal(t, "brand-12", doc.ID)
	assert.Equal(t, domain.EntityBrand, doc.Type)
	assert.Equal(t, "Naim Audio", doc.Fields["title"])
	assert.Equal(t, map[string]any{"_type": "slug", "current": "naim-audio"}, doc.Fields["slug"])
	assert.Equal(t, "https://naimaudio.com", doc.Fields["website"])

	blocks, ok := doc.Fields["description"].([]domain.ContentBlock)
	require.True(t, ok)
	require.Len(t, blocks, 1)
}

func TestBrandTransformSkipsIncompleteRows(t *testing.T) {
	tc := testContext()
	tr := NewBrandTransformer()

	_, err := tr.Transform(context.Background(), domain.Row{"BrandName": "Orphan"}, tc)
	require.ErrorIs(t, err, domain.ErrRowSkipped)

	_, err = tr.Transform(context.Background(), domain.Row{"BrandID": "5"}, tc)
	require.ErrorIs(t, err, domain.ErrRowSkipped)
}

func TestAwardTransformResolvesProductReferences(t *testing.T) {
	products := domain.NewReferenceIndex()
	products.Add("3", "100")
	products.Add("3", "200")
	products.Add("3", "999")

	tc := testContext()
	tc.Existing["product-100"] = true
	tc.Existing["product-200"] = true

	row := domain.Row{"AwardID": "3", "AwardName": "Best Amplifier", "Year": "2019"}
	doc, err := NewAwardTransformer(products).Transform(context.Background(), row, tc)
	require.NoError(t, err)

	assert.Equal(t, "award-3", doc.ID)
	assert.Equal(t, "2019", doc.Fields["year"])

	refs, ok := doc.Fields["products"].([]domain.Reference)
	require.True(t, ok)
	require.Len(t, refs, 2, "dangling reference must be dropped, not nulled")
	assert.Equal(t, "product-100", refs[0].TargetID)
	assert.Equal(t, "product-200", refs[1].TargetID)
	assert.Equal(t, 1, tc.Report.MissingReferences)
}

func TestAwardTransformWithoutRelations(t *testing.T) {
	tc := testContext()
	row := domain.Row{"AwardID": "7", "AwardName": "Editor's Choice"}

	doc, err := NewAwardTransformer(domain.NewReferenceIndex()).Transform(context.Background(), row, tc)
	require.NoError(t, err)

	refs, ok := doc.Fields["products"].([]domain.Reference)
	require.True(t, ok)
	assert.Empty(t, refs, "awards with no relations carry an empty array")
}

func TestStoreTransformGeopoint(t *testing.T) {
	tc := testContext()
	row := domain.Row{
		"StoreID":   "2",
		"StoreName": "HiFi Works Leeds",
		"Address":   "4 Mill Street",
		"City":      "Leeds",
		"Lat":       "53.7997",
		"Lng":       "-1.5492",
	}

	doc, err := NewStoreTransformer().Transform(context.Background(), row, tc)
	require.NoError(t, err)

	loc, ok := doc.Fields["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 53.7997, loc["lat"])
	assert.Equal(t, -1.5492, loc["lng"])
	assert.Equal(t, "4 Mill Street", doc.Fields["address"])
	assert.NotContains(t, doc.Fields, "phone")
}

func TestStoreTransformDropsHalfSetCoordinates(t *testing.T) {
	tc := testContext()
	row := domain.Row{"StoreID": "9", "StoreName": "Pop-up", "Lat": "51.5", "Lng": ""}

	doc, err := NewStoreTransformer().Transform(context.Background(), row, tc)
	require.NoError(t, err)
	assert.NotContains(t, doc.Fields, "location")
}

func TestProductTransform(t *testing.T) {
	tc := testContext()
	tc.Existing["brand-12"] = true

	row := domain.Row{
		"ID":         "100",
		"Title":      "Supernait 3",
		"SKU":        "SN3",
		"BrandID":    "12",
		"Price":      "3499.00",
		"Content":    "<p>An integrated amplifier.</p>",
		"URLSegment": "supernait-3",
	}

	doc, err := NewProductTransformer(nil, nil).Transform(context.Background(), row, tc)
	require.NoError(t, err)

	assert.Equal(t, "product-100", doc.ID)
	assert.Equal(t, "SN3", doc.Fields["sku"])
	assert.Equal(t, 3499.00, doc.Fields["price"])
	assert.Equal(t, map[string]any{"_type": "slug", "current": "supernait-3"}, doc.Fields["slug"])

	ref, ok := doc.Fields["brand"].(domain.Reference)
	require.True(t, ok)
	assert.Equal(t, "brand-12", ref.TargetID)

	blocks, ok := doc.Fields["body"].([]domain.ContentBlock)
	require.True(t, ok)
	require.Len(t, blocks, 1)
}

func TestProductTransformDanglingBrand(t *testing.T) {
	tc := testContext()
	row := domain.Row{"ID": "100", "Title": "Orphaned Amp", "BrandID": "404"}

	doc, err := NewProductTransformer(nil, nil).Transform(context.Background(), row, tc)
	require.NoError(t, err, "a dangling brand never fails the product")
	assert.NotContains(t, doc.Fields, "brand")
	assert.Equal(t, 1, tc.Report.MissingReferences)
}

func TestProductTransformInvalidPrice(t *testing.T) {
	tc := testContext()
	row := domain.Row{"ID": "5", "Title": "Mystery Box", "Price": "POA"}

	doc, err := NewProductTransformer(nil, nil).Transform(context.Background(), row, tc)
	require.NoError(t, err)
	assert.NotContains(t, doc.Fields, "price")
}

func TestProductTransformSlugFallback(t *testing.T) {
	tc := testContext()
	row := domain.Row{"ID": "5", "Title": "Uniti Atom HE"}

	doc, err := NewProductTransformer(nil, nil).Transform(context.Background(), row, tc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"_type": "slug", "current": "uniti-atom-he"}, doc.Fields["slug"])
}

func TestArticleTransform(t *testing.T) {
	tc := testContext()
	row := domain.Row{
		"ID":          "42",
		"Title":       "Turntable Setup Guide",
		"URLSegment":  "turntable-setup-guide",
		"PublishDate": "2019-03-14 10:30:00",
		"Author":      "J. Smith",
		"Content":     "<p>Level the plinth first.</p>",
	}

	doc, err := NewArticleTransformer().Transform(context.Background(), row, tc)
	require.NoError(t, err)

	assert.Equal(t, "article-42", doc.ID)
	assert.Equal(t, "Turntable Setup Guide", doc.Fields["title"])
	assert.Equal(t, "2019-03-14T10:30:00Z", doc.Fields["publishedAt"])
	assert.Equal(t, "J. Smith", doc.Fields["author"])
}

func TestArticleTransformTitleFromPromotedHeading(t *testing.T) {
	tc := testContext()
	row := domain.Row{
		"ID":      "43",
		"Content": "<h1>Why Tubes Still Matter</h1><p>Warmth is not a myth.</p>",
	}

	doc, err := NewArticleTransformer().Transform(context.Background(), row, tc)
	require.NoError(t, err)
	assert.Equal(t, "Why Tubes Still Matter", doc.Fields["title"])
	assert.Equal(t, map[string]any{"_type": "slug", "current": "why-tubes-still-matter"}, doc.Fields["slug"])
}

func TestArticleTransformUnparseableDate(t *testing.T) {
	tc := testContext()
	row := domain.Row{"ID": "44", "Title": "Undated", "PublishDate": "sometime in 2015"}

	doc, err := NewArticleTransformer().Transform(context.Background(), row, tc)
	require.NoError(t, err)
	assert.NotContains(t, doc.Fields, "publishedAt")
}

func TestResolveRefAssumeRefs(t *testing.T) {
	tc := testContext()
	tc.AssumeRefs = true

	id, ok := tc.ResolveRef(domain.EntityBrand, "77")
	require.True(t, ok)
	assert.Equal(t, "brand-77", id)
	assert.Zero(t, tc.Report.MissingReferences)
}

func TestDocumentSerialisation(t *testing.T) {
	tc := testContext()
	tc.Existing["brand-12"] = true
	row := domain.Row{"ID": "100", "Title": "Supernait 3", "BrandID": "12"}

	doc, err := NewProductTransformer(nil, nil).Transform(context.Background(), row, tc)
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "product-100", got["_id"])
	assert.Equal(t, "product", got["_type"])
	assert.Equal(t, map[string]any{"_type": "reference", "_ref": "brand-12"}, got["brand"])
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Naim Audio":          "naim-audio",
		"B&W 800 Series":      "b-w-800-series",
		"  Café  Allegro  ":   "cafe-allegro",
		"Pro-Ject Debut PRO!": "pro-ject-debut-pro",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestRowSkippedIsPerRecord(t *testing.T) {
	// Skip errors must stay matchable after wrapping.
	_, err := NewBrandTransformer().Transform(context.Background(), domain.Row{}, testContext())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRowSkipped))
}
