package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Ensure ArticleTransformer implements the interface.
var _ Transformer = (*ArticleTransformer)(nil)

// legacyTimeLayout is the datetime format of the source database dump.
const legacyTimeLayout = "2006-01-02 15:04:05"

// ArticleTransformer migrates blog articles from the legacy SQL dump.
type ArticleTransformer struct{}

// NewArticleTransformer creates an article transformer.
func NewArticleTransformer() *ArticleTransformer {
	return &ArticleTransformer{}
}

// Entity implements Transformer.
func (t *ArticleTransformer) Entity() domain.EntityType { return domain.EntityArticle }

// LegacyID implements Transformer.
func (t *ArticleTransformer) LegacyID(row domain.Row) string { return row.Get("ID") }

// Transform implements Transformer.
func (t *ArticleTransformer) Transform(_ context.Context, row domain.Row, tc *TransformContext) (*domain.TargetDocument, error) {
	article := domain.ArticleRowFrom(row)
	if article.LegacyID == "" {
		return nil, fmt.Errorf("%w: missing article ID", domain.ErrRowSkipped)
	}

	body := tc.Converter.Convert(article.ContentHTML)

	// Articles with an empty CMS title fall back to the heading
	// promoted out of the body, so old posts titled only in-content
	// still migrate with a usable title.
	title := article.Title
	if title == "" {
		title = body.PromotedHeading
	}
	if title == "" {
		return nil, fmt.Errorf("%w: article %s has no title", domain.ErrRowSkipped, article.LegacyID)
	}

	slug := article.URLSegment
	if slug == "" {
		slug = Slugify(title)
	}

	fields := map[string]any{
		"title":    title,
		"slug":     slugField(slug),
		"legacyId": article.LegacyID,
	}
	setIfPresent(fields, "author", article.Author)

	if ts, err := time.Parse(legacyTimeLayout, article.PublishDate); err == nil {
		fields["publishedAt"] = ts.UTC().Format(time.RFC3339)
	}

	if body.PromotedHeading != "" && body.PromotedHeading != title {
		fields["excerpt"] = body.PromotedHeading
	}
	if len(body.Blocks) > 0 {
		fields["body"] = body.Blocks
	}

	return &domain.TargetDocument{
		ID:       domain.DocumentID(domain.EntityArticle, article.LegacyID),
		Type:     domain.EntityArticle,
		LegacyID: article.LegacyID,
		Fields:   fields,
	}, nil
}
