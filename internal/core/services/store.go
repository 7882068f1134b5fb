package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Ensure StoreTransformer implements the interface.
var _ Transformer = (*StoreTransformer)(nil)

// StoreTransformer migrates retail store locations from the store CSV.
type StoreTransformer struct{}

// NewStoreTransformer creates a store transformer.
func NewStoreTransformer() *StoreTransformer {
	return &StoreTransformer{}
}

// Entity implements Transformer.
func (t *StoreTransformer) Entity() domain.EntityType { return domain.EntityStore }

// LegacyID implements Transformer.
func (t *StoreTransformer) LegacyID(row domain.Row) string { return row.Get("StoreID") }

// Transform implements Transformer.
func (t *StoreTransformer) Transform(_ context.Context, row domain.Row, _ *TransformContext) (*domain.TargetDocument, error) {
	store := domain.StoreRowFrom(row)
	if store.LegacyID == "" {
		return nil, fmt.Errorf("%w: missing StoreID", domain.ErrRowSkipped)
	}
	if store.Name == "" {
		return nil, fmt.Errorf("%w: store %s has no name", domain.ErrRowSkipped, store.LegacyID)
	}

	fields := map[string]any{
		"title":    store.Name,
		"slug":     slugField(Slugify(store.Name)),
		"legacyId": store.LegacyID,
	}
	setIfPresent(fields, "address", store.Address)
	setIfPresent(fields, "city", store.City)
	setIfPresent(fields, "postcode", store.Postcode)
	setIfPresent(fields, "phone", store.Phone)
	setIfPresent(fields, "email", store.Email)
	setIfPresent(fields, "website", store.Website)
	setIfPresent(fields, "openingHours", store.OpeningHours)

	// Geocoordinates only when both axes parse; a half-set point is
	// worse than none.
	lat, latErr := strconv.ParseFloat(store.Latitude, 64)
	lng, lngErr := strconv.ParseFloat(store.Longitude, 64)
	if latErr == nil && lngErr == nil {
		fields["location"] = map[string]any{"_type": "geopoint", "lat": lat, "lng": lng}
	}

	return &domain.TargetDocument{
		ID:       domain.DocumentID(domain.EntityStore, store.LegacyID),
		Type:     domain.EntityStore,
		LegacyID: store.LegacyID,
		Fields:   fields,
	}, nil
}

// setIfPresent assigns non-empty values only.
func setIfPresent(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
