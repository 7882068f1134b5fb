package domain

import (
	"encoding/json"
	"fmt"
)

// EntityType identifies one migrated entity family.
type EntityType string

// Migrated entity families. The string value doubles as the document
// type in the target store and as the ID prefix.
const (
	EntityBrand   EntityType = "brand"
	EntityProduct EntityType = "product"
	EntityAward   EntityType = "award"
	EntityStore   EntityType = "store"
	EntityArticle EntityType = "article"
)

// DocumentID derives the deterministic target document ID for a legacy
// record. Deterministic IDs are what make every write an upsert and
// rollback a prefix match.
func DocumentID(entity EntityType, legacyID string) string {
	return fmt.Sprintf("%s-%s", entity, legacyID)
}

// IDPrefix returns the target-store ID prefix for an entity family,
// used for existing-state queries and rollback.
func IDPrefix(entity EntityType) string {
	return string(entity) + "-"
}

// Reference is a resolved cross-entity reference.
type Reference struct {
	Key      string
	TargetID string
}

// MarshalJSON renders the reference in the target store's shape.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"_type"`
		Key  string `json:"_key,omitempty"`
		Ref  string `json:"_ref"`
	}{Type: "reference", Key: r.Key, Ref: r.TargetID})
}

// TargetDocument is a fully composed entity ready for upsert.
// Fields holds the schema payload; ID and Type are injected as _id and
// _type when the document is serialised for the target store.
type TargetDocument struct {
	// ID is the deterministic "<type>-<legacyId>" identifier.
	ID string

	// Type is the target schema type.
	Type EntityType

	// LegacyID is the integer primary key from the source system,
	// kept for reporting.
	LegacyID string

	// Fields is the schema payload. Values must be JSON-serialisable;
	// rich text fields hold []ContentBlock.
	Fields map[string]any
}

// MarshalJSON flattens ID and Type into the field payload as the
// target store's _id and _type.
func (d *TargetDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+2)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["_id"] = d.ID
	out["_type"] = string(d.Type)
	return json.Marshal(out)
}
