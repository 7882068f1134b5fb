package domain

import "time"

// Failure records one record that could not be migrated.
type Failure struct {
	// LegacyID identifies the source record.
	LegacyID string

	// Reason is the causing error message.
	Reason string
}

// MigrationReport accumulates per-record outcomes for one run.
// It is created fresh per run and printed at the end, even when the
// run had failures.
type MigrationReport struct {
	Entity    EntityType
	DryRun    bool
	StartedAt time.Time

	Created  []string
	Skipped  []string
	Failures []Failure

	// MissingReferences counts cross-entity references that were
	// dropped because the target was not yet migrated.
	MissingReferences int

	// AssetCacheHits and AssetUploads come from the asset pipeline.
	AssetCacheHits int
	AssetUploads   int
	AssetFailures  int

	// Deleted is the rollback deletion count.
	Deleted int
}

// NewMigrationReport starts a report for one run.
func NewMigrationReport(entity EntityType, dryRun bool) *MigrationReport {
	return &MigrationReport{
		Entity:    entity,
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}
}

// AddCreated records a successfully written (or dry-run previewed) document.
func (r *MigrationReport) AddCreated(legacyID string) {
	r.Created = append(r.Created, legacyID)
}

// AddSkipped records a record skipped because the target already exists.
func (r *MigrationReport) AddSkipped(legacyID string) {
	r.Skipped = append(r.Skipped, legacyID)
}

// AddFailure records a record that could not be migrated.
func (r *MigrationReport) AddFailure(legacyID string, err error) {
	r.Failures = append(r.Failures, Failure{LegacyID: legacyID, Reason: err.Error()})
}

// Total returns the number of records the run attempted.
func (r *MigrationReport) Total() int {
	return len(r.Created) + len(r.Skipped) + len(r.Failures)
}
