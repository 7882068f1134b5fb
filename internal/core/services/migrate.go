package services

import (
	"context"
	"fmt"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// DefaultBatchSize is the number of documents committed per transaction.
const DefaultBatchSize = 10

// Options selects the scope and mode of one migration run.
type Options struct {
	// DryRun previews every document without writing to the target.
	DryRun bool

	// Limit caps the number of source records processed. Zero or
	// negative means no cap. Ignored when ID is set.
	Limit int

	// ID restricts the run to the single record with this legacy ID.
	// Takes precedence over Limit.
	ID string

	// SkipExisting leaves records alone when their target document
	// already exists, instead of upserting over it.
	SkipExisting bool

	// BatchSize overrides the per-transaction document count.
	BatchSize int
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Orchestrator drives one entity migration end to end: select rows,
// transform each, commit in batches, report.
type Orchestrator struct {
	store driven.TargetStore
}

// NewOrchestrator creates an orchestrator over the target store.
func NewOrchestrator(store driven.TargetStore) *Orchestrator {
	return &Orchestrator{store: store}
}

// Run migrates the given rows through the transformer. Per-record and
// per-batch failures are recorded and the run keeps going; the error
// return is reserved for setup problems such as an unreachable target.
func (o *Orchestrator) Run(ctx context.Context, t Transformer, rows []domain.Row, tc *TransformContext, opts Options) (*domain.MigrationReport, error) {
	report := domain.NewMigrationReport(t.Entity(), opts.DryRun)
	if tc.Report == nil {
		tc.Report = report
	}

	if err := o.loadExisting(ctx, tc, opts); err != nil {
		return nil, err
	}

	candidates := selectRows(t, rows, opts)
	logger.Info("migrating %d of %d %s records", len(candidates), len(rows), t.Entity())

	var pending []driven.Mutation
	var pendingIDs []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := o.store.Commit(ctx, pending); err != nil {
			// One rejected transaction fails only its own batch.
			logger.Warn("batch of %d rejected: %v", len(pending), err)
			for _, legacyID := range pendingIDs {
				report.AddFailure(legacyID, fmt.Errorf("%w: %v", domain.ErrBatchRejected, err))
			}
		} else {
			for _, legacyID := range pendingIDs {
				report.AddCreated(legacyID)
			}
		}
		pending = nil
		pendingIDs = nil
	}

	for _, row := range candidates {
		legacyID := t.LegacyID(row)

		if opts.SkipExisting && tc.Existing[domain.DocumentID(t.Entity(), legacyID)] {
			logger.Debug("skipping %s %s: already migrated", t.Entity(), legacyID)
			report.AddSkipped(legacyID)
			continue
		}

		doc, err := t.Transform(ctx, row, tc)
		if err != nil {
			logger.Warn("%s %s failed: %v", t.Entity(), legacyID, err)
			report.AddFailure(legacyID, err)
			continue
		}

		if opts.DryRun {
			logger.Info("[dry run] would upsert %s (%d fields)", doc.ID, len(doc.Fields))
			report.AddCreated(legacyID)
			continue
		}

		pending = append(pending, driven.Mutation{CreateOrReplace: doc})
		pendingIDs = append(pendingIDs, legacyID)
		if len(pending) >= opts.batchSize() {
			flush()
		}
	}
	flush()

	copyAssetStats(tc, report)
	return report, nil
}

// Rollback deletes every document of the entity family from the
// target store, in delete batches of the same size as writes.
func (o *Orchestrator) Rollback(ctx context.Context, entity domain.EntityType, opts Options) (*domain.MigrationReport, error) {
	report := domain.NewMigrationReport(entity, opts.DryRun)

	ids, err := o.store.DocumentIDs(ctx, domain.IDPrefix(entity))
	if err != nil {
		return nil, fmt.Errorf("listing %s documents: %w", entity, err)
	}
	if len(ids) == 0 {
		logger.Info("no %s documents to roll back", entity)
		return report, nil
	}

	if opts.DryRun {
		logger.Info("[dry run] would delete %d %s documents", len(ids), entity)
		report.Deleted = len(ids)
		return report, nil
	}

	size := opts.batchSize()
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batch := make([]driven.Mutation, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, driven.Mutation{DeleteID: id})
		}
		if err := o.store.Commit(ctx, batch); err != nil {
			return report, fmt.Errorf("deleting %s batch: %w", entity, err)
		}
		report.Deleted += len(batch)
		logger.Debug("deleted %d/%d %s documents", report.Deleted, len(ids), entity)
	}
	return report, nil
}

// loadExisting primes the context with the IDs already in the target,
// for reference resolution and --skip-existing. Dry runs resolve
// references with deterministic assumed IDs so the full output shape
// previews even against an empty or unreachable target.
func (o *Orchestrator) loadExisting(ctx context.Context, tc *TransformContext, opts Options) error {
	if opts.DryRun {
		tc.AssumeRefs = true
	}
	if tc.Existing != nil {
		return nil
	}
	tc.Existing = make(map[string]bool)

	ids, err := o.store.DocumentIDs(ctx, "")
	if err != nil {
		if opts.DryRun {
			logger.Warn("target unreachable, previewing without existing-state data: %v", err)
			return nil
		}
		return fmt.Errorf("listing existing documents: %w", err)
	}
	for _, id := range ids {
		tc.Existing[id] = true
	}
	logger.Debug("target holds %d documents", len(ids))
	return nil
}

// selectRows applies the --id / --limit scope to the source rows.
// A single-record run always wins over a limit.
func selectRows(t Transformer, rows []domain.Row, opts Options) []domain.Row {
	if opts.ID != "" {
		for _, row := range rows {
			if t.LegacyID(row) == opts.ID {
				return []domain.Row{row}
			}
		}
		return nil
	}
	if opts.Limit > 0 && opts.Limit < len(rows) {
		return rows[:opts.Limit]
	}
	return rows
}

func copyAssetStats(tc *TransformContext, report *domain.MigrationReport) {
	if tc.Assets == nil {
		return
	}
	stats := tc.Assets.Stats()
	report.AssetCacheHits = stats.CacheHits
	report.AssetUploads = stats.Uploads
	report.AssetFailures = stats.Failures
}
