package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/adapters/driven/cache/file"
	"github.com/hifiworks/sanity-migrate/internal/adapters/driven/sanity"
	"github.com/hifiworks/sanity-migrate/internal/assets"
	"github.com/hifiworks/sanity-migrate/internal/config"
	"github.com/hifiworks/sanity-migrate/internal/convert"
	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/services"
	"github.com/hifiworks/sanity-migrate/internal/logger"
	"github.com/hifiworks/sanity-migrate/internal/readers/csv"
	"github.com/hifiworks/sanity-migrate/internal/readers/sqldump"
)

// Source file names inside --source-dir. The CSV exports come from
// the legacy admin's report exporter; the dump is a plain mysqldump.
const (
	brandsFile        = "brands.csv"
	awardsFile        = "awards.csv"
	awardProductsFile = "award_products.csv"
	storesFile        = "stores.csv"
	productPDFsFile   = "product_pdfs.csv"
	pagesFile         = "pages.csv"
	dumpFile          = "dump.sql"

	productTable = "Product"
	galleryTable = "ProductImage"
	articleTable = "BlogPost"
)

// runtime holds everything one migration run needs, built once per
// command invocation.
type runtime struct {
	cfg *config.Config
	orc *services.Orchestrator
	tc  *services.TransformContext
}

func sourcePath(name string) string {
	return filepath.Join(flagSourceDir, name)
}

func options() services.Options {
	return services.Options{
		DryRun:       flagDryRun,
		Limit:        flagLimit,
		ID:           flagID,
		SkipExisting: flagSkipExisting,
		BatchSize:    flagBatchSize,
	}
}

// newRuntime builds the adapter stack: config, target-store client,
// asset cache, fetcher, pipeline, converter. Live runs require a
// token; dry runs work without one and without network access.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load(flagSettings)
	if err != nil {
		return nil, err
	}
	if !flagDryRun {
		if err := cfg.RequireToken(); err != nil {
			return nil, err
		}
	}

	store, err := sanity.NewClient(sanity.Config{
		ProjectID: cfg.ProjectID,
		Dataset:   cfg.Dataset,
		Token:     cfg.Token,
	})
	if err != nil {
		return nil, err
	}

	cache, err := file.New(cfg.Site.CacheFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("asset cache holds %d entries", cache.Len())

	pipeline := assets.New(assets.NewHTTPFetcher(), store, cache, assets.Options{
		LegacyBaseURL:   cfg.Site.LegacyBaseURL,
		MaxWidth:        cfg.Site.MaxImageWidth,
		MaxHeight:       cfg.Site.MaxImageHeight,
		JPEGQuality:     cfg.Site.JPEGQuality,
		DownloadsPerSec: cfg.Site.DownloadRatePerSec,
		DryRun:          flagDryRun,
	})

	return &runtime{
		cfg: cfg,
		orc: services.NewOrchestrator(store),
		tc:  &services.TransformContext{Assets: pipeline},
	}, nil
}

// converterFor builds the HTML converter with the slug maps needed to
// resolve legacy link shortcodes. Missing source files just leave the
// maps empty; the shortcodes then resolve to "#" with a warning.
func (rt *runtime) converterFor(ctx context.Context) *convert.Converter {
	return convert.New(convert.Config{
		LegacyBaseURL:         rt.cfg.Site.LegacyBaseURL,
		TargetBaseURL:         rt.cfg.Site.TargetBaseURL,
		PromoteHeadingClasses: rt.cfg.Site.PromoteHeadingClasses,
		ProductSlugs:          loadProductSlugs(),
		PageSlugs:             loadPageSlugs(),
		ResolveImage:          rt.tc.ResolveImage(ctx),
	})
}

// loadProductSlugs maps legacy product IDs to target slugs, mirroring
// the slug derivation the product transformer itself uses.
func loadProductSlugs() map[string]string {
	rows, err := sqldump.Parse(sourcePath(dumpFile), productTable)
	if err != nil {
		logger.Debug("product slug map unavailable: %v", err)
		return nil
	}
	slugs := make(map[string]string, len(rows))
	for _, row := range rows {
		p := domain.ProductRowFrom(row)
		if p.LegacyID == "" {
			continue
		}
		slug := p.URLSegment
		if slug == "" {
			slug = services.Slugify(p.Title)
		}
		slugs[p.LegacyID] = slug
	}
	return slugs
}

// loadPageSlugs maps legacy page IDs to target paths from the
// optional pages export.
func loadPageSlugs() map[string]string {
	rows, err := csv.Parse(sourcePath(pagesFile))
	if err != nil {
		logger.Debug("page slug map unavailable: %v", err)
		return nil
	}
	slugs := make(map[string]string, len(rows))
	for _, row := range rows {
		if id := row.Get("ID"); id != "" {
			slugs[id] = row.Get("URLSegment")
		}
	}
	return slugs
}

// runEntity is the shared command body: build the runtime, handle
// --rollback, load rows, migrate, print the report. build also primes
// any relation indexes the transformer needs.
func runEntity(cmd *cobra.Command, entity domain.EntityType, build func(rt *runtime) (services.Transformer, []domain.Row, error)) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if flagRollback {
		// Rollback needs only the entity name, not source data.
		report, rerr := rt.orc.Rollback(ctx, entity, options())
		if rerr != nil {
			return rerr
		}
		printReport(cmd, report)
		return nil
	}

	logger.Section("Loading source data")
	transformer, rows, err := build(rt)
	if err != nil {
		return err
	}

	rt.tc.Converter = rt.converterFor(ctx)

	logger.Section("Migrating")

	report, err := rt.orc.Run(ctx, transformer, rows, rt.tc, options())
	if err != nil {
		return err
	}
	printReport(cmd, report)
	return nil
}

// buildPDFIndex groups PDF attachment rows by legacy product ID.
// The export is optional; products migrate without downloads when it
// is absent.
func buildPDFIndex() map[string][]domain.ProductPDFRow {
	rows, err := csv.Parse(sourcePath(productPDFsFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("pdf export unreadable: %v", err)
		}
		return nil
	}
	index := make(map[string][]domain.ProductPDFRow)
	for _, row := range rows {
		pdf := domain.ProductPDFRowFrom(row)
		if pdf.ProductID == "" {
			continue
		}
		index[pdf.ProductID] = append(index[pdf.ProductID], pdf)
	}
	return index
}

// buildReferenceIndex folds relation rows into an index keyed by the
// parent column.
func buildReferenceIndex(rows []domain.Row, parentKey, childKey string) *domain.ReferenceIndex {
	ix := domain.NewReferenceIndex()
	for _, row := range rows {
		ix.Add(row.Get(parentKey), row.Get(childKey))
	}
	if ix.Dropped() > 0 {
		logger.Warn("%d malformed relation rows dropped", ix.Dropped())
	}
	logger.Debug("%d parents carry relations", ix.PopulatedCount())
	return ix
}
