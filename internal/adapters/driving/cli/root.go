// Package cli wires the cobra command tree for the migration tool.
// Each entity family gets its own subcommand sharing the same flag
// surface and run plumbing.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy catalogue data into the content store",
	Long: `Migrates exported SilverStripe/MySQL data (brands, products, awards,
stores, articles) into Sanity documents.

Source data is read from CSV exports and a raw SQL dump in the source
directory. Every write is an upsert with a deterministic document ID,
so interrupted runs are always safe to re-run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

var (
	flagDryRun       bool
	flagVerbose      bool
	flagLimit        int
	flagID           string
	flagSkipExisting bool
	flagBatchSize    int
	flagRollback     bool
	flagSourceDir    string
	flagSettings     string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagDryRun, "dry-run", "d", false, "preview documents without writing to the target")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug output")
	pf.IntVar(&flagLimit, "limit", 0, "process at most N source records (0 = all)")
	pf.StringVar(&flagID, "id", "", "process only the record with this legacy ID (overrides --limit)")
	pf.BoolVar(&flagSkipExisting, "skip-existing", false, "leave records alone when the target document already exists")
	pf.IntVar(&flagBatchSize, "batch-size", 10, "documents per commit transaction")
	pf.BoolVar(&flagRollback, "rollback", false, "delete this entity's documents from the target instead of migrating")
	pf.StringVar(&flagSourceDir, "source-dir", "legacy-data", "directory holding the CSV exports and SQL dump")
	pf.StringVar(&flagSettings, "settings", "", "optional TOML settings file with site policy overrides")
}

// Execute runs the command tree. Per-record failures inside a
// completed run exit 0; only setup errors reach the caller.
func Execute() error {
	return rootCmd.Execute()
}
