package cli

import (
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/services"
	"github.com/hifiworks/sanity-migrate/internal/readers/csv"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Migrate retail store locations",
	Long: `Migrates store records from the stores CSV export, including
contact details, opening hours and geocoordinates.`,
	RunE: runStores,
}

func init() {
	rootCmd.AddCommand(storesCmd)
}

func runStores(cmd *cobra.Command, _ []string) error {
	return runEntity(cmd, domain.EntityStore, func(_ *runtime) (services.Transformer, []domain.Row, error) {
		rows, err := csv.Parse(sourcePath(storesFile))
		if err != nil {
			return nil, nil, err
		}
		return services.NewStoreTransformer(), rows, nil
	})
}
