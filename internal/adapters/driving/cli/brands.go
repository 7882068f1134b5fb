package cli

import (
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/services"
	"github.com/hifiworks/sanity-migrate/internal/readers/csv"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Migrate manufacturer brands",
	Long: `Migrates brand records from the brands CSV export, including logo
uploads and rich-text descriptions.`,
	RunE: runBrands,
}

func init() {
	rootCmd.AddCommand(brandsCmd)
}

func runBrands(cmd *cobra.Command, _ []string) error {
	return runEntity(cmd, domain.EntityBrand, func(_ *runtime) (services.Transformer, []domain.Row, error) {
		rows, err := csv.Parse(sourcePath(brandsFile))
		if err != nil {
			return nil, nil, err
		}
		return services.NewBrandTransformer(), rows, nil
	})
}
