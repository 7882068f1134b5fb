package cli

import (
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/services"
	"github.com/hifiworks/sanity-migrate/internal/readers/csv"
)

var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "Migrate industry awards",
	Long: `Migrates award records from the awards CSV export, resolving the
award-to-product relation table into product references.`,
	RunE: runAwards,
}

func init() {
	rootCmd.AddCommand(awardsCmd)
}

func runAwards(cmd *cobra.Command, _ []string) error {
	return runEntity(cmd, domain.EntityAward, func(_ *runtime) (services.Transformer, []domain.Row, error) {
		rows, err := csv.Parse(sourcePath(awardsFile))
		if err != nil {
			return nil, nil, err
		}
		relations, err := csv.Parse(sourcePath(awardProductsFile))
		if err != nil {
			return nil, nil, err
		}
		products := buildReferenceIndex(relations, "AwardID", "ProductID")
		return services.NewAwardTransformer(products), rows, nil
	})
}
