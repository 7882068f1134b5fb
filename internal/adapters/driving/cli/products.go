package cli

import (
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/services"
	"github.com/hifiworks/sanity-migrate/internal/readers/sqldump"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Migrate the product catalogue",
	Long: `Migrates product records from the SQL dump, including the main
image, gallery sliders, PDF downloads, rich-text bodies and the brand
reference. Run 'migrate brands' first so brand references resolve.`,
	RunE: runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, _ []string) error {
	return runEntity(cmd, domain.EntityProduct, func(_ *runtime) (services.Transformer, []domain.Row, error) {
		rows, err := sqldump.Parse(sourcePath(dumpFile), productTable)
		if err != nil {
			return nil, nil, err
		}
		galleryRows, err := sqldump.Parse(sourcePath(dumpFile), galleryTable)
		if err != nil {
			return nil, nil, err
		}
		gallery := buildReferenceIndex(galleryRows, "ProductID", "Filename")
		return services.NewProductTransformer(gallery, buildPDFIndex()), rows, nil
	})
}
