package cli

import (
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/services"
	"github.com/hifiworks/sanity-migrate/internal/readers/sqldump"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Migrate blog articles",
	Long: `Migrates blog posts from the SQL dump, converting legacy HTML
bodies into content blocks and promoting lead headings.`,
	RunE: runArticles,
}

func init() {
	rootCmd.AddCommand(articlesCmd)
}

func runArticles(cmd *cobra.Command, _ []string) error {
	return runEntity(cmd, domain.EntityArticle, func(_ *runtime) (services.Transformer, []domain.Row, error) {
		rows, err := sqldump.Parse(sourcePath(dumpFile), articleTable)
		if err != nil {
			return nil, nil, err
		}
		return services.NewArticleTransformer(), rows, nil
	})
}
