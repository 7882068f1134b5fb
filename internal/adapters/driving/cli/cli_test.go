package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

func TestRootCmd_RegistersEntityCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"brands", "products", "awards", "stores", "articles", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_FlagDefaults(t *testing.T) {
	pf := rootCmd.PersistentFlags()

	batch, err := pf.GetInt("batch-size")
	require.NoError(t, err)
	assert.Equal(t, 10, batch)

	limit, err := pf.GetInt("limit")
	require.NoError(t, err)
	assert.Zero(t, limit)

	dry, err := pf.GetBool("dry-run")
	require.NoError(t, err)
	assert.False(t, dry)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "migrate version test-version-1.0.0")
}

func TestOptions_MapFlags(t *testing.T) {
	flagDryRun = true
	flagLimit = 7
	flagID = "42"
	flagSkipExisting = true
	flagBatchSize = 3
	defer func() {
		flagDryRun, flagLimit, flagID, flagSkipExisting, flagBatchSize = false, 0, "", false, 10
	}()

	opts := options()
	assert.True(t, opts.DryRun)
	assert.Equal(t, 7, opts.Limit)
	assert.Equal(t, "42", opts.ID)
	assert.True(t, opts.SkipExisting)
	assert.Equal(t, 3, opts.BatchSize)
}

func TestBuildReferenceIndex(t *testing.T) {
	rows := []domain.Row{
		{"AwardID": "1", "ProductID": "100"},
		{"AwardID": "1", "ProductID": "200"},
		{"AwardID": "", "ProductID": "300"},
	}

	ix := buildReferenceIndex(rows, "AwardID", "ProductID")
	assert.Equal(t, []string{"100", "200"}, ix.Children("1"))
	assert.Equal(t, 1, ix.Dropped())
}

func TestPrintReport_CountsAndFailures(t *testing.T) {
	report := domain.NewMigrationReport(domain.EntityBrand, false)
	report.AddCreated("1")
	report.AddCreated("2")
	report.AddSkipped("3")
	report.AddFailure("4", assert.AnError)

	buf := new(bytes.Buffer)
	cmd := rootCmd
	cmd.SetOut(buf)
	printReport(cmd, report)

	out := buf.String()
	assert.Contains(t, out, "brand migration")
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, assert.AnError.Error())
}

func TestPrintReport_Rollback(t *testing.T) {
	report := domain.NewMigrationReport(domain.EntityStore, false)
	report.Deleted = 12

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	printReport(rootCmd, report)

	out := buf.String()
	assert.Contains(t, out, "deleted")
	assert.Contains(t, out, "12")
}
