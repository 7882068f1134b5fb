package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Report styles, shared across commands.
var (
	reportTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	reportLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// printReport renders the end-of-run summary. It is printed for every
// completed run, including runs with per-record failures.
func printReport(cmd *cobra.Command, r *domain.MigrationReport) {
	var b strings.Builder

	title := fmt.Sprintf("%s migration", r.Entity)
	if r.DryRun {
		title += " (dry run)"
	}
	b.WriteString(reportTitle.Render(title) + "\n")

	if r.Deleted > 0 {
		b.WriteString(line("deleted", errStyle, r.Deleted))
	} else {
		b.WriteString(line("created", okStyle, len(r.Created)))
		b.WriteString(line("skipped", warnStyle, len(r.Skipped)))
		b.WriteString(line("failed", errStyle, len(r.Failures)))
		if r.MissingReferences > 0 {
			b.WriteString(line("missing references", warnStyle, r.MissingReferences))
		}
		if r.AssetUploads > 0 || r.AssetCacheHits > 0 || r.AssetFailures > 0 {
			b.WriteString(reportLabel.Render("  assets: ") +
				fmt.Sprintf("%d uploaded, %d cache hits, %d failed\n",
					r.AssetUploads, r.AssetCacheHits, r.AssetFailures))
		}
	}

	for _, f := range r.Failures {
		b.WriteString(errStyle.Render("  ✗ ") + f.LegacyID + reportLabel.Render(": "+f.Reason) + "\n")
	}

	b.WriteString(reportLabel.Render(fmt.Sprintf("  %s elapsed", time.Since(r.StartedAt).Round(time.Millisecond))) + "\n")

	cmd.Print(b.String())
}

func line(label string, style lipgloss.Style, n int) string {
	count := fmt.Sprintf("%d", n)
	if n > 0 {
		count = style.Render(count)
	}
	return reportLabel.Render("  "+label+": ") + count + "\n"
}
