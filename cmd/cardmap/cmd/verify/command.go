// Package verify implements the verify command.
package verify

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap"
	"github.com/agentstation/cardmap/cmd/application"
	"github.com/agentstation/cardmap/internal/cmd/output"
	"github.com/agentstation/cardmap/internal/cmd/table"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/save"
)

// Flags holds the verify command flags.
type Flags struct {
	Date    string
	DryRun  bool
	BaseDir string
	Report  string
}

// NewCommand creates the verify command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "verify [tables...]",
		GroupID: "core",
		Short:   "Apply verified override tables to card documents",
		Long: `Verify merges each override table into the document it targets.

For every table the command removes the records its removals match, checks
that the remaining identifiers are unique, assigns every override field,
applies conditional patches and stamps each touched card with the
verification date. Documents are written only after every table succeeded.

With no arguments the tables listed under "overrides" in the config file
are used.`,
		Example: `  cardmap verify overrides/extended.yaml overrides/full.yaml
  cardmap verify --dry-run                  # Preview using configured tables
  cardmap verify --date 2026-02-14 -o json  # Fixed stamp, JSON report
  cardmap verify --report verify.yaml       # Keep a YAML copy of the report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.Date, "date", "",
		"Verification date stamped on touched cards (YYYY-MM-DD, default today in UTC)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Report changes without writing documents")
	cmd.Flags().StringVar(&flags.BaseDir, "base-dir", "",
		"Directory relative document paths are resolved against (default: each table's directory)")

	cmd.Flags().StringVar(&flags.Report, "report", "",
		"Also write the report to FILE (YAML for .yaml/.yml, JSON otherwise)")

	return cmd
}

// Execute runs a verification and renders its report.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, args []string) error {
	tables := args
	if len(tables) == 0 {
		tables = app.Overrides()
	}
	if len(tables) == 0 {
		return errors.NewValidationError("tables", nil, "no override tables given and none configured")
	}

	var opts []cardmap.Option
	if cmd.Flags().Changed("date") {
		opts = append(opts, cardmap.WithDate(flags.Date))
	}
	if cmd.Flags().Changed("dry-run") {
		opts = append(opts, cardmap.WithDryRun(flags.DryRun))
	}
	if cmd.Flags().Changed("base-dir") {
		opts = append(opts, cardmap.WithBaseDir(flags.BaseDir))
	}

	v, err := app.Verifier(opts...)
	if err != nil {
		return err
	}

	report, err := v.VerifyFiles(cmd.Context(), tables...)
	if err != nil {
		return err
	}

	if flags.Report != "" {
		if err := save.Save(report,
			save.WithPath(flags.Report),
			save.WithFormat(save.FormatFromPath(flags.Report)),
		); err != nil {
			return err
		}
	}

	return Render(cmd.OutOrStdout(), app, report)
}

// Render writes report in the configured format. Text is the default.
func Render(w io.Writer, app application.Application, report *cardmap.Report) error {
	format := output.FormatText
	if f := app.OutputFormat(); f != "" {
		parsed, err := output.ParseFormat(f)
		if err != nil {
			return err
		}
		format = parsed
	}

	var data any = report
	switch format {
	case output.FormatText:
		if app.Quiet() {
			return nil
		}
	case output.FormatTable, output.FormatMarkdown:
		data = table.ReportToTableData(report, false)
	case output.FormatWide:
		data = table.ReportToTableData(report, true)
	}
	return output.NewFormatter(format).Format(w, data)
}
