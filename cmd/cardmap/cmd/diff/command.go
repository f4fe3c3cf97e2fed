// Package diff implements the diff command.
package diff

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap/cmd/application"
	"github.com/agentstation/cardmap/internal/cmd/output"
	"github.com/agentstation/cardmap/internal/cmd/table"
	"github.com/agentstation/cardmap/pkg/differ"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/records"
)

// Flags holds the diff command flags.
type Flags struct {
	Key        []string
	Separator  string
	Collection string
	Ignore     []string
	Only       string
	Literal    bool
}

// NewCommand creates the diff command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "diff BEFORE AFTER",
		GroupID: "core",
		Short:   "Show field-level differences between two card documents",
		Args:    cobra.ExactArgs(2),
		Example: `  cardmap diff old/credit_cards_extended.json credit_cards_extended.json
  cardmap diff a.json b.json --key issuer --key name --ignore lastVerified
  cardmap diff a.json b.json --only updates-only --literal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := Diff(args[0], args[1], flags)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format := output.DetectFormat(app.OutputFormat()); format {
			case output.FormatText:
				if !app.Quiet() {
					cs.Print(w)
				}
				return nil
			case output.FormatTable, output.FormatWide, output.FormatMarkdown:
				return output.NewFormatter(format).Format(w, table.ChangesetToTableData(cs))
			default:
				return output.NewFormatter(format).Format(w, cs)
			}
		},
	}

	cmd.Flags().StringSliceVar(&flags.Key, "key", []string{"id"},
		"Fields identifying a record (repeat for a composite key)")
	cmd.Flags().StringVar(&flags.Separator, "separator", "",
		"Separator joining composite key fields (default \"|\")")
	cmd.Flags().StringVar(&flags.Collection, "collection", "",
		"Root field holding the record array (default \"cards\")")
	cmd.Flags().StringSliceVar(&flags.Ignore, "ignore", nil,
		"Fields left out of the comparison (e.g. lastVerified)")
	cmd.Flags().StringVar(&flags.Only, "only", string(differ.ApplyAll),
		"Changes to report: all, additive, updates-only, additions-only")
	cmd.Flags().BoolVar(&flags.Literal, "literal", false,
		"Compare values by their JSON text, so 0 and 0.0 differ")

	return cmd
}

// Diff compares the collections of two documents.
func Diff(beforePath, afterPath string, flags *Flags) (*differ.Changeset, error) {
	strategy := differ.ApplyStrategy(flags.Only)
	switch strategy {
	case "":
		strategy = differ.ApplyAll
	case differ.ApplyAll, differ.ApplyAdditive, differ.ApplyUpdatesOnly, differ.ApplyAdditionsOnly:
	default:
		return nil, errors.NewValidationError("only", flags.Only, "must be one of: all, additive, updates-only, additions-only")
	}

	key := records.FieldKey(flags.Separator, flags.Key...)

	before, err := load(beforePath, flags.Collection, key)
	if err != nil {
		return nil, err
	}
	after, err := load(afterPath, flags.Collection, key)
	if err != nil {
		return nil, err
	}

	d := differ.New(
		differ.WithIgnoredFields(flags.Ignore...),
		differ.WithDeepComparison(!flags.Literal),
	)
	return d.Records(before, after).Filter(strategy), nil
}

func load(path, collection string, key records.KeyFunc) (*records.Collection, error) {
	doc, err := records.LoadDocument(path, collection)
	if err != nil {
		return nil, err
	}
	return records.NewCollection(path, doc.Records(), key)
}
