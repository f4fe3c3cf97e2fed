// Package list implements the list command.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap/cmd/application"
	"github.com/agentstation/cardmap/internal/cmd/globals"
	"github.com/agentstation/cardmap/internal/cmd/output"
	"github.com/agentstation/cardmap/internal/cmd/table"
	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/records"
)

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Short:   "List cards from a database document",
		Example: `  cardmap list --country CA
  cardmap list --type business -o wide
  cardmap list --search aeroplan --max-fee 150 -o json`,
		Args: cobra.NoArgs,
	}
	filter := globals.AddCardFlags(cmd)
	cmd.Flags().StringVar(&in, "in", "credit_cards_database.json", "Database document to read")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		doc, err := records.LoadDocument(in, constants.DefaultCollectionField)
		if err != nil {
			return err
		}
		list, err := cards.FromRecords(doc.Records())
		if err != nil {
			return err
		}
		list = filter.Apply(list)

		format := output.DetectFormat(app.OutputFormat())
		var data any = list
		switch format {
		case output.FormatText, output.FormatTable, output.FormatMarkdown:
			data = table.CardsToTableData(list, false)
		case output.FormatWide:
			data = table.CardsToTableData(list, true)
		}
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
	}

	return cmd
}
