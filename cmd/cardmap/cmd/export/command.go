// Package export implements the export command and its sql subcommand.
package export

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap/cmd/application"
	"github.com/agentstation/cardmap/internal/cmd/emoji"
	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/records"
	"github.com/agentstation/cardmap/pkg/save"
	"github.com/agentstation/cardmap/pkg/sqlgen"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Export the card database to other formats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(NewSQLCommand(app))
	return cmd
}

// SQLFlags holds the export sql flags.
type SQLFlags struct {
	In       string
	Out      string
	SQLite   string
	Truncate bool
}

// NewSQLCommand creates the export sql command.
func NewSQLCommand(app application.Application) *cobra.Command {
	flags := &SQLFlags{}

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Generate a SQL import script or load a SQLite database",
		Long: `Export the cards of a database document as INSERT statements for the
cards, category_rewards and signup_bonuses tables, wrapped in a single
transaction. With --sqlite the rows are loaded directly into a SQLite file,
creating the tables if needed and replacing cards that already exist.

Without --out or --sqlite the script is written to stdout.`,
		Example: `  cardmap export sql --in credit_cards_database.json --out import_cards.sql
  cardmap export sql --in credit_cards_database.json --sqlite cards.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := loadCards(flags.In)
			if err != nil {
				return err
			}
			logger := app.Logger()

			if flags.SQLite != "" {
				db, err := sqlgen.Open(cmd.Context(), flags.SQLite)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := sqlgen.Load(cmd.Context(), db, list); err != nil {
					return err
				}
				if !app.Quiet() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s Loaded %d cards into %s\n", emoji.Success, len(list), flags.SQLite)
				}
				if flags.Out == "" {
					return nil
				}
			}

			opts := []sqlgen.Option{sqlgen.WithTruncate(flags.Truncate)}
			if flags.Out == "" {
				return sqlgen.Script(cmd.OutOrStdout(), list, opts...)
			}

			var buf bytes.Buffer
			if err := sqlgen.Script(&buf, list, opts...); err != nil {
				return err
			}
			if err := save.WriteFile(flags.Out, buf.Bytes(), constants.FilePermissions); err != nil {
				return err
			}
			logger.Info().Int("cards", len(list)).Str("out", flags.Out).Msg("Wrote SQL import script")
			if !app.Quiet() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d cards to %s\n", emoji.Success, len(list), flags.Out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.In, "in", "credit_cards_database.json", "Database document to export")
	cmd.Flags().StringVar(&flags.Out, "out", "", "SQL script to write")
	cmd.Flags().StringVar(&flags.SQLite, "sqlite", "", "SQLite database to load")
	cmd.Flags().BoolVar(&flags.Truncate, "truncate", false, "Emit active TRUNCATE statements before the inserts")

	return cmd
}

func loadCards(path string) ([]cards.Card, error) {
	doc, err := records.LoadDocument(path, constants.DefaultCollectionField)
	if err != nil {
		return nil, err
	}
	return cards.FromRecords(doc.Records())
}
