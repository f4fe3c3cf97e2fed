// Package build implements the build command.
package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap/cmd/application"
	"github.com/agentstation/cardmap/internal/cmd/emoji"
	"github.com/agentstation/cardmap/internal/cmd/output"
	"github.com/agentstation/cardmap/internal/cmd/table"
	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/save"
)

// Flags holds the build command flags.
type Flags struct {
	Seed string
	Out  string
}

// NewCommand creates the build command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "build",
		GroupID: "core",
		Short:   "Build the card database from a seed file",
		Long: `Build reads a YAML seed of card specifications, computes point values in
CAD and USD, orders earning rates with the base rate first and writes the
database document with its metadata block.`,
		Example: `  cardmap build --seed seed.yaml --out credit_cards_database.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := Build(flags)
			if err != nil {
				return err
			}
			app.Logger().Info().
				Int("cards", db.Metadata.TotalCards).
				Str("out", flags.Out).
				Msg("Built card database")

			w := cmd.OutOrStdout()
			switch format := output.DetectFormat(app.OutputFormat()); format {
			case output.FormatText:
				if app.Quiet() {
					return nil
				}
				_, err := fmt.Fprintf(w, "%s Wrote %d cards to %s (%s)\n", emoji.Success,
					db.Metadata.TotalCards, flags.Out, countries(db.Metadata.ByCountry))
				return err
			case output.FormatTable, output.FormatWide, output.FormatMarkdown:
				return output.NewFormatter(format).Format(w, table.CardsToTableData(db.Cards, format == output.FormatWide))
			default:
				return output.NewFormatter(format).Format(w, db.Metadata)
			}
		},
	}

	cmd.Flags().StringVar(&flags.Seed, "seed", "", "YAML seed file")
	cmd.Flags().StringVar(&flags.Out, "out", "credit_cards_database.json", "Database document to write")
	_ = cmd.MarkFlagRequired("seed")

	return cmd
}

// Build loads the seed and writes the database document.
func Build(flags *Flags) (*cards.Database, error) {
	seed, err := cards.LoadSeed(flags.Seed)
	if err != nil {
		return nil, err
	}
	builder, err := cards.FromSeed(seed)
	if err != nil {
		return nil, err
	}
	db := builder.Build()

	data, err := db.Document().Bytes()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(flags.Out), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(flags.Out), err)
	}
	if err := save.WriteFile(flags.Out, data, constants.FilePermissions); err != nil {
		return nil, err
	}
	return db, nil
}

func countries(counts map[string]int) string {
	return fmt.Sprintf("%s: %d, %s: %d",
		cards.CountryCA, counts[cards.CountryCA], cards.CountryUS, counts[cards.CountryUS])
}
