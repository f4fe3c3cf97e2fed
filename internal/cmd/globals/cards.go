package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/cardmap/internal/cmd/filter"
)

// AddCardFlags adds card filtering flags to a command.
func AddCardFlags(cmd *cobra.Command) *filter.CardFilter {
	f := &filter.CardFilter{}

	cmd.Flags().StringVar(&f.Country, "country", "",
		"Filter by country (CA, US)")
	cmd.Flags().StringVar(&f.Issuer, "issuer", "",
		"Filter by issuer")
	cmd.Flags().StringVar(&f.Type, "type", "",
		"Filter by card type (personal, business)")
	cmd.Flags().Float64Var(&f.MaxFee, "max-fee", 0,
		"Only cards with an annual fee at or below this amount")
	cmd.Flags().StringVar(&f.Search, "search", "",
		"Search term matched against name, issuer and program")
	cmd.Flags().IntVarP(&f.Limit, "limit", "l", 0,
		"Limit number of results")

	return f
}
