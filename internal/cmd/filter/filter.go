// Package filter narrows card lists for the CLI.
package filter

import (
	"strings"

	"github.com/agentstation/cardmap/pkg/cards"
)

// CardFilter applies filters to card lists.
type CardFilter struct {
	Country string
	Issuer  string
	Type    string
	MaxFee  float64
	Search  string // Matched against name, issuer and program
	Limit   int
}

// Apply filters a slice of cards, keeping order.
func (f *CardFilter) Apply(list []cards.Card) []cards.Card {
	if f == nil || f.isEmpty() {
		return list
	}

	var filtered []cards.Card
	for _, c := range list {
		if f.Limit > 0 && len(filtered) == f.Limit {
			break
		}
		if f.matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func (f *CardFilter) isEmpty() bool {
	return f.Country == "" &&
		f.Issuer == "" &&
		f.Type == "" &&
		f.MaxFee == 0 &&
		f.Search == "" &&
		f.Limit == 0
}

func (f *CardFilter) matches(c cards.Card) bool {
	if f.Country != "" && !strings.EqualFold(c.Country, f.Country) {
		return false
	}
	if f.Issuer != "" && !contains(c.Issuer, f.Issuer) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(c.CardType, f.Type) {
		return false
	}
	if f.MaxFee > 0 && c.AnnualFee.Value > f.MaxFee {
		return false
	}
	if f.Search != "" &&
		!contains(c.Name, f.Search) &&
		!contains(c.Issuer, f.Search) &&
		!contains(c.RewardProgram, f.Search) {
		return false
	}
	return true
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
