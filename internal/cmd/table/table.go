// Package table converts cardmap results into rows for table output.
package table

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/agentstation/cardmap"
	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/differ"
	"github.com/agentstation/cardmap/pkg/reconcile"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ReportToTableData lists every change, removal and unmatched override of
// a verification run.
func ReportToTableData(r *cardmap.Report, wide bool) Data {
	headers := []string{"Table", "Card", "Field", "Old", "New"}
	if wide {
		headers = append(headers, "Note", "Document")
	}

	var rows [][]string
	for _, d := range r.Documents {
		row := func(card, field, before, after, note string) {
			cells := []string{d.Table, card, field, before, after}
			if wide {
				cells = append(cells, dash(note), d.Path)
			}
			rows = append(rows, cells)
		}
		for _, c := range d.Result.Changes {
			row(c.Label, c.Field, reconcile.FormatValue(c.Old), reconcile.FormatValue(c.New), c.Note)
		}
		for _, rm := range d.Result.Removed {
			row(rm.Label, "-", "(record)", "(removed)", rm.Reason)
		}
		for _, id := range d.Result.Unmatched {
			row(id, "-", "-", "-", "override matched no record")
		}
	}

	return Data{Headers: headers, Rows: rows}
}

// TotalsToTableData summarizes a report per document.
func TotalsToTableData(r *cardmap.Report) Data {
	rows := make([][]string, 0, len(r.Documents)+1)
	for _, d := range r.Documents {
		rows = append(rows, []string{
			d.Table,
			d.Path,
			strconv.Itoa(d.Records),
			strconv.Itoa(len(d.Result.Touched)),
			strconv.Itoa(len(d.Result.Changes)),
			strconv.Itoa(len(d.Result.Removed)),
		})
	}
	t := r.Totals()
	rows = append(rows, []string{"total", r.Date, "", strconv.Itoa(t.Touched), strconv.Itoa(t.Changes), strconv.Itoa(t.Removed)})

	return Data{
		Headers:         []string{"Table", "Document", "Records", "Verified", "Changes", "Removed"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// CardsToTableData converts cards to table format.
func CardsToTableData(list []cards.Card, wide bool) Data {
	headers := []string{"Name", "Issuer", "Country", "Annual Fee", "Base", "Point Value"}
	if wide {
		headers = append(headers, "Program", "Type", "Category", "Bonus")
	}

	rows := make([][]string, 0, len(list))
	for _, c := range list {
		row := []string{
			c.Name,
			c.Issuer,
			c.Country,
			FormatMoney(c.AnnualFee.Value, c.Currency),
			FormatMultiplier(c.EarningRates.Base()),
			FormatCents(c.PointValueCAD),
		}
		if wide {
			bonus := "-"
			if c.SignupBonus != nil && c.SignupBonus.Points > 0 {
				bonus = strconv.FormatInt(c.SignupBonus.Points, 10)
			}
			row = append(row, c.RewardProgram, c.CardType, c.Category, bonus)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// ChangesetToTableData lists the records a changeset adds, removes or updates.
func ChangesetToTableData(cs *differ.Changeset) Data {
	var rows [][]string
	for _, id := range cs.AddedIDs {
		rows = append(rows, []string{"+", id, "-", "-", "-"})
	}
	for _, id := range cs.RemovedIDs {
		rows = append(rows, []string{"-", id, "-", "-", "-"})
	}
	for _, u := range cs.Updated {
		for _, fc := range u.Changes {
			rows = append(rows, []string{"~", u.ID, fc.Path, fc.OldValue, fc.NewValue})
		}
	}
	return Data{
		Headers: []string{"", "Card", "Field", "Old", "New"},
		Rows:    rows,
	}
}

// CountsToTableData renders a count per key, sorted by key.
func CountsToTableData(name string, counts map[string]int) Data {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	return Data{
		Headers:         []string{name, "Cards"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatMoney formats an amount with its currency, "Free" for zero.
func FormatMoney(amount float64, currency string) string {
	if amount == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f %s", amount, currency)
}

// FormatMultiplier formats an earning rate, e.g. "1.25x".
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "x"
}

// FormatCents formats a point valuation in cents.
func FormatCents(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "¢"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
