package cardmap

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/cardmap/pkg/reconcile"
)

// Report describes what a verification run changed.
type Report struct {
	Date      string           `json:"date" yaml:"date"`
	DryRun    bool             `json:"dry_run" yaml:"dry_run"`
	Documents []DocumentReport `json:"documents" yaml:"documents"`
}

// DocumentReport is the outcome of one table.
type DocumentReport struct {
	Table   string            `json:"table" yaml:"table"`
	Path    string            `json:"path" yaml:"path"`
	Records int               `json:"records" yaml:"records"` // Records left after removals
	Result  *reconcile.Result `json:"result" yaml:"result"`
}

// Totals sums the report over all documents.
type Totals struct {
	Touched   int `json:"touched" yaml:"touched"`
	Changes   int `json:"changes" yaml:"changes"`
	Removed   int `json:"removed" yaml:"removed"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
}

// Totals returns the counts summed over all documents.
func (r *Report) Totals() Totals {
	var t Totals
	for _, d := range r.Documents {
		t.Touched += len(d.Result.Touched)
		t.Changes += len(d.Result.Changes)
		t.Removed += len(d.Result.Removed)
		t.Unmatched += len(d.Result.Unmatched)
	}
	return t
}

// HasChanges reports whether any document changed.
func (r *Report) HasChanges() bool {
	for _, d := range r.Documents {
		if d.Result.HasChanges() {
			return true
		}
	}
	return false
}

// Lines returns the change log of one document: field changes grouped by
// record in processing order, then removals and unmatched overrides.
func (d *DocumentReport) Lines() []string {
	var lines []string
	for _, c := range d.Result.Changes {
		lines = append(lines, "  "+c.String())
	}
	for _, rm := range d.Result.Removed {
		line := fmt.Sprintf("  Removed '%s'", rm.ID)
		if rm.Reason != "" {
			line += " (" + rm.Reason + ")"
		}
		lines = append(lines, line)
	}
	for _, id := range d.Result.Unmatched {
		lines = append(lines, fmt.Sprintf("  Warning: override '%s' matched no record", id))
	}
	return lines
}

// WriteText writes the plain-text report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	verb := "Updated"
	if r.DryRun {
		verb = "Would update"
	}
	for _, d := range r.Documents {
		fmt.Fprintf(&b, "%s %s: %d records verified, %d changes\n",
			verb, d.Path, len(d.Result.Touched), len(d.Result.Changes))
	}

	for _, d := range r.Documents {
		fmt.Fprintf(&b, "\n=== %s CHANGES ===\n", strings.ToUpper(d.Table))
		lines := d.Lines()
		if len(lines) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	t := r.Totals()
	fmt.Fprintf(&b, "\nTotal verified records: %d\n", t.Touched)
	fmt.Fprintf(&b, "Total changes: %d\n", t.Changes)
	if t.Removed > 0 {
		fmt.Fprintf(&b, "Total removed: %d\n", t.Removed)
	}
	fmt.Fprintf(&b, "Verification date: %s\n", r.Date)

	_, err := io.WriteString(w, b.String())
	return err
}
