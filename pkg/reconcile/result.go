package reconcile

import (
	"fmt"

	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/records"
)

// Change is one field whose value differed from its override.
type Change struct {
	ID    string `json:"id" yaml:"id"`                           // Record identifier
	Label string `json:"label" yaml:"label"`                     // Human-readable record name
	Field string `json:"field" yaml:"field"`                     // Field name
	Old   any    `json:"old" yaml:"old"`                         // Value before, nil when the field was missing
	New   any    `json:"new" yaml:"new"`                         // Value after
	Added bool   `json:"added,omitempty" yaml:"added,omitempty"` // Field was missing before
	Note  string `json:"note,omitempty" yaml:"note,omitempty"`
}

// String renders the change as "[label] field: old → new" with each value
// written as compact JSON and truncated.
func (c Change) String() string {
	s := fmt.Sprintf("[%s] %s: %s %s %s", c.Label, c.Field,
		FormatValue(c.Old), constants.ChangeArrow, FormatValue(c.New))
	if c.Note != "" {
		s += " (" + c.Note + ")"
	}
	return s
}

// FormatValue renders a value for change reports.
func FormatValue(v any) string {
	return records.Truncate(records.Inline(v), constants.MaxValueWidth)
}

// Touched identifies a record that received the verification stamp.
type Touched struct {
	Index int    `json:"-" yaml:"-"`         // Position in the collection
	ID    string `json:"id" yaml:"id"`       // Record identifier
	Label string `json:"label" yaml:"label"` // Human-readable record name
}

// Removed identifies a record dropped by a removal predicate.
type Removed struct {
	ID     string          `json:"id" yaml:"id"`
	Label  string          `json:"label" yaml:"label"`
	Reason string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Record *records.Object `json:"-" yaml:"-"`
}

// Result is the outcome of reconciling one collection.
type Result struct {
	Changes   []Change  `json:"changes" yaml:"changes"`
	Touched   []Touched `json:"touched" yaml:"touched"`
	Unmatched []string  `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
	Removed   []Removed `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// HasChanges reports whether any field changed or record was removed.
func (r *Result) HasChanges() bool {
	return len(r.Changes) > 0 || len(r.Removed) > 0
}

// Merge appends other into r. Records touched in both are listed once.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Changes = append(r.Changes, other.Changes...)
	r.Unmatched = append(r.Unmatched, other.Unmatched...)
	r.Removed = append(r.Removed, other.Removed...)

	seen := make(map[int]bool, len(r.Touched))
	for _, t := range r.Touched {
		seen[t.Index] = true
	}
	for _, t := range other.Touched {
		if !seen[t.Index] {
			seen[t.Index] = true
			r.Touched = append(r.Touched, t)
		}
	}
}

// ChangesFor returns the changes made to one record, in order.
func (r *Result) ChangesFor(id string) []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d records touched, %d changes, %d removed, %d unmatched",
		len(r.Touched), len(r.Changes), len(r.Removed), len(r.Unmatched))
}
