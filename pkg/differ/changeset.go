// Package differ compares two record collections and reports which records
// were added, removed or updated, down to the field.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/cardmap/pkg/records"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"`         // Field name
	OldValue string     `json:"old,omitempty" yaml:"old"` // Previous value (compact JSON)
	NewValue string     `json:"new,omitempty" yaml:"new"` // New value (compact JSON)
	Type     ChangeType `json:"type" yaml:"type"`         // Type of change
}

// RecordUpdate represents an update to an existing record.
type RecordUpdate struct {
	ID       string          `json:"id" yaml:"id"`           // Identifier of the record
	Existing *records.Object `json:"-" yaml:"-"`             // Record before
	New      *records.Object `json:"-" yaml:"-"`             // Record after
	Changes  []FieldChange   `json:"changes" yaml:"changes"` // Field changes in field order
}

// Changeset represents all changes between two collections.
type Changeset struct {
	Added   []*records.Object `json:"-" yaml:"-"` // Records only in the new collection
	Updated []RecordUpdate    `json:"updated" yaml:"updated"`
	Removed []*records.Object `json:"-" yaml:"-"` // Records only in the old collection

	AddedIDs   []string `json:"added" yaml:"added"`
	RemovedIDs []string `json:"removed" yaml:"removed"`

	Summary ChangesetSummary `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Added         int `json:"added" yaml:"added"`
	Updated       int `json:"updated" yaml:"updated"`
	Removed       int `json:"removed" yaml:"removed"`
	FieldsChanged int `json:"fields_changed" yaml:"fields_changed"`
	TotalChanges  int `json:"total_changes" yaml:"total_changes"`
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) ChangesetSummary {
	fields := 0
	for _, u := range c.Updated {
		fields += len(u.Changes)
	}
	return ChangesetSummary{
		Added:         len(c.Added),
		Updated:       len(c.Updated),
		Removed:       len(c.Removed),
		FieldsChanged: fields,
		TotalChanges:  len(c.Added) + len(c.Updated) + len(c.Removed),
	}
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if c.Summary.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", c.Summary.Added))
	}
	if c.Summary.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", c.Summary.Updated))
	}
	if c.Summary.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", c.Summary.Removed))
	}
	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))

	if len(c.AddedIDs) > 0 {
		fmt.Fprintf(w, "\nAdded (%d):\n", len(c.AddedIDs))
		for _, id := range c.AddedIDs {
			fmt.Fprintf(w, "  • %s\n", id)
		}
	}

	if len(c.Updated) > 0 {
		fmt.Fprintf(w, "\nUpdated (%d):\n", len(c.Updated))
		for _, update := range c.Updated {
			fmt.Fprintf(w, "  • %s:\n", update.ID)
			for _, change := range update.Changes {
				switch change.Type {
				case ChangeTypeAdd:
					fmt.Fprintf(w, "    + %s: %s\n", change.Path, change.NewValue)
				case ChangeTypeRemove:
					fmt.Fprintf(w, "    - %s: %s\n", change.Path, change.OldValue)
				default:
					fmt.Fprintf(w, "    ~ %s: %s → %s\n", change.Path, change.OldValue, change.NewValue)
				}
			}
		}
	}

	if len(c.RemovedIDs) > 0 {
		fmt.Fprintf(w, "\nRemoved (%d):\n", len(c.RemovedIDs))
		for _, id := range c.RemovedIDs {
			fmt.Fprintf(w, "  • %s\n", id)
		}
	}
}

// ApplyStrategy represents which kinds of change to keep.
type ApplyStrategy string

const (
	// ApplyAll keeps all changes including removals.
	ApplyAll ApplyStrategy = "all"

	// ApplyAdditive keeps additions and updates, never removals.
	ApplyAdditive ApplyStrategy = "additive"

	// ApplyUpdatesOnly keeps only updates to existing records.
	ApplyUpdatesOnly ApplyStrategy = "updates-only"

	// ApplyAdditionsOnly keeps only new records.
	ApplyAdditionsOnly ApplyStrategy = "additions-only"
)

// Filter filters the changeset based on the apply strategy.
func (c *Changeset) Filter(strategy ApplyStrategy) *Changeset {
	filtered := &Changeset{}

	switch strategy {
	case ApplyAll:
		return c

	case ApplyAdditive:
		filtered.Added, filtered.AddedIDs = c.Added, c.AddedIDs
		filtered.Updated = c.Updated

	case ApplyUpdatesOnly:
		filtered.Updated = c.Updated

	case ApplyAdditionsOnly:
		filtered.Added, filtered.AddedIDs = c.Added, c.AddedIDs
	}

	filtered.Summary = calculateSummary(filtered)
	return filtered
}
