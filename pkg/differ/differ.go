package differ

import (
	"github.com/agentstation/cardmap/pkg/records"
)

// Differ handles change detection between record collections.
type Differ interface {
	// Records compares two collections keyed by the same identifier.
	Records(existing, updated *records.Collection) *Changeset

	// Record compares two versions of one record. It returns nil when
	// nothing differs.
	Record(id string, existing, updated *records.Object) *RecordUpdate
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields   map[string]bool
	deepComparison bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields:   make(map[string]bool),
		deepComparison: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Records compares two collections. Added and updated records follow the
// updated collection's order; removed records follow the existing one's.
// Records without an identifier are not compared.
func (diff *differ) Records(existing, updated *records.Collection) *Changeset {
	changeset := &Changeset{
		Added:      []*records.Object{},
		Updated:    []RecordUpdate{},
		Removed:    []*records.Object{},
		AddedIDs:   []string{},
		RemovedIDs: []string{},
	}

	for _, id := range updated.IDs() {
		newRec, _ := updated.Get(id)
		if oldRec, exists := existing.Get(id); exists {
			if update := diff.Record(id, oldRec, newRec); update != nil {
				changeset.Updated = append(changeset.Updated, *update)
			}
			continue
		}
		changeset.Added = append(changeset.Added, newRec)
		changeset.AddedIDs = append(changeset.AddedIDs, id)
	}

	for _, id := range existing.IDs() {
		if !updated.Has(id) {
			oldRec, _ := existing.Get(id)
			changeset.Removed = append(changeset.Removed, oldRec)
			changeset.RemovedIDs = append(changeset.RemovedIDs, id)
		}
	}

	changeset.Summary = calculateSummary(changeset)
	return changeset
}

// Record compares top-level fields: the existing record's fields in order,
// then fields only the updated record has.
func (diff *differ) Record(id string, existing, updated *records.Object) *RecordUpdate {
	var changes []FieldChange

	existing.Range(func(field string, oldVal any) bool {
		if diff.ignoreFields[field] {
			return true
		}
		newVal, ok := updated.Get(field)
		switch {
		case !ok:
			changes = append(changes, FieldChange{Path: field, OldValue: format(oldVal), Type: ChangeTypeRemove})
		case !diff.equal(oldVal, newVal):
			changes = append(changes, FieldChange{Path: field, OldValue: format(oldVal), NewValue: format(newVal), Type: ChangeTypeUpdate})
		}
		return true
	})

	updated.Range(func(field string, newVal any) bool {
		if diff.ignoreFields[field] || existing.Has(field) {
			return true
		}
		changes = append(changes, FieldChange{Path: field, NewValue: format(newVal), Type: ChangeTypeAdd})
		return true
	})

	if len(changes) == 0 {
		return nil
	}
	return &RecordUpdate{ID: id, Existing: existing, New: updated, Changes: changes}
}

func (diff *differ) equal(a, b any) bool {
	if diff.deepComparison {
		return records.Equal(a, b)
	}
	return records.Inline(a) == records.Inline(b)
}

func format(v any) string {
	return records.Inline(v)
}
