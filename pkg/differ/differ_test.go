package differ_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cardmap/pkg/differ"
	"github.com/agentstation/cardmap/pkg/records"
)

func collection(t *testing.T, recs ...*records.Object) *records.Collection {
	t.Helper()
	c, err := records.NewCollection("test", recs, records.FieldKey("", "id"))
	require.NoError(t, err)
	return c
}

func TestDiffRecords(t *testing.T) {
	before := collection(t,
		records.ObjectOf("id", "a", "fee", 0, "perks", records.ObjectOf("x", 1), "old", true),
		records.ObjectOf("id", "b", "fee", 10),
		records.ObjectOf("id", "gone", "fee", 1),
	)
	after := collection(t,
		records.ObjectOf("id", "new", "fee", 5),
		records.ObjectOf("id", "a", "fee", 120, "perks", records.ObjectOf("x", 1.0), "added", "yes"),
		records.ObjectOf("id", "b", "fee", 10.0),
	)

	cs := differ.New().Records(before, after)

	assert.Equal(t, []string{"new"}, cs.AddedIDs)
	assert.Equal(t, []string{"gone"}, cs.RemovedIDs)
	require.Len(t, cs.Updated, 1)

	want := []differ.FieldChange{
		{Path: "fee", OldValue: "0", NewValue: "120", Type: differ.ChangeTypeUpdate},
		{Path: "old", OldValue: "true", Type: differ.ChangeTypeRemove},
		{Path: "added", NewValue: `"yes"`, Type: differ.ChangeTypeAdd},
	}
	if diff := cmp.Diff(want, cs.Updated[0].Changes); diff != "" {
		t.Errorf("field changes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, differ.ChangesetSummary{Added: 1, Updated: 1, Removed: 1, FieldsChanged: 3, TotalChanges: 3}, cs.Summary)
	assert.Equal(t, "Changeset: 1 added, 1 updated, 1 removed (Total: 3 changes)", cs.String())
}

func TestDiffIgnoredFields(t *testing.T) {
	before := collection(t, records.ObjectOf("id", "a", "lastVerified", "2026-01-01"))
	after := collection(t, records.ObjectOf("id", "a", "lastVerified", "2026-02-14"))

	assert.True(t, differ.New().Records(before, after).HasChanges())
	assert.True(t, differ.New(differ.WithIgnoredFields("lastVerified")).Records(before, after).IsEmpty())
}

func TestDiffShallowComparison(t *testing.T) {
	before := collection(t, records.ObjectOf("id", "a", "perks", records.ObjectOf("x", 1, "y", 2)))
	after := collection(t, records.ObjectOf("id", "a", "perks", records.ObjectOf("y", 2, "x", 1)))

	assert.True(t, differ.New().Records(before, after).IsEmpty())
	assert.True(t, differ.New(differ.WithDeepComparison(false)).Records(before, after).HasChanges())
}

func TestChangesetFilter(t *testing.T) {
	before := collection(t, records.ObjectOf("id", "a", "fee", 0), records.ObjectOf("id", "gone"))
	after := collection(t, records.ObjectOf("id", "a", "fee", 1), records.ObjectOf("id", "new"))
	cs := differ.New().Records(before, after)

	assert.Same(t, cs, cs.Filter(differ.ApplyAll))

	additive := cs.Filter(differ.ApplyAdditive)
	assert.Equal(t, 2, additive.Summary.TotalChanges)
	assert.Empty(t, additive.RemovedIDs)

	assert.Equal(t, 1, cs.Filter(differ.ApplyUpdatesOnly).Summary.Updated)
	assert.Equal(t, []string{"new"}, cs.Filter(differ.ApplyAdditionsOnly).AddedIDs)
}

func TestChangesetPrint(t *testing.T) {
	before := collection(t, records.ObjectOf("id", "a", "fee", 0))
	after := collection(t, records.ObjectOf("id", "a", "fee", 89))

	var buf bytes.Buffer
	differ.New().Records(before, after).Print(&buf)
	assert.Contains(t, buf.String(), "  • a:\n    ~ fee: 0 → 89\n")

	buf.Reset()
	differ.New().Records(before, before).Print(&buf)
	assert.Equal(t, "No changes detected\n", buf.String())
}
