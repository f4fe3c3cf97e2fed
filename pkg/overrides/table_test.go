package overrides_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/overrides"
	"github.com/agentstation/cardmap/pkg/records"
)

func TestLoadYAML(t *testing.T) {
	table, err := overrides.Load(filepath.Join("testdata", "extended.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "extended", table.Name)
	assert.Equal(t, "cards", table.Collection)
	assert.Equal(t, []string{"id"}, table.Key)
	assert.Equal(t, "lastVerified", table.StampField)
	assert.Equal(t, "name", table.Label)

	assert.Equal(t, []string{"amex-cobalt-card", "bmo-eclipse-visa-infinite"}, table.Overrides.IDs())
	fields, ok := table.Overrides.Get("amex-cobalt-card")
	require.True(t, ok)
	assert.Equal(t, []string{"annualFee", "signupBonus"}, fields.Keys())
	fee, _ := fields.Get("annualFee")
	assert.True(t, records.Equal(191.88, fee))

	require.Len(t, table.Patches, 1)
	assert.Equal(t, "was incorrect duplicate", table.Patches[0].Note)
	assert.Equal(t, `{"id": "td-platinum-travel-visa", "annualFee": 0}`, records.Inline(table.Patches[0].Where))

	require.Len(t, table.Removals, 1)
	assert.Equal(t, "duplicate of td-first-class-travel-visa-infinite", table.Removals[0].Reason)

	assert.Equal(t, filepath.Join("testdata", "cards.json"), table.DocumentPath(""))
	assert.Equal(t, filepath.Join("/srv", "cards.json"), table.DocumentPath("/srv"))
}

func TestLoadJSONWithCompositeKey(t *testing.T) {
	table, err := overrides.Load(filepath.Join("testdata", "full.json"))
	require.NoError(t, err)

	assert.Equal(t, "full", table.Name)
	assert.Equal(t, []string{"issuer", "name"}, table.Key)
	assert.Equal(t, []string{"TD|TD Aeroplan Visa Infinite"}, table.Overrides.IDs())
	assert.Equal(t, "/data/credit_cards_full.json", table.DocumentPath("/elsewhere"))

	id, ok := table.KeyFunc()(records.ObjectOf("issuer", "TD", "name", "TD Aeroplan Visa Infinite"))
	require.True(t, ok)
	_, ok = table.Overrides.Get(id)
	assert.True(t, ok)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing document", "overrides: {}\n", "document"},
		{"empty patch where", "document: a.json\npatches:\n  - where: {}\n    set: {fee: 1}\n", "patches[0].where"},
		{"empty patch set", "document: a.json\npatches:\n  - where: {id: a}\n    set: {}\n", "patches[0].set"},
		{"removal without where", "document: a.json\nremovals:\n  - reason: x\n", "removals[0].where"},
		{"scalar override", "document: a.json\noverrides:\n  card-x: 5\n", "overrides"},
		{"match missing key field", "document: a.json\nkey: [issuer, name]\noverrides:\n  - match: {issuer: TD}\n    set: {fee: 1}\n", "overrides[0].match"},
		{"unknown field", "document: a.json\noverride: {}\n", "table"},
		{"bad key type", "document: a.json\nkey: 5\n", "key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := overrides.Parse([]byte(tt.input), "yaml")
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
			var verr *errors.ValidationError
			if errors.As(err, &verr) {
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := overrides.Parse([]byte("document: [unclosed\n"), "yaml")
	require.Error(t, err)
	var perr *errors.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "yaml", perr.Format)

	_, err = overrides.Parse([]byte(`{"document": `), "json")
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "json", perr.Format)

	_, err = overrides.Parse([]byte(`document: a`), "toml")
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := overrides.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}
