package records_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cardmap/pkg/records"
)

func TestFromYAMLKeepsOrder(t *testing.T) {
	var raw any
	src := "zeta: 1\nalpha:\n  fee: 89.5\n  tags: [a, b]\nbeta: null\n"
	require.NoError(t, yaml.UnmarshalWithOptions([]byte(src), &raw, yaml.UseOrderedMap()))

	obj, err := records.ObjectFromYAML(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "beta"}, obj.Keys())

	alpha, _ := obj.Get("alpha")
	fee, _ := alpha.(*records.Object).Get("fee")
	assert.True(t, records.Equal(json.Number("89.5"), fee))
	assert.Equal(t, `{"zeta": 1, "alpha": {"fee": 89.5, "tags": ["a", "b"]}, "beta": null}`, records.Inline(obj))
}

func TestFromYAMLRejectsNaN(t *testing.T) {
	_, err := records.FromYAML(yaml.MapSlice{{Key: "fee", Value: math.NaN()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fee")
}

func TestObjectFromYAMLRejectsScalars(t *testing.T) {
	_, err := records.ObjectFromYAML("text")
	require.Error(t, err)
}

func TestObjectMarshalYAML(t *testing.T) {
	obj := records.ObjectOf("b", 2, "a", 1.5, "list", []any{records.ObjectOf("x", "y")})
	out, err := yaml.Marshal(obj)
	require.NoError(t, err)
	text := string(out)
	assert.Less(t, strings.Index(text, "b: 2"), strings.Index(text, "a: 1.5"))
	assert.Contains(t, text, "list:")

	var back any
	require.NoError(t, yaml.UnmarshalWithOptions(out, &back, yaml.UseOrderedMap()))
	round, err := records.ObjectFromYAML(back)
	require.NoError(t, err)
	assert.True(t, records.Equal(obj, round))
	assert.Equal(t, obj.Keys(), round.Keys())
}
