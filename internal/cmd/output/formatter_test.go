package output

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cardmap/internal/cmd/table"
	"github.com/agentstation/cardmap/pkg/records"
)

type row struct {
	Name      string  `json:"name"`
	AnnualFee float64 `json:"annual_fee"`
	Skipped   string  `json:"-"`
}

type textResult struct{}

func (textResult) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, "plain report\n")
	return err
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "TABLE", "wide", "json", "yaml", "markdown", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatterKeepsRecordOrder(t *testing.T) {
	var buf bytes.Buffer
	obj := records.ObjectOf("zeta", 1, "alpha", "<b>")
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, obj))
	assert.Equal(t, "{\n  \"zeta\": 1,\n  \"alpha\": \"<b>\"\n}\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := []row{{Name: "Cobalt", AnnualFee: 155.88}}
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Contains(t, buf.String(), "name: Cobalt")
	assert.Contains(t, buf.String(), "annual_fee: 155.88")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{Headers: []string{"Name", "Fee"}, Rows: [][]string{{"Cobalt", "155.88"}}}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "Cobalt")
	assert.Contains(t, buf.String(), "155.88")
}

func TestTableFormatterReflection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []row{{Name: "Cobalt", AnnualFee: 1}}))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "ANNUAL FEE")
	assert.NotContains(t, out, "SKIPPED")
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText).Format(&buf, textResult{}))
	assert.Equal(t, "plain report\n", buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{Headers: []string{"Name", "Fee"}, Rows: [][]string{{"Cobalt", "155.88"}}}
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&buf, data))
	assert.Contains(t, buf.String(), "| Name")
	assert.Contains(t, buf.String(), "Cobalt")

	assert.Error(t, NewFormatter(FormatMarkdown).Format(&buf, 42))
}

func TestConvertToTableData(t *testing.T) {
	d := convertToTableData(&row{Name: "Cobalt"})
	require.NotNil(t, d)
	assert.Equal(t, []string{"Property", "Value"}, d.Headers)
	assert.Equal(t, []string{"Name", "Cobalt"}, d.Rows[0])
	assert.Len(t, d.Rows, 2)

	assert.Nil(t, convertToTableData(42))
}
