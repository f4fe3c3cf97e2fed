// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/cardmap/internal/cmd/constants"
	"github.com/agentstation/cardmap/internal/cmd/table"
	"github.com/agentstation/cardmap/pkg/save"
)

// Format types for output.
type Format string

const (
	// FormatText represents the plain-text report.
	FormatText Format = constants.FormatText
	// FormatTable represents table output format.
	FormatTable Format = constants.FormatTable
	// FormatWide represents wide table output format.
	FormatWide Format = constants.FormatWide
	// FormatJSON represents JSON output format.
	FormatJSON Format = constants.FormatJSON
	// FormatYAML represents YAML output format.
	FormatYAML Format = constants.FormatYAML
	// FormatMarkdown represents a markdown table.
	FormatMarkdown Format = constants.FormatMarkdown
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// TextWriter is implemented by results with their own plain-text rendering.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatText:
		return &TextFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format. Field order and number literals
// match the JSON output.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := save.Encode(data, save.FormatYAML, "")
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TextFormatter writes a result's own text rendering, falling back to a
// table.
type TextFormatter struct{}

// Format implements the Formatter interface for plain text.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	if txt, ok := data.(TextWriter); ok {
		return txt.WriteText(w)
	}
	return (&TableFormatter{}).Format(w, data)
}

// MarkdownFormatter outputs a GitHub-flavored markdown table.
type MarkdownFormatter struct{}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	d, ok := toTableData(data)
	if !ok {
		return fmt.Errorf("markdown output is not supported for %T", data)
	}
	return md.NewMarkdown(w).
		Table(md.TableSet{Header: d.Headers, Rows: d.Rows}).
		Build()
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if d, ok := toTableData(data); ok {
		return f.formatTable(w, d)
	}

	// Fall back to JSON for non-table data
	jsonFormatter := &JSONFormatter{Indent: "  "}
	return jsonFormatter.Format(w, data)
}

func toTableData(data any) (table.Data, bool) {
	switch v := data.(type) {
	case table.Data:
		return v, true
	case *table.Data:
		return *v, true
	}
	if d := convertToTableData(data); d != nil {
		return *d, true
	}
	return table.Data{}, false
}

func (f *TableFormatter) formatTable(w io.Writer, data table.Data) error {
	config := tablewriter.Config{}

	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case table.AlignLeft:
				twAlign[i] = tw.AlignLeft
			case table.AlignCenter:
				twAlign[i] = tw.AlignCenter
			case table.AlignRight:
				twAlign[i] = tw.AlignRight
			default: // table.AlignDefault
				twAlign[i] = tw.Skip
			}
		}

		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	t := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		t.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := t.Append(rowData...); err != nil {
			return err
		}
	}

	return t.Render()
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatText
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatText, FormatTable, FormatWide, FormatJSON, FormatYAML, FormatMarkdown, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: text, table, wide, json, yaml, markdown", s)
	}
}

// convertToTableData attempts to convert structs and struct slices using
// reflection.
func convertToTableData(data any) *table.Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct {
		return structSliceToTableData(v)
	}
	if v.Kind() == reflect.Struct {
		return singleStructToTableData(v)
	}
	return nil
}

// structSliceToTableData converts a slice of structs to Data.
func structSliceToTableData(v reflect.Value) *table.Data {
	elemType := v.Index(0).Type()

	var headers []string
	var fields []int
	for i := 0; i < elemType.NumField(); i++ {
		if name, ok := columnName(elemType.Field(i)); ok {
			headers = append(headers, name)
			fields = append(fields, i)
		}
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		row := make([]string, 0, len(fields))
		for _, j := range fields {
			row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
		}
		rows = append(rows, row)
	}

	return &table.Data{Headers: headers, Rows: rows}
}

// singleStructToTableData converts a single struct to a key-value table.
func singleStructToTableData(v reflect.Value) *table.Data {
	elemType := v.Type()

	var rows [][]string
	for i := 0; i < elemType.NumField(); i++ {
		name, ok := columnName(elemType.Field(i))
		if !ok {
			continue
		}
		rows = append(rows, []string{name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}

	return &table.Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// columnName titles a field's json name, e.g. "annual_fee" becomes
// "Annual Fee". Unexported and json:"-" fields are skipped.
func columnName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return field.Name, true
	}
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(tag, "_", " ")), true
}
