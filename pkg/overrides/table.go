// Package overrides loads override tables: files that name a target
// document and declare the verified field values, conditional patches and
// removals to apply to it.
//
// A table is YAML or JSON:
//
//	name: extended
//	document: data/canadian_cards_extended.json
//	key: [id]
//	label: name
//	overrides:
//	  amex-cobalt-card:
//	    annualFee: 191.88
//	patches:
//	  - where: {id: td-platinum-travel-visa, annualFee: 0}
//	    set: {annualFee: 89}
//	    note: was incorrect duplicate
//	removals:
//	  - where: {id: visa-infinite-privilege-td}
//	    reason: duplicate
//
// Overrides may also be a list of {match, set} entries, where match gives
// the key fields of the target record. This reads better for composite
// keys such as [issuer, name].
package overrides

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/reconcile"
	"github.com/agentstation/cardmap/pkg/records"
)

// Table is a parsed override table.
type Table struct {
	Path       string // File the table was loaded from
	Name       string
	Document   string // Target document, relative to the table's directory
	Collection string
	Key        []string
	Separator  string
	Label      string
	StampField string
	Overrides  *reconcile.Overrides
	Patches    []reconcile.Patch
	Removals   []reconcile.Removal
}

// Load reads a table file. The format follows the extension: .json is JSON,
// anything else is YAML.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	t, err := Parse(data, format)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) && perr.File == "" {
			perr.File = path
		}
		return nil, err
	}
	t.Path = path
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Parse decodes a table from data in the given format ("yaml" or "json").
func Parse(data []byte, format string) (*Table, error) {
	var root *records.Object
	switch format {
	case "json":
		v, err := records.DecodeBytes(data)
		if err != nil {
			return nil, errors.NewParseError("json", "", err.Error(), err)
		}
		obj, ok := v.(*records.Object)
		if !ok {
			return nil, errors.NewParseError("json", "", "table must be a mapping", nil)
		}
		root = obj
	case "yaml", "yml":
		var raw any
		if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
			return nil, errors.NewParseError("yaml", "", yaml.FormatError(err, false, true), err)
		}
		obj, err := records.ObjectFromYAML(raw)
		if err != nil {
			return nil, errors.NewParseError("yaml", "", err.Error(), err)
		}
		root = obj
	default:
		return nil, errors.NewValidationError("format", format, "must be yaml or json")
	}

	t, err := fromObject(root)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func fromObject(root *records.Object) (*Table, error) {
	t := &Table{
		Name:       root.String("name"),
		Document:   root.String("document"),
		Collection: root.String("collection"),
		Separator:  root.String("separator"),
		Label:      root.String("label"),
		StampField: root.String("stamp_field"),
		Overrides:  reconcile.NewOverrides(),
	}

	var unknown []string
	root.Range(func(k string, _ any) bool {
		switch k {
		case "name", "document", "collection", "key", "separator", "label",
			"stamp_field", "overrides", "patches", "removals":
		default:
			unknown = append(unknown, k)
		}
		return true
	})
	if len(unknown) > 0 {
		return nil, errors.NewValidationError("table", strings.Join(unknown, ", "), "unknown fields")
	}

	key, err := stringList(root, "key")
	if err != nil {
		return nil, err
	}
	t.Key = key
	t.applyDefaults()

	if err := t.parseOverrides(root); err != nil {
		return nil, err
	}
	if err := t.parsePatches(root); err != nil {
		return nil, err
	}
	if err := t.parseRemovals(root); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) applyDefaults() {
	if t.Collection == "" {
		t.Collection = constants.DefaultCollectionField
	}
	if len(t.Key) == 0 {
		t.Key = []string{constants.DefaultKeyField}
	}
	if t.Separator == "" {
		t.Separator = constants.DefaultKeySeparator
	}
	if t.StampField == "" {
		t.StampField = constants.DefaultStampField
	}
}

func (t *Table) parseOverrides(root *records.Object) error {
	raw, ok := root.Get("overrides")
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case *records.Object:
		o, err := reconcile.OverridesFrom(v)
		if err != nil {
			return errors.WrapValidation("overrides", err)
		}
		t.Overrides = o
	case []any:
		key := t.KeyFunc()
		for i, item := range v {
			entry, ok := item.(*records.Object)
			if !ok {
				return errors.NewValidationError(fmt.Sprintf("overrides[%d]", i), item, "must be a mapping")
			}
			match, _ := entry.Get("match")
			matchObj, ok := match.(*records.Object)
			if !ok {
				return errors.NewValidationError(fmt.Sprintf("overrides[%d].match", i), match, "must be a mapping")
			}
			id, ok := key(matchObj)
			if !ok {
				return errors.NewValidationError(fmt.Sprintf("overrides[%d].match", i), records.Inline(matchObj),
					"must set every key field: "+strings.Join(t.Key, ", "))
			}
			set, _ := entry.Get("set")
			setObj, ok := set.(*records.Object)
			if !ok {
				return errors.NewValidationError(fmt.Sprintf("overrides[%d].set", i), set, "must be a mapping")
			}
			t.Overrides.Set(id, setObj)
		}
	default:
		return errors.NewValidationError("overrides", raw, "must be a mapping or a list")
	}
	return nil
}

func (t *Table) parsePatches(root *records.Object) error {
	items, err := objectList(root, "patches")
	if err != nil {
		return err
	}
	for i, item := range items {
		where, err := objectField(item, "where", fmt.Sprintf("patches[%d]", i))
		if err != nil {
			return err
		}
		set, err := objectField(item, "set", fmt.Sprintf("patches[%d]", i))
		if err != nil {
			return err
		}
		t.Patches = append(t.Patches, reconcile.Patch{Where: where, Set: set, Note: item.String("note")})
	}
	return nil
}

func (t *Table) parseRemovals(root *records.Object) error {
	items, err := objectList(root, "removals")
	if err != nil {
		return err
	}
	for i, item := range items {
		where, err := objectField(item, "where", fmt.Sprintf("removals[%d]", i))
		if err != nil {
			return err
		}
		t.Removals = append(t.Removals, reconcile.Removal{Where: where, Reason: item.String("reason")})
	}
	return nil
}

// Validate checks the table's required fields.
func (t *Table) Validate() error {
	if t.Document == "" {
		return errors.NewValidationError("document", t.Document, "is required")
	}
	if len(t.Key) == 0 {
		return errors.NewValidationError("key", t.Key, "must name at least one field")
	}
	for i, k := range t.Key {
		if k == "" {
			return errors.NewValidationError(fmt.Sprintf("key[%d]", i), k, "must not be empty")
		}
	}
	for i, p := range t.Patches {
		if p.Where.Len() == 0 {
			return errors.NewValidationError(fmt.Sprintf("patches[%d].where", i), nil, "must not be empty")
		}
		if p.Set.Len() == 0 {
			return errors.NewValidationError(fmt.Sprintf("patches[%d].set", i), nil, "must not be empty")
		}
	}
	for i, r := range t.Removals {
		if r.Where.Len() == 0 {
			return errors.NewValidationError(fmt.Sprintf("removals[%d].where", i), nil, "must not be empty")
		}
	}
	return nil
}

// KeyFunc returns the identifier function described by Key and Separator.
func (t *Table) KeyFunc() records.KeyFunc {
	return records.FieldKey(t.Separator, t.Key...)
}

// DocumentPath resolves Document. Absolute paths are returned as is;
// relative ones are joined to baseDir, or to the table's directory when
// baseDir is empty.
func (t *Table) DocumentPath(baseDir string) string {
	if filepath.IsAbs(t.Document) {
		return t.Document
	}
	if baseDir == "" && t.Path != "" {
		baseDir = filepath.Dir(t.Path)
	}
	return filepath.Join(baseDir, t.Document)
}

func stringList(obj *records.Object, field string) ([]string, error) {
	raw, ok := obj.Get(field)
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, errors.NewValidationError(fmt.Sprintf("%s[%d]", field, i), e, "must be a string")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.NewValidationError(field, raw, "must be a string or a list of strings")
	}
}

func objectList(obj *records.Object, field string) ([]*records.Object, error) {
	raw, ok := obj.Get(field)
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.NewValidationError(field, raw, "must be a list")
	}
	out := make([]*records.Object, 0, len(list))
	for i, e := range list {
		o, ok := e.(*records.Object)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("%s[%d]", field, i), e, "must be a mapping")
		}
		out = append(out, o)
	}
	return out, nil
}

func objectField(obj *records.Object, field, parent string) (*records.Object, error) {
	raw, _ := obj.Get(field)
	o, ok := raw.(*records.Object)
	if !ok {
		return nil, errors.NewValidationError(parent+"."+field, raw, "must be a mapping")
	}
	return o, nil
}
