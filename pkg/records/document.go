package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/errors"
)

// Document is a persisted JSON object whose collection field holds the
// record array. Every other root field is carried through untouched.
type Document struct {
	path       string
	root       *Object
	collection string
	records    []*Object
	newline    bool
}

// ParseDocument parses data as a document whose records live under the
// collection field. An empty collection name selects "cards".
func ParseDocument(data []byte, collection string) (*Document, error) {
	return parseDocument("", data, collection)
}

// LoadDocument reads and parses the document at path.
func LoadDocument(path, collection string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return parseDocument(path, data, collection)
}

func parseDocument(path string, data []byte, collection string) (*Document, error) {
	if collection == "" {
		collection = constants.DefaultCollectionField
	}

	v, err := DecodeBytes(data)
	if err != nil {
		perr := errors.NewParseError("json", path, err.Error(), err)
		var syntaxErr *json.SyntaxError
		var offErr *offsetError
		switch {
		case errors.As(err, &syntaxErr):
			perr.Line, perr.Column = position(data, syntaxErr.Offset)
		case errors.As(err, &offErr):
			perr.Line, perr.Column = position(data, offErr.offset)
		}
		return nil, perr
	}

	root, ok := v.(*Object)
	if !ok {
		return nil, errors.NewParseError("json", path, fmt.Sprintf("top-level value is %s, want object", kindOf(v)), nil)
	}

	d, err := documentFromRoot(path, root, collection)
	if err != nil {
		return nil, err
	}
	d.newline = bytes.HasSuffix(bytes.TrimRight(data, " \t\r"), []byte("\n"))
	return d, nil
}

// DocumentFromRoot wraps an existing root object. The collection field must
// hold an array of objects. The document is encoded with a trailing newline.
func DocumentFromRoot(root *Object, collection string) (*Document, error) {
	if collection == "" {
		collection = constants.DefaultCollectionField
	}
	d, err := documentFromRoot("", root, collection)
	if err != nil {
		return nil, err
	}
	d.newline = true
	return d, nil
}

func documentFromRoot(path string, root *Object, collection string) (*Document, error) {
	raw, ok := root.Get(collection)
	if !ok {
		return nil, errors.NewNotFoundError("collection", collection)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.NewParseError("json", path, fmt.Sprintf("collection %q is %s, want array", collection, kindOf(raw)), nil)
	}

	recs := make([]*Object, 0, len(items))
	for i, item := range items {
		rec, ok := item.(*Object)
		if !ok {
			return nil, errors.NewParseError("json", path, fmt.Sprintf("%s[%d] is %s, want object", collection, i, kindOf(item)), nil)
		}
		recs = append(recs, rec)
	}

	return &Document{
		path:       path,
		root:       root,
		collection: collection,
		records:    recs,
	}, nil
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string { return d.path }

// Collection returns the name of the record array field.
func (d *Document) Collection() string { return d.collection }

// Root returns the root object. The collection field is refreshed on encode.
func (d *Document) Root() *Object { return d.root }

// Records returns the records in document order. The slice is a copy; the
// records themselves are shared with the document.
func (d *Document) Records() []*Object {
	out := make([]*Object, len(d.records))
	copy(out, d.records)
	return out
}

// Len returns the number of records.
func (d *Document) Len() int { return len(d.records) }

// SetRecords replaces the record array.
func (d *Document) SetRecords(recs []*Object) {
	d.records = make([]*Object, len(recs))
	copy(d.records, recs)
	d.syncRoot()
}

func (d *Document) syncRoot() {
	items := make([]any, len(d.records))
	for i, r := range d.records {
		items[i] = r
	}
	d.root.Set(d.collection, items)
}

// Bytes encodes the document with two-space indentation. A trailing newline
// is written only if the source had one.
func (d *Document) Bytes() ([]byte, error) {
	d.syncRoot()
	data, err := Marshal(d.root, constants.DefaultIndent)
	if err != nil {
		return nil, err
	}
	if d.newline {
		data = append(data, '\n')
	}
	return data, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
