package reconcile

import (
	"fmt"

	"github.com/agentstation/cardmap/pkg/records"
)

// Overrides maps record identifiers to partial field mappings, in
// declaration order.
type Overrides struct {
	ids    []string
	fields map[string]*records.Object
}

// NewOverrides creates an empty override set.
func NewOverrides() *Overrides {
	return &Overrides{fields: make(map[string]*records.Object)}
}

// OverridesFrom builds an override set from an object whose values are
// objects, e.g. {"card-x": {"annualFee": 120}}.
func OverridesFrom(obj *records.Object) (*Overrides, error) {
	o := NewOverrides()
	var err error
	obj.Range(func(id string, v any) bool {
		fields, ok := v.(*records.Object)
		if !ok {
			err = fmt.Errorf("override %q: fields must be a mapping", id)
			return false
		}
		o.Set(id, fields)
		return true
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Set declares the fields for an identifier. Declaring the same
// identifier again replaces its fields but keeps its position.
func (o *Overrides) Set(id string, fields *records.Object) {
	if o.fields == nil {
		o.fields = make(map[string]*records.Object)
	}
	if _, ok := o.fields[id]; !ok {
		o.ids = append(o.ids, id)
	}
	if fields == nil {
		fields = records.NewObject()
	}
	o.fields[id] = fields
}

// Get returns the fields declared for an identifier.
func (o *Overrides) Get(id string) (*records.Object, bool) {
	if o == nil {
		return nil, false
	}
	f, ok := o.fields[id]
	return f, ok
}

// IDs returns the identifiers in declaration order.
func (o *Overrides) IDs() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.ids...)
}

// Len returns the number of identifiers.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.ids)
}

// Patch applies Set to every record matching Where. Note is attached to
// each resulting change.
type Patch struct {
	Where *records.Object
	Set   *records.Object
	Note  string
}

// Removal deletes every record matching Where.
type Removal struct {
	Where  *records.Object
	Reason string
}
