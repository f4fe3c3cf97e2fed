// Package records provides the schema-less record model used by cardmap.
//
// A record is an insertion-ordered JSON object. Values are one of:
//
//	*Object      nested mapping, key order preserved
//	[]any        list
//	json.Number  number, original literal preserved
//	string, bool, nil
//
// Keeping the literal form of numbers and the order of keys means a document
// that is loaded and written back without changes is byte-for-byte identical.
package records

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
)

// Object is an insertion-ordered mapping of field name to value.
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an object from alternating key/value arguments.
// It panics on an odd argument count or a non-string key; it exists for
// literals in code and tests.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("records.ObjectOf: odd number of arguments")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("records.ObjectOf: key is not a string")
		}
		if _, ok := kv[i+1].(map[string]any); ok {
			panic("records.ObjectOf: use *Object for nested mappings to keep key order")
		}
		o.Set(key, kv[i+1])
	}
	return o
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Has reports whether the field is present, even if its value is null.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Get returns the value of a field and whether it was present.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set assigns a field. New fields are appended; existing fields keep
// their position. Go numbers are stored as json.Number.
func (o *Object) Set(key string, value any) {
	value = normalize(value)
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes a field and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if !o.Has(key) {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the field names in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Range calls fn for each field in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// String returns the field as a string when it holds one.
func (o *Object) String(key string) string {
	v, _ := o.Get(key)
	s, _ := v.(string)
	return s
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.values {
		c.values[k] = Clone(v)
	}
	return c
}

// Clone returns a deep copy of a value. Scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two values are equal by value. Numbers compare
// numerically so 0 equals 0.0, objects compare regardless of key order and
// lists compare element-wise.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ra, ok := numberOf(a); ok {
		rb, ok := numberOf(b)
		return ok && ra.Cmp(rb) == 0
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Range(func(k string, xv any) bool {
			yv, present := y.Get(k)
			equal = present && Equal(xv, yv)
			return equal
		})
		return equal
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// numberOf converts any numeric representation to an exact rational.
func numberOf(v any) (*big.Rat, bool) {
	var lit string
	switch n := v.(type) {
	case json.Number:
		lit = n.String()
	case float64:
		lit = strconv.FormatFloat(n, 'g', -1, 64)
	case float32:
		lit = strconv.FormatFloat(float64(n), 'g', -1, 32)
	case int:
		lit = strconv.FormatInt(int64(n), 10)
	case int64:
		lit = strconv.FormatInt(n, 10)
	case int32:
		lit = strconv.FormatInt(int64(n), 10)
	case uint64:
		lit = strconv.FormatUint(n, 10)
	case uint32:
		lit = strconv.FormatUint(uint64(n), 10)
	case uint:
		lit = strconv.FormatUint(uint64(n), 10)
	default:
		return nil, false
	}
	r, ok := new(big.Rat).SetString(lit)
	return r, ok
}

// Number converts a Go number to its json.Number form. Integral floats keep
// a trailing ".0" so they stay floats when written back.
func Number(v any) (json.Number, bool) {
	switch n := v.(type) {
	case json.Number:
		return n, true
	case float64:
		return floatNumber(n, 64), true
	case float32:
		return floatNumber(float64(n), 32), true
	case int:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), true
	case int32:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case uint64:
		return json.Number(strconv.FormatUint(n, 10)), true
	case uint32:
		return json.Number(strconv.FormatUint(uint64(n), 10)), true
	case uint:
		return json.Number(strconv.FormatUint(uint64(n), 10)), true
	}
	return "", false
}

func floatNumber(f float64, bits int) json.Number {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if f == float64(int64(f)) && len(s) < 16 {
		s += ".0"
	}
	return json.Number(s)
}

// normalize converts Go numbers, including those inside lists, into
// json.Number.
func normalize(v any) any {
	if n, ok := Number(v); ok {
		return n
	}
	if list, ok := v.([]any); ok && list != nil {
		out := make([]any, len(list))
		for i, e := range list {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
