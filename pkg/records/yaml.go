package records

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/cardmap/pkg/constants"
)

// FromYAML converts a value decoded by go-yaml into the record model.
// Ordered maps (yaml.MapSlice) keep their key order; plain maps are
// sorted by key. NaN and infinities have no JSON form and are rejected.
func FromYAML(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, json.Number:
		return t, nil
	case yaml.MapSlice:
		obj := NewObject()
		for _, item := range t {
			val, err := FromYAML(item.Value)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", item.Key, err)
			}
			obj.Set(fmt.Sprint(item.Key), val)
		}
		return obj, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			val, err := FromYAML(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, val)
		}
		return obj, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return FromYAML(m)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			val, err := FromYAML(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = val
		}
		return out, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("number %v cannot be represented in JSON", t)
		}
		return floatNumber(t, 64), nil
	case float32:
		return FromYAML(float64(t))
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(constants.DateFormat), nil
		}
		return t.Format(time.RFC3339Nano), nil
	}
	if n, ok := Number(v); ok {
		return n, nil
	}
	return nil, fmt.Errorf("unsupported YAML value of type %T", v)
}

// ObjectFromYAML is FromYAML for values that must be mappings.
func ObjectFromYAML(v any) (*Object, error) {
	if v == nil {
		return NewObject(), nil
	}
	val, err := FromYAML(v)
	if err != nil {
		return nil, err
	}
	obj, ok := val.(*Object)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %s", kindOf(val))
	}
	return obj, nil
}

// MarshalYAML renders the object as an ordered YAML mapping.
func (o *Object) MarshalYAML() (any, error) {
	return ToYAML(o), nil
}

// ToYAML converts a model value into types go-yaml encodes faithfully:
// objects become ordered maps and numbers become int64 or float64.
func ToYAML(v any) any {
	switch t := v.(type) {
	case *Object:
		ms := make(yaml.MapSlice, 0, t.Len())
		t.Range(func(k string, val any) bool {
			ms = append(ms, yaml.MapItem{Key: k, Value: ToYAML(val)})
			return true
		})
		return ms
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToYAML(e)
		}
		return out
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(t.String(), 64); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
