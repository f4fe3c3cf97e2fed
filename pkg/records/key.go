package records

import (
	"encoding/json"
	"strings"

	"github.com/agentstation/cardmap/pkg/constants"
)

// KeyFunc derives the identifier of a record. It reports false when the
// record has no identifier, for example because a key field is missing.
type KeyFunc func(*Object) (string, bool)

// FieldKey returns a KeyFunc joining the given fields with sep. A record
// missing any of the fields, or holding null in one, has no identifier.
// An empty sep selects "|"; no fields selects "id".
func FieldKey(sep string, fields ...string) KeyFunc {
	if sep == "" {
		sep = constants.DefaultKeySeparator
	}
	if len(fields) == 0 {
		fields = []string{constants.DefaultKeyField}
	}
	fields = append([]string(nil), fields...)

	return func(rec *Object) (string, bool) {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			v, ok := rec.Get(f)
			if !ok || v == nil {
				return "", false
			}
			parts = append(parts, keyPart(v))
		}
		return strings.Join(parts, sep), true
	}
}

// JoinKey builds the identifier FieldKey would produce for the given
// field values.
func JoinKey(sep string, parts ...string) string {
	if sep == "" {
		sep = constants.DefaultKeySeparator
	}
	return strings.Join(parts, sep)
}

func keyPart(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return Inline(v)
	}
}
