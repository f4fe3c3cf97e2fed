package records

import (
	"github.com/agentstation/cardmap/pkg/errors"
)

// Collection is an ordered set of records indexed by identifier.
// Identifiers are unique; records without an identifier are kept in order
// but cannot be looked up.
type Collection struct {
	name    string
	key     KeyFunc
	records []*Object
	ids     []string
	keyed   []bool
	index   map[string]int
}

// NewCollection indexes recs with key. It fails with a
// DuplicateIdentifierError naming every identifier that occurs more than
// once, in first-occurrence order.
func NewCollection(name string, recs []*Object, key KeyFunc) (*Collection, error) {
	if key == nil {
		key = FieldKey("")
	}

	c := &Collection{
		name:    name,
		key:     key,
		records: make([]*Object, len(recs)),
		ids:     make([]string, len(recs)),
		keyed:   make([]bool, len(recs)),
		index:   make(map[string]int, len(recs)),
	}
	copy(c.records, recs)

	var dups []string
	seen := make(map[string]int)
	for i, rec := range recs {
		id, ok := key(rec)
		if !ok {
			continue
		}
		c.ids[i], c.keyed[i] = id, true
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
		if _, exists := c.index[id]; !exists {
			c.index[id] = i
		}
	}
	if len(dups) > 0 {
		return nil, errors.NewDuplicateIdentifierError(name, dups)
	}
	return c, nil
}

// Name returns the collection's name, usually the document path.
func (c *Collection) Name() string { return c.name }

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// Key returns the key function.
func (c *Collection) Key() KeyFunc { return c.key }

// Records returns the records in order. The slice is a copy.
func (c *Collection) Records() []*Object {
	out := make([]*Object, len(c.records))
	copy(out, c.records)
	return out
}

// At returns the i-th record with its identifier.
func (c *Collection) At(i int) (*Object, string, bool) {
	return c.records[i], c.ids[i], c.keyed[i]
}

// Get looks a record up by identifier.
func (c *Collection) Get(id string) (*Object, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.records[i], true
}

// Has reports whether a record with the identifier exists.
func (c *Collection) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// IDs returns the identifiers of keyed records in order.
func (c *Collection) IDs() []string {
	out := make([]string, 0, len(c.index))
	for i, id := range c.ids {
		if c.keyed[i] {
			out = append(out, id)
		}
	}
	return out
}
