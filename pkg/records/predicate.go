package records

// Predicate selects records.
type Predicate func(*Object) bool

// Where matches records in which every field of conds is present and
// equal to the given value. Empty conds match everything.
func Where(conds *Object) Predicate {
	conds = conds.Clone()
	return func(rec *Object) bool {
		match := true
		conds.Range(func(field string, want any) bool {
			got, ok := rec.Get(field)
			match = ok && Equal(got, want)
			return match
		})
		return match
	}
}

// And matches records that every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(rec *Object) bool {
		for _, p := range preds {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(rec *Object) bool { return !p(rec) }
}
