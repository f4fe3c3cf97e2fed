package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithIgnoredFields sets fields to ignore during comparison
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithDeepComparison enables/disables comparison of nested values. When
// disabled, a nested object or list is reported as changed only if its
// compact JSON form differs.
func WithDeepComparison(enabled bool) Option {
	return func(d *differ) {
		d.deepComparison = enabled
	}
}
