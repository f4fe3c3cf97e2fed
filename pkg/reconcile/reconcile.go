// Package reconcile merges tables of verified field overrides into record
// collections, logging every field whose value changes and stamping each
// touched record with a verification value.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/logging"
	"github.com/agentstation/cardmap/pkg/records"
)

// Reconciler applies overrides and patches to a collection in place.
type Reconciler interface {
	// Reconcile merges overrides into the matching records.
	Reconcile(ctx context.Context, c *records.Collection, overrides *Overrides) (*Result, error)

	// Patch applies conditional patches in declaration order.
	Patch(ctx context.Context, c *records.Collection, patches ...Patch) (*Result, error)
}

// reconciler is the default implementation of Reconciler
type reconciler struct {
	stampField string
	stamp      any
	labelField string
	logger     *zerolog.Logger
}

// Option configures a Reconciler
type Option func(*reconciler) error

// New creates a new Reconciler with options
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{
		stampField: constants.DefaultStampField,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Apply merges overrides into c, stamping touched records under the
// default stamp field. It is Reconcile without options or context. A nil
// stamp disables stamping, as for a Reconciler built without WithStamp.
func Apply(c *records.Collection, overrides *Overrides, stamp any) *Result {
	r := &reconciler{stampField: constants.DefaultStampField, stamp: stamp, logger: logging.NewNopLogger()}
	return r.apply(c, overrides, r.logger)
}

// Reconcile merges overrides into the matching records of c.
func (r *reconciler) Reconcile(ctx context.Context, c *records.Collection, overrides *Overrides) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.apply(c, overrides, r.log(ctx)), nil
}

func (r *reconciler) apply(c *records.Collection, overrides *Overrides, log *zerolog.Logger) *Result {
	result := &Result{}
	matched := make(map[string]bool, overrides.Len())

	for i := 0; i < c.Len(); i++ {
		rec, id, keyed := c.At(i)
		if !keyed {
			continue
		}
		fields, ok := overrides.Get(id)
		if !ok {
			continue
		}
		matched[id] = true

		label := r.label(rec, id)
		result.Changes = append(result.Changes, r.set(rec, id, label, fields, "", log)...)
		r.stampRecord(rec)
		result.Touched = append(result.Touched, Touched{Index: i, ID: id, Label: label})
	}

	for _, id := range overrides.IDs() {
		if !matched[id] {
			result.Unmatched = append(result.Unmatched, id)
			log.Warn().Str("record", id).Msg("override matched no record")
		}
	}

	log.Debug().
		Int("touched", len(result.Touched)).
		Int("changes", len(result.Changes)).
		Msg("overrides applied")

	return result
}

// Patch applies each patch to every record its Where matches.
func (r *reconciler) Patch(ctx context.Context, c *records.Collection, patches ...Patch) (*Result, error) {
	result := &Result{}
	log := r.log(ctx)

	for _, p := range patches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		where := records.Where(p.Where)
		hits := 0
		for i := 0; i < c.Len(); i++ {
			rec, id, _ := c.At(i)
			if !where(rec) {
				continue
			}
			hits++
			label := r.label(rec, id)
			result.Changes = append(result.Changes, r.set(rec, id, label, p.Set, p.Note, log)...)
			r.stampRecord(rec)
			result.Merge(&Result{Touched: []Touched{{Index: i, ID: id, Label: label}}})
		}
		if hits == 0 {
			log.Debug().Str("where", records.Inline(p.Where)).Msg("patch matched no record")
		}
	}

	return result, nil
}

// set assigns every field unconditionally and returns the ones that changed.
func (r *reconciler) set(rec *records.Object, id, label string, fields *records.Object, note string, log *zerolog.Logger) []Change {
	var changes []Change
	fields.Range(func(field string, want any) bool {
		old, present := rec.Get(field)
		// A missing field reads as null.
		if !records.Equal(old, want) {
			c := Change{ID: id, Label: label, Field: field, Old: old, New: records.Clone(want), Added: !present, Note: note}
			changes = append(changes, c)
			logging.FieldChanged(log, id, field, FormatValue(old), FormatValue(want))
		}
		rec.Set(field, records.Clone(want))
		return true
	})
	return changes
}

func (r *reconciler) stampRecord(rec *records.Object) {
	if r.stamp == nil || r.stampField == "" {
		return
	}
	rec.Set(r.stampField, records.Clone(r.stamp))
}

func (r *reconciler) label(rec *records.Object, id string) string {
	if r.labelField != "" {
		if s := rec.String(r.labelField); s != "" {
			return s
		}
	}
	return id
}

func (r *reconciler) log(ctx context.Context) *zerolog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.FromContext(ctx)
}

// Remove splits recs into those the predicate keeps and those it removes.
// Relative order is preserved in both.
func Remove(recs []*records.Object, pred records.Predicate) (kept, removed []*records.Object) {
	kept = make([]*records.Object, 0, len(recs))
	for _, rec := range recs {
		if pred(rec) {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	return kept, removed
}
