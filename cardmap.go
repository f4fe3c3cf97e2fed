// Package cardmap keeps a credit-card reference dataset in line with
// verified data.
//
// A Verifier takes override tables (see package overrides), loads the JSON
// document each one targets, removes known duplicates, merges the verified
// field values, stamps every touched card with the verification date and
// writes the documents back. Nothing is written unless every table
// succeeds.
//
//	v, err := cardmap.NewVerifier(cardmap.WithDate("2026-02-14"))
//	if err != nil {
//		return err
//	}
//	report, err := v.VerifyFiles(ctx, "overrides/extended.yaml", "overrides/full.yaml")
//	if err != nil {
//		return err
//	}
//	report.WriteText(os.Stdout)
package cardmap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/logging"
	"github.com/agentstation/cardmap/pkg/overrides"
	"github.com/agentstation/cardmap/pkg/reconcile"
	"github.com/agentstation/cardmap/pkg/records"
	"github.com/agentstation/cardmap/pkg/save"
)

// Verifier applies override tables to their documents.
type Verifier struct {
	date    string
	dryRun  bool
	baseDir string
	logger  *zerolog.Logger
}

// Option is a function that configures a Verifier
type Option func(*Verifier) error

// NewVerifier creates a Verifier. The verification date defaults to today
// in UTC.
func NewVerifier(opts ...Option) (*Verifier, error) {
	v := &Verifier{
		date: utc.Now().Format(constants.DateFormat),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// WithDate sets the verification date, formatted YYYY-MM-DD. An empty
// string keeps the default.
func WithDate(date string) Option {
	return func(v *Verifier) error {
		if date == "" {
			return nil
		}
		t, err := utc.Parse(constants.DateFormat, date)
		if err != nil {
			return errors.NewValidationError("date", date, "must be formatted YYYY-MM-DD")
		}
		v.date = t.Format(constants.DateFormat)
		return nil
	}
}

// WithDryRun computes the report without writing any document.
func WithDryRun(enabled bool) Option {
	return func(v *Verifier) error {
		v.dryRun = enabled
		return nil
	}
}

// WithBaseDir resolves relative document paths against dir instead of the
// directory of each table.
func WithBaseDir(dir string) Option {
	return func(v *Verifier) error {
		v.baseDir = dir
		return nil
	}
}

// WithLogger sets the logger. By default the context's logger is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(v *Verifier) error {
		v.logger = logger
		return nil
	}
}

// Date returns the verification date.
func (v *Verifier) Date() string { return v.date }

// VerifyFiles loads the tables at paths and verifies them.
func (v *Verifier) VerifyFiles(ctx context.Context, paths ...string) (*Report, error) {
	tables := make([]*overrides.Table, 0, len(paths))
	for _, p := range paths {
		t, err := overrides.Load(p)
		if err != nil {
			return nil, fmt.Errorf("loading override table %s: %w", p, err)
		}
		tables = append(tables, t)
	}
	return v.Verify(ctx, tables...)
}

// target is one document shared by every table that points at it.
type target struct {
	path string
	doc  *records.Document
}

// Verify applies every table, then writes the changed documents. A failure
// in any table, or in writing any document to its temporary file, aborts
// before a document is replaced. Only a failed rename, after every document
// is staged, can leave earlier documents replaced. Tables that target the
// same document see each other's changes in order.
func (v *Verifier) Verify(ctx context.Context, tables ...*overrides.Table) (*Report, error) {
	log := v.logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	ctx = logging.WithLogger(ctx, log)

	report := &Report{Date: v.date, DryRun: v.dryRun}
	var targets []*target
	byPath := make(map[string]*target)

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Clean(table.DocumentPath(v.baseDir))
		tgt, ok := byPath[path]
		if !ok {
			doc, err := records.LoadDocument(path, table.Collection)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", table.Name, err)
			}
			tgt = &target{path: path, doc: doc}
			byPath[path] = tgt
			targets = append(targets, tgt)
		} else if tgt.doc.Collection() != table.Collection {
			return nil, errors.NewValidationError("collection", table.Collection,
				fmt.Sprintf("table %s: %s is already loaded with collection %q", table.Name, path, tgt.doc.Collection()))
		}

		dr, err := v.apply(logging.WithDocument(logging.WithTable(ctx, table.Name), path), table, tgt.doc)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		dr.Path = path
		report.Documents = append(report.Documents, *dr)
	}

	// Encode everything before the first write.
	encoded := make([][]byte, len(targets))
	for i, tgt := range targets {
		data, err := tgt.doc.Bytes()
		if err != nil {
			return nil, errors.WrapIO("encode", tgt.path, err)
		}
		encoded[i] = data
	}

	if v.dryRun {
		log.Info().Int("documents", len(targets)).Msg("dry run, no documents written")
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Stage every document before renaming any into place.
	staged := make([]*save.Staged, 0, len(targets))
	for i, tgt := range targets {
		st, err := save.Stage(tgt.path, encoded[i], constants.FilePermissions)
		if err != nil {
			for _, s := range staged {
				s.Discard()
			}
			return nil, err
		}
		staged = append(staged, st)
	}
	for i, st := range staged {
		if err := st.Commit(); err != nil {
			for _, rest := range staged[i+1:] {
				rest.Discard()
			}
			return report, err
		}
		log.Info().Str("document", st.Path()).Msg("document written")
	}
	return report, nil
}

// apply runs removals, the uniqueness check, overrides and patches.
func (v *Verifier) apply(ctx context.Context, table *overrides.Table, doc *records.Document) (*DocumentReport, error) {
	log := logging.FromContext(ctx)
	key := table.KeyFunc()
	result := &reconcile.Result{}

	recs := doc.Records()
	for _, rm := range table.Removals {
		kept, removed := reconcile.Remove(recs, records.Where(rm.Where))
		for _, rec := range removed {
			id, _ := key(rec)
			label := id
			if table.Label != "" && rec.String(table.Label) != "" {
				label = rec.String(table.Label)
			}
			result.Removed = append(result.Removed, reconcile.Removed{ID: id, Label: label, Reason: rm.Reason, Record: rec})
			log.Info().Str("record", id).Str("reason", rm.Reason).Msg("record removed")
		}
		recs = kept
	}
	doc.SetRecords(recs)

	coll, err := records.NewCollection(doc.Path(), recs, key)
	if err != nil {
		return nil, err
	}

	stampField := table.StampField
	if stampField == "" {
		stampField = constants.DefaultStampField
	}
	r, err := reconcile.New(
		reconcile.WithStamp(v.date),
		reconcile.WithStampField(stampField),
		reconcile.WithLabelField(table.Label),
		reconcile.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	merged, err := r.Reconcile(ctx, coll, table.Overrides)
	if err != nil {
		return nil, err
	}
	result.Merge(merged)

	patched, err := r.Patch(ctx, coll, table.Patches...)
	if err != nil {
		return nil, err
	}
	result.Merge(patched)

	log.Info().
		Int("records", coll.Len()).
		Int("touched", len(result.Touched)).
		Int("changes", len(result.Changes)).
		Int("removed", len(result.Removed)).
		Msg("table applied")

	return &DocumentReport{
		Table:   table.Name,
		Records: coll.Len(),
		Result:  result,
	}, nil
}
