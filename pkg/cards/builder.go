package cards

import (
	"sort"

	"github.com/agentstation/utc"

	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/records"
)

// Builder assembles a database in the order cards are added. It replaces
// lists accumulated in shared variables: each Build returns an independent
// snapshot.
type Builder struct {
	valuations Valuations
	cards      []Card
	keys       map[string]bool
	version    string
	sources    []string
	notes      []string
	now        func() utc.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithValuations adds to or replaces entries of the default valuations.
func WithValuations(v Valuations) BuilderOption {
	return func(b *Builder) {
		b.valuations = b.valuations.Merge(v)
	}
}

// WithVersion sets the database version.
func WithVersion(version string) BuilderOption {
	return func(b *Builder) {
		b.version = version
	}
}

// WithSources sets the metadata sources list.
func WithSources(sources ...string) BuilderOption {
	return func(b *Builder) {
		b.sources = append([]string(nil), sources...)
	}
}

// WithNotes sets the metadata notes list.
func WithNotes(notes ...string) BuilderOption {
	return func(b *Builder) {
		b.notes = append([]string(nil), notes...)
	}
}

// WithClock sets the source of the generation timestamp.
func WithClock(now func() utc.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		valuations: DefaultValuations(),
		keys:       make(map[string]bool),
		version:    "1.0",
		now:        utc.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromSeed creates a builder configured by the seed and adds its cards.
func FromSeed(seed *Seed, opts ...BuilderOption) (*Builder, error) {
	base := []BuilderOption{
		WithValuations(seed.Valuations),
		WithSources(seed.Sources...),
		WithNotes(seed.Notes...),
	}
	if seed.Version != "" {
		base = append(base, WithVersion(seed.Version))
	}
	b := NewBuilder(append(base, opts...)...)
	if err := b.Add(seed.Cards...); err != nil {
		return nil, err
	}
	return b, nil
}

// Add builds and appends cards. Two cards with the same key are rejected.
// On error no card from this call is kept.
func (b *Builder) Add(specs ...Spec) error {
	built := make([]Card, 0, len(specs))
	pending := make(map[string]bool)
	var dups []string
	for _, spec := range specs {
		c, err := New(spec, b.valuations)
		if err != nil {
			return err
		}
		key := c.Key()
		if b.keys[key] || pending[key] {
			dups = append(dups, key)
			continue
		}
		pending[key] = true
		built = append(built, c)
	}
	if len(dups) > 0 {
		return errors.NewDuplicateIdentifierError("cards", dups)
	}
	for k := range pending {
		b.keys[k] = true
	}
	b.cards = append(b.cards, built...)
	return nil
}

// Len returns the number of cards added.
func (b *Builder) Len() int { return len(b.cards) }

// Build returns the database as it stands.
func (b *Builder) Build() *Database {
	cards := make([]Card, len(b.cards))
	copy(cards, b.cards)

	meta := Metadata{
		Generated:  b.now(),
		Version:    b.version,
		TotalCards: len(cards),
		ByCountry:  make(map[string]int),
		Sources:    append([]string(nil), b.sources...),
		Notes:      append([]string(nil), b.notes...),
	}
	seenType := make(map[string]bool)
	seenCategory := make(map[string]bool)
	for _, c := range cards {
		meta.ByCountry[c.Country]++
		if !seenType[c.CardType] {
			seenType[c.CardType] = true
			meta.CardTypes = append(meta.CardTypes, c.CardType)
		}
		if !seenCategory[c.Category] {
			seenCategory[c.Category] = true
			meta.Categories = append(meta.Categories, c.Category)
		}
	}
	for country := range meta.ByCountry {
		meta.Countries = append(meta.Countries, country)
	}
	sort.Strings(meta.Countries)

	return &Database{Metadata: meta, Cards: cards}
}

// Metadata describes a database.
type Metadata struct {
	Generated  utc.Time       `json:"generated" yaml:"generated"`
	Version    string         `json:"version" yaml:"version"`
	TotalCards int            `json:"total_cards" yaml:"total_cards"`
	ByCountry  map[string]int `json:"by_country" yaml:"by_country"`
	Countries  []string       `json:"countries" yaml:"countries"`
	CardTypes  []string       `json:"card_types" yaml:"card_types"` // In first-seen order
	Categories []string       `json:"categories" yaml:"categories"` // In first-seen order
	Sources    []string       `json:"sources,omitempty" yaml:"sources,omitempty"`
	Notes      []string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Database is a built card list with its metadata.
type Database struct {
	Metadata Metadata
	Cards    []Card
}

// Document renders the database as a JSON document with "metadata" then
// "cards".
func (d *Database) Document() *records.Document {
	meta := records.NewObject()
	meta.Set("generated", d.Metadata.Generated.Format("2006-01-02T15:04:05.000000Z"))
	meta.Set("version", d.Metadata.Version)
	meta.Set("total_cards", d.Metadata.TotalCards)
	meta.Set("canadian_cards", d.Metadata.ByCountry[CountryCA])
	meta.Set("us_cards", d.Metadata.ByCountry[CountryUS])
	meta.Set("countries", stringList(d.Metadata.Countries))
	meta.Set("card_types", stringList(d.Metadata.CardTypes))
	meta.Set("categories", stringList(d.Metadata.Categories))
	if len(d.Metadata.Sources) > 0 {
		meta.Set("sources", stringList(d.Metadata.Sources))
	}
	if len(d.Metadata.Notes) > 0 {
		meta.Set("notes", stringList(d.Metadata.Notes))
	}

	items := make([]any, len(d.Cards))
	for i, c := range d.Cards {
		items[i] = c.Record()
	}

	root := records.NewObject()
	root.Set("metadata", meta)
	root.Set("cards", items)
	doc, err := records.DocumentFromRoot(root, "cards")
	if err != nil {
		panic("programming error: database document: " + err.Error())
	}
	return doc
}

// CountBy counts cards by the value fn returns.
func (d *Database) CountBy(fn func(Card) string) map[string]int {
	out := make(map[string]int)
	for _, c := range d.Cards {
		out[fn(c)]++
	}
	return out
}

func stringList(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
