package cards_test

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/records"
)

func fixedClock() utc.Time {
	return utc.New(time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC))
}

func TestRewardCurrency(t *testing.T) {
	tests := map[string]string{
		"Aeroplan":                     cards.CurrencyAirlineMiles,
		"Capital One Miles":            cards.CurrencyAirlineMiles,
		"United MileagePlus":           cards.CurrencyAirlineMiles,
		"Marriott Bonvoy":              cards.CurrencyHotelPoints,
		"Hilton Honors":                cards.CurrencyHotelPoints,
		"Cashback":                     cards.CurrencyCashback,
		"Discover Cashback":            cards.CurrencyCashback,
		"Membership Rewards":           cards.CurrencyPoints,
		"World of Hyatt":               cards.CurrencyPoints,
		"American Airlines AAdvantage": cards.CurrencyPoints,
	}
	for program, want := range tests {
		t.Run(program, func(t *testing.T) {
			assert.Equal(t, want, cards.RewardCurrency(program))
		})
	}
}

func TestCardKey(t *testing.T) {
	assert.Equal(t, "american-express-cobalt-card", cards.CardKey("American Express Cobalt® Card"))
	assert.Equal(t, "chase-sapphire-preferred", cards.CardKey("Chase Sapphire Preferred™"))
	assert.Equal(t, "macys-card", cards.CardKey("Macy's Card"))
}

func TestValuations(t *testing.T) {
	v := cards.DefaultValuations()
	cents, ok := v.Lookup("aeroplan")
	require.True(t, ok)
	assert.Equal(t, 2.0, cents)

	v["Aeroplan"] = 9
	again, _ := cards.DefaultValuations().Lookup("Aeroplan")
	assert.Equal(t, 2.0, again, "defaults must not be shared")

	merged := v.Merge(cards.Valuations{"New": 1.5})
	_, ok = merged.Lookup("New")
	assert.True(t, ok)
	_, ok = v.Lookup("New")
	assert.False(t, ok)
}

func TestNewCard(t *testing.T) {
	c, err := cards.New(cards.Spec{
		Name:          "American Express Cobalt Card",
		Issuer:        "American Express",
		Country:       "CA",
		Currency:      "CAD",
		RewardProgram: "Membership Rewards",
		AnnualFee:     cards.Dollars(155.88),
		BaseRate:      1.0,
		EarningRates:  yaml.MapSlice{{Key: "dining", Value: 5.0}, {Key: "gas", Value: uint64(2)}},
	}, cards.DefaultValuations())
	require.NoError(t, err)

	assert.Equal(t, 2.1, c.PointValueCAD)
	assert.InDelta(t, 2.1/1.35, c.PointValueUSD, 1e-12)
	assert.Equal(t, 0.025, c.ForeignTransactionFee)
	assert.Equal(t, cards.TypePersonal, c.CardType)
	assert.Equal(t, "travel", c.Category)
	assert.Equal(t, cards.Rates{{"base", 1}, {"dining", 5}, {"gas", 2}}, c.EarningRates)
	assert.Equal(t, 1.0, c.EarningRates.Base())

	assert.Equal(t,
		`{"name": "American Express Cobalt Card", "issuer": "American Express", "country": "CA", "currency": "CAD", `+
			`"card_type": "personal", "category": "travel", "reward_program": "Membership Rewards", `+
			`"point_value_cad": 2.1, "point_value_usd": 1.5555555555555556, "annual_fee": 155.88, `+
			`"foreign_transaction_fee": 0.025, "earning_rates": {"base": 1.0, "dining": 5.0, "gas": 2.0}}`,
		records.Inline(c.Record()))
}

func TestNewCardUSD(t *testing.T) {
	fee := 0.0
	value := 2.0
	c, err := cards.New(cards.Spec{
		Name: "Card", Issuer: "Bank", Country: "US", Currency: "USD",
		RewardProgram: "Unknown Program", PointValue: &value, BaseRate: 1,
		ForeignTransactionFee: &fee,
		EarningRates:          yaml.MapSlice{{Key: "base", Value: 1.5}},
	}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.7, c.PointValueCAD, 1e-12)
	assert.Equal(t, 2.0, c.PointValueUSD)
	assert.Equal(t, 0.0, c.ForeignTransactionFee)
	assert.Equal(t, cards.Rates{{"base", 1.5}}, c.EarningRates)
}

func TestNewCardValidation(t *testing.T) {
	_, err := cards.New(cards.Spec{Name: "X", Issuer: "Y", Country: "CA", Currency: "EUR", RewardProgram: "Aeroplan"}, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = cards.New(cards.Spec{Name: "X", Issuer: "Y", Country: "CA", Currency: "CAD", RewardProgram: "Nope"}, cards.DefaultValuations())
	assert.True(t, errors.IsValidationError(err))
}

func TestSpecValidate(t *testing.T) {
	valid := cards.Spec{Name: "X", Issuer: "Y", Country: "CA", Currency: "CAD", RewardProgram: "Aeroplan", AnnualFee: cards.Amount{Value: 120, Whole: true}}
	require.NoError(t, valid.Validate())

	fee := 0.0
	valid.ForeignTransactionFee = &fee
	valid.CardType = cards.TypeBusiness
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(*cards.Spec)
		field string
		msg   string
	}{
		{"missing name", func(s *cards.Spec) { s.Name = "" }, "name", "is required"},
		{"missing issuer", func(s *cards.Spec) { s.Issuer = "" }, "issuer", "card X: is required"},
		{"bad currency", func(s *cards.Spec) { s.Currency = "EUR" }, "currency", "card X: must be one of CAD, USD"},
		{"negative fee", func(s *cards.Spec) { s.AnnualFee = cards.Dollars(-1) }, "annual_fee", "card X: must be at least 0"},
		{"bad card type", func(s *cards.Spec) { s.CardType = "corporate" }, "card_type", "card X: must be one of personal, business"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.edit(&s)
			err := s.Validate()
			var verr *errors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.msg, verr.Message)
		})
	}
}

func TestAmountKeepsForm(t *testing.T) {
	seed, err := cards.ParseSeed([]byte(`cards:
  - name: Whole Fee Card
    issuer: Bank
    country: CA
    currency: CAD
    reward_program: Aeroplan
    annual_fee: 120
    base_rate: 1.0
  - name: Float Fee Card
    issuer: Bank
    country: CA
    currency: CAD
    reward_program: Aeroplan
    annual_fee: 120.0
    base_rate: 1.0
`))
	require.NoError(t, err)
	require.Len(t, seed.Cards, 2)
	assert.Equal(t, cards.Amount{Value: 120, Whole: true}, seed.Cards[0].AnnualFee)
	assert.Equal(t, cards.Dollars(120), seed.Cards[1].AnnualFee)

	b, err := cards.FromSeed(seed)
	require.NoError(t, err)
	db := b.Build()
	whole, _ := db.Cards[0].Record().Get("annual_fee")
	assert.Equal(t, json.Number("120"), whole)
	withPoint, _ := db.Cards[1].Record().Get("annual_fee")
	assert.Equal(t, json.Number("120.0"), withPoint)

	var a cards.Amount
	require.NoError(t, json.Unmarshal([]byte("95"), &a))
	assert.Equal(t, "95", a.String())
	require.NoError(t, json.Unmarshal([]byte("95.0"), &a))
	assert.Equal(t, "95.0", a.String())
	require.NoError(t, json.Unmarshal([]byte("1e2"), &a))
	assert.Equal(t, "100.0", a.String())
	assert.Error(t, json.Unmarshal([]byte(`"free"`), &a))
}

func TestFromRecordRoundTrip(t *testing.T) {
	doc, err := records.ParseDocument([]byte(`{"cards": [{
  "name": "TD Aeroplan Visa Infinite",
  "issuer": "TD",
  "reward_program": "Aeroplan",
  "point_value_cad": 2.0,
  "annual_fee": 139,
  "earning_rates": {"base": 1.0, "travel": 1.5, "groceries": 1.5},
  "signup_bonus": {"points": 40000, "spend_requirement": 7500, "months": 6},
  "lastVerified": "2026-02-14"
}]}`), "")
	require.NoError(t, err)

	list, err := cards.FromRecords(doc.Records())
	require.NoError(t, err)
	require.Len(t, list, 1)
	c := list[0]
	assert.Equal(t, cards.Amount{Value: 139, Whole: true}, c.AnnualFee)
	assert.Equal(t, cards.Rates{{"base", 1}, {"travel", 1.5}, {"groceries", 1.5}}, c.EarningRates)
	require.NotNil(t, c.SignupBonus)
	assert.Equal(t, int64(40000), c.SignupBonus.Points)
	assert.Equal(t, 6, c.SignupBonus.Months)

	_, err = cards.FromRecord(records.ObjectOf("issuer", "TD"))
	assert.True(t, errors.IsValidationError(err))
	_, err = cards.FromRecord(records.ObjectOf("name", "X", "earning_rates", []any{1}))
	require.Error(t, err)
}

func TestBuilder(t *testing.T) {
	seed, err := cards.LoadSeed(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)

	b, err := cards.FromSeed(seed, cards.WithClock(fixedClock))
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())

	db := b.Build()
	assert.Equal(t, "1.2", db.Metadata.Version)
	assert.Equal(t, 4, db.Metadata.TotalCards)
	assert.Equal(t, []string{"CA", "US"}, db.Metadata.Countries)
	assert.Equal(t, []string{"personal", "business"}, db.Metadata.CardTypes)
	assert.Equal(t, []string{"travel", "cashback"}, db.Metadata.Categories)
	assert.Equal(t, map[string]int{"travel": 2, "cashback": 2}, db.CountBy(func(c cards.Card) string { return c.Category }))

	ink := db.Cards[3]
	assert.Equal(t, 1.1, ink.PointValueUSD)

	// Later additions do not change an earlier snapshot.
	require.NoError(t, b.Add(cards.Spec{Name: "Extra", Issuer: "X", Country: "CA", Currency: "CAD", RewardProgram: "Aeroplan"}))
	assert.Len(t, db.Cards, 4)
	assert.Len(t, b.Build().Cards, 5)

	doc := db.Document()
	assert.Equal(t, []string{"metadata", "cards"}, doc.Root().Keys())
	meta, _ := doc.Root().Get("metadata")
	generated, _ := meta.(*records.Object).Get("generated")
	assert.Equal(t, "2026-02-14T09:30:00.000000Z", generated)
	canadian, _ := meta.(*records.Object).Get("canadian_cards")
	assert.True(t, records.Equal(2, canadian))
	assert.Equal(t, 4, doc.Len())
}

func TestBuilderRejectsDuplicates(t *testing.T) {
	spec := cards.Spec{Name: "Same Card", Issuer: "X", Country: "CA", Currency: "CAD", RewardProgram: "Aeroplan"}
	b := cards.NewBuilder()
	err := b.Add(spec, spec)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateIdentifier(err))
	assert.Equal(t, 0, b.Len())

	require.NoError(t, b.Add(spec))
	assert.True(t, errors.IsDuplicateIdentifier(b.Add(spec)))
}

func TestParseSeedErrors(t *testing.T) {
	_, err := cards.ParseSeed([]byte("cards:\n  - name: X\n    unknown_field: 1\n"))
	require.Error(t, err)
	var perr *errors.ParseError
	assert.True(t, errors.As(err, &perr))

	_, err = cards.LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
