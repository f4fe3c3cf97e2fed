// Package cards builds the credit-card reference database from a
// declarative seed and converts between typed cards and stored records.
package cards

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/records"
)

// Card types.
const (
	TypePersonal = "personal"
	TypeBusiness = "business"
)

// Countries.
const (
	CountryCA = "CA"
	CountryUS = "US"
)

// Card is one entry of the database.
type Card struct {
	Name                  string  `json:"name"`
	Issuer                string  `json:"issuer"`
	Country               string  `json:"country"`
	Currency              string  `json:"currency"`
	CardType              string  `json:"card_type"`
	Category              string  `json:"category"`
	RewardProgram         string  `json:"reward_program"`
	PointValueCAD         float64 `json:"point_value_cad"`
	PointValueUSD         float64 `json:"point_value_usd"`
	AnnualFee             Amount  `json:"annual_fee"`
	ForeignTransactionFee float64 `json:"foreign_transaction_fee"`
	EarningRates          Rates   `json:"earning_rates"`
	SignupBonus           *Bonus  `json:"signup_bonus,omitempty"`
}

// Bonus is a signup bonus.
type Bonus struct {
	Points           int64   `json:"points" yaml:"points"`
	SpendRequirement float64 `json:"spend_requirement" yaml:"spend_requirement"`
	Months           int     `json:"months" yaml:"months"`
}

// Rate is the earning multiplier for one spending category.
type Rate struct {
	Category   string
	Multiplier float64
}

// Rates is an ordered list of earning rates. The base rate comes first.
type Rates []Rate

// Base returns the multiplier of the "base" category.
func (r Rates) Base() float64 {
	for _, rate := range r {
		if rate.Category == "base" {
			return rate.Multiplier
		}
	}
	return 0
}

// MarshalJSON writes the rates as an object in order.
func (r Rates) MarshalJSON() ([]byte, error) {
	return records.Marshal(r.object(), "")
}

// UnmarshalJSON reads an object of category multipliers, keeping order.
func (r *Rates) UnmarshalJSON(data []byte) error {
	v, err := records.DecodeBytes(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*records.Object)
	if !ok {
		return fmt.Errorf("earning_rates must be an object")
	}
	rates := make(Rates, 0, obj.Len())
	obj.Range(func(k string, val any) bool {
		var f float64
		f, err = toFloat(val)
		if err != nil {
			err = fmt.Errorf("earning_rates.%s: %w", k, err)
			return false
		}
		rates = append(rates, Rate{Category: k, Multiplier: f})
		return true
	})
	if err != nil {
		return err
	}
	*r = rates
	return nil
}

func (r Rates) object() *records.Object {
	obj := records.NewObject()
	for _, rate := range r {
		obj.Set(rate.Category, rate.Multiplier)
	}
	return obj
}

// Key returns the card's slug.
func (c Card) Key() string {
	return CardKey(c.Name)
}

// Record converts the card into a stored record, in the database's field
// order. Rates and point values are written as floats; the annual fee
// keeps the form it was given in.
func (c Card) Record() *records.Object {
	rec := records.NewObject()
	rec.Set("name", c.Name)
	rec.Set("issuer", c.Issuer)
	rec.Set("country", c.Country)
	rec.Set("currency", c.Currency)
	rec.Set("card_type", c.CardType)
	rec.Set("category", c.Category)
	rec.Set("reward_program", c.RewardProgram)
	rec.Set("point_value_cad", c.PointValueCAD)
	rec.Set("point_value_usd", c.PointValueUSD)
	rec.Set("annual_fee", c.AnnualFee.Number())
	rec.Set("foreign_transaction_fee", c.ForeignTransactionFee)
	rec.Set("earning_rates", c.EarningRates.object())
	if c.SignupBonus != nil {
		b := records.NewObject()
		b.Set("points", c.SignupBonus.Points)
		b.Set("spend_requirement", json.Number(strconv.FormatFloat(c.SignupBonus.SpendRequirement, 'f', -1, 64)))
		b.Set("months", c.SignupBonus.Months)
		rec.Set("signup_bonus", b)
	}
	return rec
}

// FromRecord decodes a stored record. Fields the Card type does not know
// are ignored.
func FromRecord(rec *records.Object) (Card, error) {
	var c Card
	data, err := records.Marshal(rec, "")
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, errors.NewParseError("json", "", fmt.Sprintf("card %q: %v", rec.String("name"), err), err)
	}
	if c.Name == "" {
		return c, errors.NewValidationError("name", nil, "card has no name")
	}
	return c, nil
}

// FromRecords decodes every record.
func FromRecords(recs []*records.Object) ([]Card, error) {
	out := make([]Card, 0, len(recs))
	for i, rec := range recs {
		c, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// New builds a card from a spec. The point value comes from the spec or,
// when unset, from valuations; it is converted between CAD and USD at the
// fixed rate.
func New(spec Spec, valuations Valuations) (Card, error) {
	if err := spec.Validate(); err != nil {
		return Card{}, err
	}

	value := 0.0
	switch {
	case spec.PointValue != nil:
		value = *spec.PointValue
	default:
		v, ok := valuations.Lookup(spec.RewardProgram)
		if !ok {
			return Card{}, errors.NewValidationError("reward_program", spec.RewardProgram,
				fmt.Sprintf("card %q: no point value given and program has no valuation", spec.Name))
		}
		value = v
	}

	c := Card{
		Name:                  spec.Name,
		Issuer:                spec.Issuer,
		Country:               spec.Country,
		Currency:              spec.Currency,
		CardType:              TypePersonal,
		Category:              "travel",
		RewardProgram:         spec.RewardProgram,
		AnnualFee:             spec.AnnualFee,
		ForeignTransactionFee: constants.DefaultForeignTransactionFee,
		SignupBonus:           spec.SignupBonus,
	}
	if spec.CardType != "" {
		c.CardType = spec.CardType
	}
	if spec.Category != "" {
		c.Category = spec.Category
	}
	if spec.ForeignTransactionFee != nil {
		c.ForeignTransactionFee = *spec.ForeignTransactionFee
	}

	if spec.Currency == "CAD" {
		c.PointValueCAD = value
		c.PointValueUSD = value / constants.USDToCAD
	} else {
		c.PointValueCAD = value * constants.USDToCAD
		c.PointValueUSD = value
	}

	c.EarningRates = Rates{{Category: "base", Multiplier: spec.BaseRate}}
	for _, item := range spec.EarningRates {
		category := fmt.Sprint(item.Key)
		f, err := toFloat(item.Value)
		if err != nil {
			return Card{}, errors.NewValidationError("earning_rates."+category, item.Value, err.Error())
		}
		if category == "base" {
			// An explicit base rate wins but stays first.
			c.EarningRates[0].Multiplier = f
			continue
		}
		c.EarningRates = append(c.EarningRates, Rate{Category: category, Multiplier: f})
	}

	return c, nil
}
