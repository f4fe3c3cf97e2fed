package cards

import "strings"

// Valuations maps a reward program to its value in CAD cents per point.
type Valuations map[string]float64

// defaultValuations reflects community consensus point values.
var defaultValuations = Valuations{
	// Canadian programs
	"Aeroplan":           2.0,
	"Avion":              2.1,
	"Avios":              1.8,
	"Membership Rewards": 2.1,
	"PC Optimum":         1.0,
	"Scene+":             1.0,
	"TD Rewards":         0.5,
	"BMO Rewards":        0.67,
	"CIBC Aventura":      1.0,
	"Cashback":           1.0,
	"Marriott Bonvoy":    0.74,
	"World of Hyatt":     2.2,
	"Hilton Honors":      0.48,
	"IHG One Rewards":    0.7,
	"WestJet Rewards":    1.0,

	// US programs
	"Chase Ultimate Rewards":       2.05,
	"Amex Membership Rewards (US)": 2.0,
	"Capital One Miles":            1.0,
	"Citi ThankYou Points":         1.6,
	"Bilt Rewards":                 2.2,
	"Wells Fargo Rewards":          1.0,
	"Discover Cashback":            1.0,
	"Delta SkyMiles":               1.25,
	"United MileagePlus":           1.5,
	"American Airlines AAdvantage": 1.7,
	"Southwest Rapid Rewards":      1.5,
	"Alaska Mileage Plan":          1.8,
}

// DefaultValuations returns a copy of the built-in valuation table.
func DefaultValuations() Valuations {
	return defaultValuations.Merge(nil)
}

// Lookup returns the value of a program. Matching ignores case.
func (v Valuations) Lookup(program string) (float64, bool) {
	if cents, ok := v[program]; ok {
		return cents, true
	}
	for name, cents := range v {
		if strings.EqualFold(name, program) {
			return cents, true
		}
	}
	return 0, false
}

// Merge returns a new table with other's entries overriding v's.
func (v Valuations) Merge(other Valuations) Valuations {
	out := make(Valuations, len(v)+len(other))
	for k, c := range v {
		out[k] = c
	}
	for k, c := range other {
		out[k] = c
	}
	return out
}

// RewardCurrency classifies a reward program for the bonus_currency and
// reward_currency columns.
func RewardCurrency(program string) string {
	p := strings.ToLower(program)
	switch {
	case strings.Contains(p, "mile"), strings.Contains(p, "aeroplan"):
		return CurrencyAirlineMiles
	case strings.Contains(p, "hotel"), strings.Contains(p, "marriott"), strings.Contains(p, "hilton"):
		return CurrencyHotelPoints
	case strings.Contains(p, "cashback"), strings.Contains(p, "cash"):
		return CurrencyCashback
	default:
		return CurrencyPoints
	}
}

// Reward currency classes.
const (
	CurrencyAirlineMiles = "airline_miles"
	CurrencyHotelPoints  = "hotel_points"
	CurrencyCashback     = "cashback"
	CurrencyPoints       = "points"
)

var keyReplacer = strings.NewReplacer(" ", "-", "'", "", "®", "", "™", "")

// CardKey returns the slug used to identify a card in SQL exports, e.g.
// "American Express Cobalt® Card" becomes "american-express-cobalt-card".
func CardKey(name string) string {
	return keyReplacer.Replace(strings.ToLower(name))
}
