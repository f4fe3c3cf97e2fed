package sqlgen

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cardmap/pkg/cards"
)

func testCards() []cards.Card {
	return []cards.Card{
		{
			Name:          "American Express Cobalt Card",
			Issuer:        "American Express",
			RewardProgram: "Membership Rewards",
			PointValueCAD: 2.0,
			AnnualFee:     cards.Dollars(155.88),
			EarningRates: cards.Rates{
				{Category: "base", Multiplier: 1},
				{Category: "dining", Multiplier: 5},
			},
			SignupBonus: &cards.Bonus{Points: 15000, SpendRequirement: 9000, Months: 12},
		},
		{
			Name:          "Banquier's Cash",
			Issuer:        "Bank",
			RewardProgram: "Cashback",
			PointValueCAD: 1.0,
			AnnualFee:     cards.Amount{Value: 120, Whole: true},
			EarningRates:  cards.Rates{{Category: "base", Multiplier: 1.25}},
			SignupBonus:   &cards.Bonus{Points: 0},
		},
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'it''s'", Quote("it's"))
	assert.Equal(t, "''", Quote(""))
}

func TestTimeframeDays(t *testing.T) {
	assert.Equal(t, 90, TimeframeDays(0))
	assert.Equal(t, 360, TimeframeDays(12))
}

func TestScript(t *testing.T) {
	var buf bytes.Buffer
	generated := utc.New(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, Script(&buf, testCards(), WithGenerated(generated)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, rule+"\n-- Credit Card Database Import\n"))
	assert.Contains(t, out, "-- Total Cards: 2\n")
	assert.Contains(t, out, "BEGIN;\n")
	assert.Contains(t, out, "-- TRUNCATE TABLE cards CASCADE;\n")
	assert.Contains(t, out, "  'american-express-cobalt-card',\n")
	assert.Contains(t, out, "  'points',\n")
	assert.Contains(t, out, "  155.88,\n")
	assert.Contains(t, out, "  120,\n", "whole-number fees keep their form")
	assert.NotContains(t, out, "  120.0,\n")
	assert.Contains(t, out, "  '5.0x points on dining',\n")
	assert.Contains(t, out, "-- Signup bonus: 15000 points\n")
	assert.Contains(t, out, "  360,\n")
	assert.Contains(t, out, "  'Banquier''s Cash',\n")
	assert.Contains(t, out, "COMMIT;\n")
	assert.True(t, strings.HasSuffix(out, "-- Import complete: 2 cards\n"+rule))

	// base rates never become category rows; zero-point bonuses are skipped
	assert.Equal(t, 1, strings.Count(out, "INSERT INTO category_rewards"))
	assert.Equal(t, 1, strings.Count(out, "INSERT INTO signup_bonuses"))
	assert.Equal(t, 2, strings.Count(out, "INSERT INTO cards"))
}

func TestScriptTruncate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Script(&buf, nil, WithTruncate(true)))
	assert.Contains(t, buf.String(), "\nTRUNCATE TABLE cards CASCADE;\n")
	assert.Contains(t, buf.String(), "-- Import complete: 0 cards")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	defer db.Close()

	list := testCards()
	require.NoError(t, Load(ctx, db, list))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n))
	assert.Equal(t, 2, n)

	// loading again replaces rather than duplicates
	list[0].EarningRates = append(list[0].EarningRates, cards.Rate{Category: "groceries", Multiplier: 5})
	list[0].AnnualFee = cards.Dollars(191.88)
	require.NoError(t, Load(ctx, db, list))

	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n))
	assert.Equal(t, 2, n)

	var fee float64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT annual_fee FROM cards WHERE card_key = ?`, "american-express-cobalt-card").Scan(&fee))
	assert.InDelta(t, 191.88, fee, 1e-9)

	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM category_rewards`).Scan(&n))
	assert.Equal(t, 2, n)

	var days int
	var currency string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT timeframe_days, bonus_currency FROM signup_bonuses`).Scan(&days, &currency))
	assert.Equal(t, 360, days)
	assert.Equal(t, cards.CurrencyPoints, currency)
}

func TestLoadCanceled(t *testing.T) {
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Load(ctx, db, testCards()))
}
