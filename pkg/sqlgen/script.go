// Package sqlgen exports the card database as SQL: a transaction-wrapped
// INSERT script for a Postgres-compatible backend, or rows loaded directly
// into a SQLite file.
package sqlgen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/constants"
	"github.com/agentstation/cardmap/pkg/records"
)

const rule = "-- ===================================================================="

// Options configures script generation.
type Options struct {
	generated utc.Time
	truncate  bool
}

// Option configures script generation.
type Option func(*Options)

// WithGenerated sets the timestamp written in the header.
func WithGenerated(t utc.Time) Option {
	return func(o *Options) {
		o.generated = t
	}
}

// WithTruncate makes the script empty the three tables before inserting,
// instead of leaving the TRUNCATE statements commented out.
func WithTruncate(enabled bool) Option {
	return func(o *Options) {
		o.truncate = enabled
	}
}

// Quote escapes s as a SQL string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// TimeframeDays converts a bonus window in months to days. Zero months
// means the default window.
func TimeframeDays(months int) int {
	if months <= 0 {
		months = constants.DefaultBonusMonths
	}
	return months * constants.DaysPerMonth
}

// Script writes the import script for list.
func Script(w io.Writer, list []cards.Card, opts ...Option) error {
	o := &Options{generated: utc.Now()}
	for _, opt := range opts {
		opt(o)
	}

	bw := bufio.NewWriter(w)
	line := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
		bw.WriteByte('\n')
	}

	line(rule)
	line("-- Credit Card Database Import")
	line("-- Generated: %s", o.generated.Format(constants.TimeFormatISO8601))
	line("-- Total Cards: %d", len(list))
	line("%s\n", rule)

	line("-- Start transaction")
	line("BEGIN;\n")

	comment := "-- "
	if o.truncate {
		comment = ""
		line("-- Clear existing data")
	} else {
		line("-- Clear existing data (optional)")
	}
	line("%sTRUNCATE TABLE signup_bonuses CASCADE;", comment)
	line("%sTRUNCATE TABLE category_rewards CASCADE;", comment)
	line("%sTRUNCATE TABLE cards CASCADE;\n", comment)

	for i, c := range list {
		writeCard(line, i+1, len(list), c)
	}

	line("-- Commit transaction")
	line("COMMIT;\n")
	line(rule)
	line("-- Import complete: %d cards", len(list))
	fmt.Fprint(bw, rule)

	return bw.Flush()
}

func writeCard(line func(string, ...any), n, total int, c cards.Card) {
	key := Quote(c.Key())
	currency := cards.RewardCurrency(c.RewardProgram)

	line("-- Card %d/%d: %s", n, total, c.Name)
	line("INSERT INTO cards (")
	line("  card_key, name, issuer, reward_program, reward_currency,")
	line("  point_valuation, annual_fee, base_reward_rate, base_reward_unit,")
	line("  is_active, created_at, updated_at")
	line(") VALUES (")
	line("  %s,", key)
	line("  %s,", Quote(c.Name))
	line("  %s,", Quote(c.Issuer))
	line("  %s,", Quote(c.RewardProgram))
	line("  '%s',", currency)
	line("  %s,", number(c.PointValueCAD))
	line("  %s,", c.AnnualFee)
	line("  %s,", number(c.EarningRates.Base()))
	line("  'multiplier',")
	line("  true,")
	line("  NOW(),")
	line("  NOW()")
	line(") RETURNING id;  -- Store this as card_%d_id\n", n)

	for _, rate := range c.EarningRates {
		if rate.Category == "base" {
			continue
		}
		m := number(rate.Multiplier)
		line("-- Category reward: %s (%sx)", rate.Category, m)
		line("INSERT INTO category_rewards (")
		line("  card_id, category, multiplier, reward_unit, description,")
		line("  has_spend_limit, created_at, updated_at")
		line(") VALUES (")
		line("  (SELECT id FROM cards WHERE card_key = %s),", key)
		line("  %s,", Quote(rate.Category))
		line("  %s,", m)
		line("  'multiplier',")
		line("  %s,", Quote(m+"x points on "+rate.Category))
		line("  false,")
		line("  NOW(),")
		line("  NOW()")
		line(");\n")
	}

	if b := c.SignupBonus; b != nil && b.Points != 0 {
		line("-- Signup bonus: %d points", b.Points)
		line("INSERT INTO signup_bonuses (")
		line("  card_id, bonus_amount, bonus_currency,")
		line("  spend_requirement, timeframe_days, is_active")
		line(") VALUES (")
		line("  (SELECT id FROM cards WHERE card_key = %s),", key)
		line("  %d,", b.Points)
		line("  '%s',", currency)
		line("  %s,", strconv.FormatFloat(b.SpendRequirement, 'f', -1, 64))
		line("  %d,", TimeframeDays(b.Months))
		line("  true")
		line(");\n")
	}

	line("")
}

// number renders a float the way the stored documents do: integral values
// keep a ".0".
func number(f float64) string {
	n, _ := records.Number(f)
	return n.String()
}
