package sqlgen

import (
	"context"
	"database/sql"

	// Pure-Go SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/agentstation/cardmap/pkg/cards"
	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/logging"
)

// Schema is the SQLite layout Load writes into.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS cards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_key TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		issuer TEXT NOT NULL,
		reward_program TEXT NOT NULL,
		reward_currency TEXT NOT NULL,
		point_valuation REAL NOT NULL,
		annual_fee REAL NOT NULL,
		base_reward_rate REAL NOT NULL,
		base_reward_unit TEXT NOT NULL DEFAULT 'multiplier',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS category_rewards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		multiplier REAL NOT NULL,
		reward_unit TEXT NOT NULL DEFAULT 'multiplier',
		description TEXT NOT NULL,
		has_spend_limit BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS signup_bonuses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		bonus_amount INTEGER NOT NULL,
		bonus_currency TEXT NOT NULL,
		spend_requirement REAL NOT NULL,
		timeframe_days INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1
	)`,
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.WrapResource("create", "schema", path, err)
		}
	}
	return db, nil
}

// Load upserts list into db in a single transaction. A card that already
// exists by card_key has its rewards and bonus replaced. Nothing is written
// if any statement fails.
func Load(ctx context.Context, db *sql.DB, list []cards.Card) (err error) {
	logger := logging.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", "", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, c := range list {
		if err = loadCard(ctx, tx, c); err != nil {
			return errors.WrapResource("load", "card", c.Key(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", "", err)
	}
	logger.Info().Int("cards", len(list)).Msg("Loaded cards into SQLite")
	return nil
}

func loadCard(ctx context.Context, tx *sql.Tx, c cards.Card) error {
	key := c.Key()
	currency := cards.RewardCurrency(c.RewardProgram)

	var id int64
	err := tx.QueryRowContext(ctx, `INSERT INTO cards (
		card_key, name, issuer, reward_program, reward_currency,
		point_valuation, annual_fee, base_reward_rate
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(card_key) DO UPDATE SET
		name = excluded.name,
		issuer = excluded.issuer,
		reward_program = excluded.reward_program,
		reward_currency = excluded.reward_currency,
		point_valuation = excluded.point_valuation,
		annual_fee = excluded.annual_fee,
		base_reward_rate = excluded.base_reward_rate,
		updated_at = CURRENT_TIMESTAMP
	RETURNING id`,
		key, c.Name, c.Issuer, c.RewardProgram, currency,
		c.PointValueCAD, c.AnnualFee.Value, c.EarningRates.Base(),
	).Scan(&id)
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM category_rewards WHERE card_id = ?`,
		`DELETE FROM signup_bonuses WHERE card_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	for _, rate := range c.EarningRates {
		if rate.Category == "base" {
			continue
		}
		desc := number(rate.Multiplier) + "x points on " + rate.Category
		if _, err := tx.ExecContext(ctx, `INSERT INTO category_rewards (
			card_id, category, multiplier, description
		) VALUES (?, ?, ?, ?)`, id, rate.Category, rate.Multiplier, desc); err != nil {
			return err
		}
	}

	if b := c.SignupBonus; b != nil && b.Points != 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO signup_bonuses (
			card_id, bonus_amount, bonus_currency, spend_requirement, timeframe_days
		) VALUES (?, ?, ?, ?, ?)`, id, b.Points, currency, b.SpendRequirement, TimeframeDays(b.Months)); err != nil {
			return err
		}
	}
	return nil
}
