package shop

import (
	"context"
	"fmt"

	"beboa.bot/discord-bot/internal/db/postgres"
)

// Repository persists redemptions.
type Repository struct {
	db postgres.PgConnection
}

// NewRepository creates a new shop repository.
func NewRepository(db postgres.PgConnection) *Repository {
	return &Repository{db: db}
}

// Redeem debits the reward cost and records the ledger row in one
// transaction. The balance row is locked before the check, so a debit
// can never race another spender: either both statements commit or
// neither does.
func (r *Repository) Redeem(ctx context.Context, discordID string, reward Reward) (*RedemptionResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin redeem tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts (discord_id) VALUES ($1) ON CONFLICT (discord_id) DO NOTHING`,
		discordID)
	if err != nil {
		return nil, fmt.Errorf("ensure account: %w", err)
	}

	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT bebits FROM accounts WHERE discord_id = $1 FOR UPDATE`,
		discordID).Scan(&balance)
	if err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}

	if balance < reward.Cost {
		// The deferred rollback releases the lock untouched.
		return &RedemptionResult{Success: false, Balance: balance}, nil
	}

	newBalance := balance - reward.Cost
	_, err = tx.Exec(ctx,
		`UPDATE accounts SET bebits = $2, updated_at = NOW() WHERE discord_id = $1`,
		discordID, newBalance)
	if err != nil {
		return nil, fmt.Errorf("debit balance: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO redemptions (discord_id, reward_id, reward_name, cost) VALUES ($1, $2, $3, $4)`,
		discordID, reward.ID, reward.Name, reward.Cost)
	if err != nil {
		return nil, fmt.Errorf("record redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit redeem: %w", err)
	}

	return &RedemptionResult{Success: true, NewBalance: newBalance}, nil
}

// GetTotals returns the lifetime redemption count and Bebits spent.
func (r *Repository) GetTotals(ctx context.Context) (count int64, spent int64, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(cost), 0) FROM redemptions`).Scan(&count, &spent)
	if err != nil {
		return 0, 0, fmt.Errorf("redemption totals: %w", err)
	}
	return count, spent, nil
}

// GetBreakdown aggregates redemptions per reward, most redeemed first.
func (r *Repository) GetBreakdown(ctx context.Context) ([]*BreakdownEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT reward_id, COUNT(*), SUM(cost)
		 FROM redemptions GROUP BY reward_id ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("redemption breakdown: %w", err)
	}
	defer rows.Close()

	var entries []*BreakdownEntry
	for rows.Next() {
		var e BreakdownEntry
		if err := rows.Scan(&e.RewardID, &e.Count, &e.Spent); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
