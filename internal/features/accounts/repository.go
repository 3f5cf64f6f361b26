// Package accounts — repository.go runs all SQL against the accounts table.
// Admin balance adjustments are single UPDATE statements so they are
// atomic without an explicit transaction.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"beboa.bot/discord-bot/internal/common"
	"beboa.bot/discord-bot/internal/db/postgres"
)

// Repository provides access to the accounts table.
type Repository struct {
	db postgres.PgConnection
}

// NewRepository creates a new accounts repository.
func NewRepository(db postgres.PgConnection) *Repository {
	return &Repository{db: db}
}

const selectAccount = `
	SELECT discord_id, bebits, current_streak, last_checkin, total_checkins,
	       created_at, updated_at
	FROM accounts
	WHERE discord_id = $1
`

// Ensure creates the account row with default zero state if it does not exist.
func (r *Repository) Ensure(ctx context.Context, discordID string) error {
	query := `
		INSERT INTO accounts (discord_id, bebits, current_streak, total_checkins)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (discord_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, discordID); err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}
	return nil
}

// GetByID returns the account for discordID.
// Returns common.ErrAccountNotFound when no row exists.
func (r *Repository) GetByID(ctx context.Context, discordID string) (*Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, selectAccount, discordID).Scan(
		&a.DiscordID, &a.Bebits, &a.CurrentStreak, &a.LastCheckin,
		&a.TotalCheckins, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to read account (discord_id=%s): %w", discordID, err)
	}
	return &a, nil
}

// GetOrCreate returns the account, creating it with zero state if absent.
func (r *Repository) GetOrCreate(ctx context.Context, discordID string) (*Account, error) {
	if err := r.Ensure(ctx, discordID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, discordID)
}

// AddBebits credits the account and returns the new balance.
// The caller must Ensure the account first.
func (r *Repository) AddBebits(ctx context.Context, discordID string, amount int64) (int64, error) {
	query := `
		UPDATE accounts
		SET bebits = bebits + $2, updated_at = NOW()
		WHERE discord_id = $1
		RETURNING bebits
	`
	var balance int64
	if err := r.db.QueryRow(ctx, query, discordID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to add bebits: %w", err)
	}
	return balance, nil
}

// RemoveBebits debits the account, clamping at zero, and returns the
// new balance. The balance >= 0 invariant is enforced in SQL.
func (r *Repository) RemoveBebits(ctx context.Context, discordID string, amount int64) (int64, error) {
	query := `
		UPDATE accounts
		SET bebits = GREATEST(bebits - $2, 0), updated_at = NOW()
		WHERE discord_id = $1
		RETURNING bebits
	`
	var balance int64
	if err := r.db.QueryRow(ctx, query, discordID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to remove bebits: %w", err)
	}
	return balance, nil
}

// SetBebits overwrites the balance.
func (r *Repository) SetBebits(ctx context.Context, discordID string, amount int64) error {
	query := `
		UPDATE accounts
		SET bebits = $2, updated_at = NOW()
		WHERE discord_id = $1
	`
	if _, err := r.db.Exec(ctx, query, discordID, amount); err != nil {
		return fmt.Errorf("failed to set bebits: %w", err)
	}
	return nil
}

// ResetStreak zeroes the streak and clears last_checkin, so the next
// check-in is classified as a first one.
func (r *Repository) ResetStreak(ctx context.Context, discordID string) error {
	query := `
		UPDATE accounts
		SET current_streak = 0, last_checkin = NULL, updated_at = NOW()
		WHERE discord_id = $1
	`
	if _, err := r.db.Exec(ctx, query, discordID); err != nil {
		return fmt.Errorf("failed to reset streak: %w", err)
	}
	return nil
}

// GetTop returns the highest balances, richest first.
func (r *Repository) GetTop(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	query := `
		SELECT discord_id, bebits, current_streak
		FROM accounts
		ORDER BY bebits DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.DiscordID, &e.Bebits, &e.CurrentStreak); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}
	return entries, nil
}

// GetRank returns the 1-indexed rank of discordID by balance.
func (r *Repository) GetRank(ctx context.Context, discordID string) (int, error) {
	query := `
		SELECT COUNT(*) + 1
		FROM accounts
		WHERE bebits > (SELECT bebits FROM accounts WHERE discord_id = $1)
	`
	var rank int
	if err := r.db.QueryRow(ctx, query, discordID).Scan(&rank); err != nil {
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}
	return rank, nil
}

// GetStats collects the server-wide aggregates.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(bebits), 0) FROM accounts`,
	).Scan(&s.TotalUsers, &s.TotalBebits)
	if err != nil {
		return nil, fmt.Errorf("failed to read account totals: %w", err)
	}

	var top LeaderboardEntry
	err = r.db.QueryRow(ctx,
		`SELECT discord_id, bebits, current_streak FROM accounts ORDER BY bebits DESC LIMIT 1`,
	).Scan(&top.DiscordID, &top.Bebits, &top.CurrentStreak)
	switch {
	case err == nil:
		s.TopEarner = &top
	case errors.Is(err, pgx.ErrNoRows):
		// no accounts yet
	default:
		return nil, fmt.Errorf("failed to read top earner: %w", err)
	}

	var longest LeaderboardEntry
	err = r.db.QueryRow(ctx,
		`SELECT discord_id, bebits, current_streak FROM accounts ORDER BY current_streak DESC LIMIT 1`,
	).Scan(&longest.DiscordID, &longest.Bebits, &longest.CurrentStreak)
	switch {
	case err == nil:
		s.LongestStreak = &longest
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to read longest streak: %w", err)
	}

	return &s, nil
}
