package checkin

import (
	"context"
	"fmt"
	"time"

	"beboa.bot/discord-bot/internal/db/postgres"
)

// Repository persists check-ins against the accounts table.
type Repository struct {
	db postgres.PgConnection
}

// NewRepository creates a new check-in repository.
func NewRepository(db postgres.PgConnection) *Repository {
	return &Repository{db: db}
}

// Result is what a check-in attempt produced: the decision plus the
// account values after it (or the untouched values for a cooldown).
type Result struct {
	Decision Decision
	State    State
}

// PerformCheckin evaluates and applies a check-in inside one
// transaction. The account row is locked for the duration so two
// concurrent attempts by the same user cannot both be rewarded.
func (r *Repository) PerformCheckin(ctx context.Context, discordID string, now time.Time) (*Result, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts (discord_id) VALUES ($1) ON CONFLICT (discord_id) DO NOTHING`,
		discordID)
	if err != nil {
		return nil, fmt.Errorf("ensure account: %w", err)
	}

	var state State
	err = tx.QueryRow(ctx,
		`SELECT bebits, current_streak, total_checkins, last_checkin
		 FROM accounts WHERE discord_id = $1 FOR UPDATE`,
		discordID).Scan(&state.Bebits, &state.CurrentStreak, &state.TotalCheckins, &state.LastCheckin)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}

	decision := Evaluate(state.LastCheckin, now)
	if decision.Kind == KindCooldown {
		// Nothing to write; the deferred rollback releases the lock.
		return &Result{Decision: decision, State: state}, nil
	}

	state = Apply(state, decision, now)

	_, err = tx.Exec(ctx,
		`UPDATE accounts
		 SET bebits = $2, current_streak = $3, total_checkins = $4,
		     last_checkin = $5, updated_at = NOW()
		 WHERE discord_id = $1`,
		discordID, state.Bebits, state.CurrentStreak, state.TotalCheckins, *state.LastCheckin)
	if err != nil {
		return nil, fmt.Errorf("apply checkin: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkin: %w", err)
	}

	return &Result{Decision: decision, State: state}, nil
}
