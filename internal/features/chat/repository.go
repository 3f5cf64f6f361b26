package chat

import (
	"context"
	"fmt"
	"time"

	"beboa.bot/discord-bot/internal/db/postgres"
)

// Repository persists the shared chat history.
type Repository struct {
	db postgres.PgConnection
}

// NewRepository creates a new chat repository.
func NewRepository(db postgres.PgConnection) *Repository {
	return &Repository{db: db}
}

// Append stores one conversation turn.
func (r *Repository) Append(ctx context.Context, role, content string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_history (role, content) VALUES ($1, $2)`,
		role, content)
	if err != nil {
		return fmt.Errorf("append chat turn: %w", err)
	}
	return nil
}

// Recent returns the latest limit turns in chronological order.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, role, content, created_at FROM chat_history
		 ORDER BY id DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Role, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip to chronological.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Prune deletes turns older than maxAge and reports how many went.
func (r *Repository) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM chat_history WHERE created_at < NOW() - ($1 * INTERVAL '1 second')`,
		int64(maxAge.Seconds()))
	if err != nil {
		return 0, fmt.Errorf("prune chat history: %w", err)
	}
	return tag.RowsAffected(), nil
}
