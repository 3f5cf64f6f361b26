package chat

import "time"

// HistoryEntry is one stored turn of the shared conversation.
type HistoryEntry struct {
	ID        int64     `db:"id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
