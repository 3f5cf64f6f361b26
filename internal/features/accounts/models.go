// Package accounts manages user accounts: Bebit balances, streaks and
// check-in counters. models.go describes the accounts table rows.
package accounts

import "time"

// Account is one user's row in the accounts table.
// Rows are created lazily the first time a user touches the bot, always
// inside the same transaction as the mutation that referenced them.
type Account struct {
	DiscordID     string     `db:"discord_id"`     // Discord user ID (opaque string key)
	Bebits        int64      `db:"bebits"`         // Current balance, never negative
	CurrentStreak int        `db:"current_streak"` // Consecutive qualifying check-ins
	LastCheckin   *time.Time `db:"last_checkin"`   // nil until the first check-in
	TotalCheckins int        `db:"total_checkins"` // Lifetime check-in count, never decreases
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// LeaderboardEntry is the slice of an account shown on the leaderboard.
type LeaderboardEntry struct {
	DiscordID     string `db:"discord_id"`
	Bebits        int64  `db:"bebits"`
	CurrentStreak int    `db:"current_streak"`
}

// Stats aggregates server-wide account numbers for /admin stats and the
// daily snapshot job.
type Stats struct {
	TotalUsers    int
	TotalBebits   int64
	TopEarner     *LeaderboardEntry // nil when no accounts exist
	LongestStreak *LeaderboardEntry // nil when no accounts exist
}
