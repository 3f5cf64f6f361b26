package shop

import "time"

// Redemption is one row of the redemption ledger.
type Redemption struct {
	ID         int64     `db:"id"`
	DiscordID  string    `db:"discord_id"`
	RewardID   string    `db:"reward_id"`
	RewardName string    `db:"reward_name"`
	Cost       int64     `db:"cost"`
	RedeemedAt time.Time `db:"redeemed_at"`
}

// RedemptionResult is the outcome of a redemption attempt. On success
// NewBalance holds the balance after the debit; on an insufficient
// balance Balance holds the untouched pre-attempt balance.
type RedemptionResult struct {
	Success    bool
	NewBalance int64
	Balance    int64
}

// BreakdownEntry aggregates the ledger per reward for admin stats.
type BreakdownEntry struct {
	RewardID string
	Count    int64
	Spent    int64
}
