// Package common — errors.go defines the sentinel errors shared across
// the bot's modules. Handlers match on these to pick the user-facing
// reply; they are expected conditions, not logged as errors.
package common

import "errors"

// Economy / redemption errors
var (
	// ErrInsufficientBalance — not enough Bebits on the account
	ErrInsufficientBalance = errors.New("insufficient bebits")
	// ErrAlreadyProcessing — a redemption for this user is already in flight
	ErrAlreadyProcessing = errors.New("redemption already in progress")
	// ErrRewardNotFound — reward id is not in the catalog
	ErrRewardNotFound = errors.New("reward not found")
	// ErrInvalidAmount — zero or negative amount/cost
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrAccountNotFound — no account row for this user
	ErrAccountNotFound = errors.New("account not found")
)

// Chat errors
var (
	// ErrChatDisabled — the /chat feature is switched off or unconfigured
	ErrChatDisabled = errors.New("chat is disabled")
	// ErrChatCooldown — the user has chatted too recently
	ErrChatCooldown = errors.New("chat cooldown active")
)
