// Package admin implements the moderator console: balance
// adjustments, streak resets and server-wide stats.
package admin

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/common"
	"beboa.bot/discord-bot/internal/features/accounts"
	"beboa.bot/discord-bot/internal/features/shop"
)

// Service runs admin operations over accounts and the redemption
// ledger.
type Service struct {
	accounts *accounts.Repository
	shop     *shop.Repository
}

// NewService creates a new admin service.
func NewService(accounts *accounts.Repository, shop *shop.Repository) *Service {
	return &Service{accounts: accounts, shop: shop}
}

// Adjustment is the before/after of a balance change.
type Adjustment struct {
	OldBalance int64
	NewBalance int64
}

// AddBebits grants amount Bebits to the user and returns the new
// balance. The increment is a single atomic statement.
func (s *Service) AddBebits(ctx context.Context, discordID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	if err := s.accounts.Ensure(ctx, discordID); err != nil {
		return 0, err
	}
	newBalance, err := s.accounts.AddBebits(ctx, discordID, amount)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"user_id": discordID,
		"amount":  amount,
		"balance": newBalance,
	}).Info("Admin granted Bebits")
	return newBalance, nil
}

// RemoveBebits takes amount Bebits from the user, clamping at zero,
// and returns the new balance.
func (s *Service) RemoveBebits(ctx context.Context, discordID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	if err := s.accounts.Ensure(ctx, discordID); err != nil {
		return 0, err
	}
	newBalance, err := s.accounts.RemoveBebits(ctx, discordID, amount)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"user_id": discordID,
		"amount":  amount,
		"balance": newBalance,
	}).Info("Admin removed Bebits")
	return newBalance, nil
}

// SetBebits overwrites the user's balance and reports the old and new
// values.
func (s *Service) SetBebits(ctx context.Context, discordID string, amount int64) (*Adjustment, error) {
	if amount < 0 {
		return nil, common.ErrInvalidAmount
	}
	account, err := s.accounts.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SetBebits(ctx, discordID, amount); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id": discordID,
		"old":     account.Bebits,
		"new":     amount,
	}).Info("Admin set balance")
	return &Adjustment{OldBalance: account.Bebits, NewBalance: amount}, nil
}

// ResetStreak zeroes the user's streak and clears the last check-in,
// so their next check-in starts a fresh streak.
func (s *Service) ResetStreak(ctx context.Context, discordID string) error {
	if err := s.accounts.Ensure(ctx, discordID); err != nil {
		return err
	}
	if err := s.accounts.ResetStreak(ctx, discordID); err != nil {
		return err
	}
	log.WithField("user_id", discordID).Info("Admin reset streak")
	return nil
}

// ServerStats is the aggregate picture the /admin stats command shows.
type ServerStats struct {
	Accounts        *accounts.Stats
	RedemptionCount int64
	BebitsSpent     int64
	RewardBreakdown []*shop.BreakdownEntry
}

// Stats gathers account totals and redemption aggregates.
func (s *Service) Stats(ctx context.Context) (*ServerStats, error) {
	accountStats, err := s.accounts.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("account stats: %w", err)
	}
	count, spent, err := s.shop.GetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("redemption totals: %w", err)
	}
	breakdown, err := s.shop.GetBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("redemption breakdown: %w", err)
	}
	return &ServerStats{
		Accounts:        accountStats,
		RedemptionCount: count,
		BebitsSpent:     spent,
		RewardBreakdown: breakdown,
	}, nil
}
