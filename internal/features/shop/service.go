package shop

import (
	"context"

	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/common"
)

// redeemer is the persistence surface the service needs.
type redeemer interface {
	Redeem(ctx context.Context, discordID string, reward Reward) (*RedemptionResult, error)
}

// Service runs redemptions behind the admission guard.
type Service struct {
	repo  redeemer
	guard *Guard
}

// NewService creates a new shop service.
func NewService(repo redeemer, guard *Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// Redeem attempts to redeem the given reward for the user.
//
// Returns common.ErrRewardNotFound for an unknown reward id,
// common.ErrAlreadyProcessing when another redemption by the same user
// is still in flight, and common.ErrInsufficientBalance (with the
// untouched balance in the result) when the user cannot afford it. The
// admission slot is released on every path.
func (s *Service) Redeem(ctx context.Context, discordID, rewardID string) (*RedemptionResult, Reward, error) {
	reward, ok := ByID(rewardID)
	if !ok {
		return nil, Reward{}, common.ErrRewardNotFound
	}

	if !s.guard.TryAcquire(discordID) {
		return nil, reward, common.ErrAlreadyProcessing
	}
	defer s.guard.Release(discordID)

	res, err := s.repo.Redeem(ctx, discordID, reward)
	if err != nil {
		return nil, reward, err
	}
	if !res.Success {
		return res, reward, common.ErrInsufficientBalance
	}

	log.WithFields(log.Fields{
		"user_id":     discordID,
		"reward_id":   reward.ID,
		"cost":        reward.Cost,
		"new_balance": res.NewBalance,
	}).Info("Reward redeemed")

	return res, reward, nil
}
