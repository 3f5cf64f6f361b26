// Package accounts — service.go holds the account-facing business logic
// used by the /balance and /leaderboard commands.
package accounts

import "context"

// Service exposes account lookups to the handlers.
type Service struct {
	repo *Repository
}

// NewService creates a new accounts service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetAccount returns the user's account, creating it lazily with zero state.
func (s *Service) GetAccount(ctx context.Context, discordID string) (*Account, error) {
	return s.repo.GetOrCreate(ctx, discordID)
}

// Leaderboard returns the top balances plus the requester's own rank.
// The rank is computed after the lazy upsert so a brand-new user still
// gets a sensible "last place" rank instead of an error.
func (s *Service) Leaderboard(ctx context.Context, discordID string, limit int) ([]*LeaderboardEntry, int, *Account, error) {
	account, err := s.repo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, 0, nil, err
	}
	top, err := s.repo.GetTop(ctx, limit)
	if err != nil {
		return nil, 0, nil, err
	}
	rank, err := s.repo.GetRank(ctx, discordID)
	if err != nil {
		return nil, 0, nil, err
	}
	return top, rank, account, nil
}

// ServerStats returns server-wide account aggregates.
func (s *Service) ServerStats(ctx context.Context) (*Stats, error) {
	return s.repo.GetStats(ctx)
}
