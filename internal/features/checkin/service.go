package checkin

import (
	"context"
	"time"
)

// Service runs check-in attempts.
type Service struct {
	repo *Repository
}

// NewService creates a new check-in service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CheckIn performs a check-in attempt for the given user.
func (s *Service) CheckIn(ctx context.Context, discordID string) (*Result, error) {
	return s.repo.PerformCheckin(ctx, discordID, time.Now().UTC())
}
