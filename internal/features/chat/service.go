package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/common"
)

// completer is the model surface the service needs.
type completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	CompleteTuned(ctx context.Context, messages []Message, maxTokens int, temperature float64) (string, error)
}

// historyStore is the persistence surface the service needs.
type historyStore interface {
	Append(ctx context.Context, role, content string) error
	Recent(ctx context.Context, limit int) ([]*HistoryEntry, error)
}

// Service answers chat prompts in Beboa's voice.
type Service struct {
	client     completer
	repo       historyStore
	enabled    bool
	cooldown   time.Duration
	maxHistory int

	mu       sync.Mutex
	lastUsed map[string]time.Time

	now func() time.Time
}

// NewService creates a new chat service.
func NewService(client completer, repo historyStore, enabled bool, cooldown time.Duration, maxHistory int) *Service {
	return &Service{
		client:     client,
		repo:       repo,
		enabled:    enabled,
		cooldown:   cooldown,
		maxHistory: maxHistory,
		lastUsed:   make(map[string]time.Time),
		now:        time.Now,
	}
}

// Ask sends the user's prompt through the persona and returns Beboa's
// reply. Each user gets one prompt per cooldown window.
func (s *Service) Ask(ctx context.Context, discordID, username, prompt string) (string, error) {
	if !s.enabled {
		return "", common.ErrChatDisabled
	}
	if err := s.checkCooldown(discordID); err != nil {
		return "", err
	}

	history, err := s.repo.Recent(ctx, s.maxHistory)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	answer, err := s.client.Complete(ctx, buildMessages(history, username, prompt))
	if err != nil {
		return "", fmt.Errorf("complete chat: %w", err)
	}

	// History writes are best effort; a failed insert should not eat
	// the answer the user already paid a cooldown for.
	if err := s.repo.Append(ctx, "user", username+": "+prompt); err != nil {
		log.WithError(err).Warn("Failed to store user chat turn")
	}
	if err := s.repo.Append(ctx, "assistant", answer); err != nil {
		log.WithError(err).Warn("Failed to store assistant chat turn")
	}

	return answer, nil
}

func (s *Service) checkCooldown(discordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if last, ok := s.lastUsed[discordID]; ok && now.Sub(last) < s.cooldown {
		return common.ErrChatCooldown
	}
	s.lastUsed[discordID] = now
	return nil
}
