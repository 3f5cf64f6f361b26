// Package jobs runs the background maintenance tasks on a cron
// schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/features/admin"
	"beboa.bot/discord-bot/internal/features/chat"
)

// chatHistoryMaxAge is how long a chat turn stays relevant.
const chatHistoryMaxAge = 30 * time.Minute

// Scheduler owns the cron instance and the jobs it runs.
type Scheduler struct {
	cron  *cron.Cron
	chat  *chat.Repository
	admin *admin.Service
}

// NewScheduler creates a scheduler running in UTC.
func NewScheduler(chatRepo *chat.Repository, adminService *admin.Service) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		chat:  chatRepo,
		admin: adminService,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("*/10 * * * *", func() { s.pruneChatHistory(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * *", func() { s.logDailyStats(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}

func (s *Scheduler) pruneChatHistory(ctx context.Context) {
	deleted, err := s.chat.Prune(ctx, chatHistoryMaxAge)
	if err != nil {
		log.WithError(err).Error("Chat history prune failed")
		return
	}
	if deleted > 0 {
		log.WithField("deleted", deleted).Debug("Chat history pruned")
	}
}

func (s *Scheduler) logDailyStats(ctx context.Context) {
	stats, err := s.admin.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("Daily stats snapshot failed")
		return
	}
	log.WithFields(log.Fields{
		"users":        stats.Accounts.TotalUsers,
		"bebits_total": stats.Accounts.TotalBebits,
		"bebits_spent": stats.BebitsSpent,
		"redemptions":  stats.RedemptionCount,
	}).Info("Daily stats snapshot")
}
