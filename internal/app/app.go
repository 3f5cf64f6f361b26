// Package app assembles the application: database pool, migrations,
// repositories, services, handlers, the Discord bot and the scheduler.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot"
	"beboa.bot/discord-bot/internal/config"
	"beboa.bot/discord-bot/internal/db/postgres"
	"beboa.bot/discord-bot/internal/features/accounts"
	"beboa.bot/discord-bot/internal/features/admin"
	"beboa.bot/discord-bot/internal/features/chat"
	"beboa.bot/discord-bot/internal/features/checkin"
	"beboa.bot/discord-bot/internal/features/shop"
	"beboa.bot/discord-bot/internal/jobs"
)

// App holds the assembled application.
type App struct {
	Pool      *pgxpool.Pool
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
}

// New connects to the database, applies migrations and wires up every
// feature.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	// Repositories
	accountsRepo := accounts.NewRepository(pool)
	checkinRepo := checkin.NewRepository(pool)
	shopRepo := shop.NewRepository(pool)
	chatRepo := chat.NewRepository(pool)

	// Services
	accountsService := accounts.NewService(accountsRepo)
	checkinService := checkin.NewService(checkinRepo)
	shopService := shop.NewService(shopRepo, shop.NewGuard())
	adminService := admin.NewService(accountsRepo, shopRepo)

	chatEnabled := cfg.ChatEnabled && cfg.OpenRouterAPIKey != ""
	if cfg.ChatEnabled && !chatEnabled {
		log.Warn("Chat disabled: OPENROUTER_API_KEY is not set")
	}
	chatClient := chat.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel,
		cfg.OpenRouterMaxTokens, cfg.OpenRouterTemperature)
	chatService := chat.NewService(chatClient, chatRepo, chatEnabled,
		cfg.ChatCooldown, cfg.ChatMaxHistory)

	// Handlers
	handlers := bot.Handlers{
		Checkin:  checkin.NewHandler(checkinService, cfg.CheckinChannelID),
		Accounts: accounts.NewHandler(accountsService),
		Shop:     shop.NewHandler(shopService, accountsService, cfg.NotificationChannelID, cfg.AdminRoleID),
		Chat:     chat.NewHandler(chatService),
		Admin:    admin.NewHandler(adminService, cfg.AdminRoleID),
	}

	b, err := bot.New(cfg, handlers)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		Pool:      pool,
		Bot:       b,
		Scheduler: jobs.NewScheduler(chatRepo, adminService),
	}, nil
}

// Close releases everything New acquired.
func (a *App) Close() {
	a.Pool.Close()
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}
	for i, sql := range migrations {
		version := i + 1
		if err := postgres.ExecMigrationSQL(ctx, pool, version, sql); err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
	}
	log.WithField("count", len(migrations)).Info("Migrations applied")
	return nil
}
