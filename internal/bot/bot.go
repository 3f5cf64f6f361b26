// Package bot owns the Discord gateway session: it registers the
// slash commands and routes incoming interactions to the feature
// handlers, with a concurrency cap, per-user rate limiting and panic
// recovery around each one.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/middleware"
	"beboa.bot/discord-bot/internal/bot/reply"
	"beboa.bot/discord-bot/internal/config"
	"beboa.bot/discord-bot/internal/features/accounts"
	"beboa.bot/discord-bot/internal/features/admin"
	"beboa.bot/discord-bot/internal/features/chat"
	"beboa.bot/discord-bot/internal/features/checkin"
	"beboa.bot/discord-bot/internal/features/shop"
)

// Handlers bundles the feature handlers the bot routes to.
type Handlers struct {
	Checkin  *checkin.Handler
	Accounts *accounts.Handler
	Shop     *shop.Handler
	Chat     *chat.Handler
	Admin    *admin.Handler
}

// Bot wraps a Discord session and its interaction loop.
type Bot struct {
	session   *discordgo.Session
	cfg       *config.Config
	handlers  Handlers
	inflight  chan struct{}
	ratelimit *middleware.RateLimiter

	registered []*discordgo.ApplicationCommand
}

// New creates the bot around an unopened session.
func New(cfg *config.Config, handlers Handlers) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Bot{
		session:   session,
		cfg:       cfg,
		handlers:  handlers,
		inflight:  make(chan struct{}, cfg.BotMaxInflight),
		ratelimit: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}, nil
}

// Start opens the gateway connection and registers the guild commands.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("username", r.User.Username).Info("Gateway connected")
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.dispatch(ctx, s, i)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return err
	}

	log.Info("Bot is up")
	return nil
}

// Stop removes the registered commands and closes the session.
func (b *Bot) Stop() {
	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.cfg.GuildID, cmd.ID); err != nil {
			log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command")
		}
	}
	b.ratelimit.Close()
	if err := b.session.Close(); err != nil {
		log.WithError(err).Warn("Failed to close session")
	}
}

// Session exposes the underlying session for out-of-band sends.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) dispatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	select {
	case b.inflight <- struct{}{}:
	default:
		log.Warn("Interaction dropped, too many in flight")
		reply.Ephemeral(s, i, "🐍 Beboa's coils are full. Try again in a second~")
		return
	}

	go func() {
		started := time.Now()
		defer func() { <-b.inflight }()
		defer middleware.RecoverFromPanic()

		if u := reply.User(i); u != nil && !b.ratelimit.Allow(u.ID) {
			reply.Ephemeral(s, i, "🐍 Sssslow down! Even Beboa needs a breath between your demands~")
			return
		}

		b.route(ctx, s, i)
		middleware.LogInteraction(i, started)
	}()
}

func (b *Bot) route(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "checkin":
			b.handlers.Checkin.HandleCheckin(ctx, s, i)
		case "balance":
			b.handlers.Accounts.HandleBalance(ctx, s, i)
		case "leaderboard":
			b.handlers.Accounts.HandleLeaderboard(ctx, s, i)
		case "shop":
			b.handlers.Shop.HandleShop(ctx, s, i)
		case "chat":
			b.handlers.Chat.HandleChat(ctx, s, i)
		case "summarize":
			b.handlers.Chat.HandleSummarize(ctx, s, i)
		case "admin":
			b.handlers.Admin.HandleAdmin(ctx, s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, shop.RewardPrefix) ||
			strings.HasPrefix(customID, shop.ConfirmPrefix) ||
			customID == shop.CancelID {
			b.handlers.Shop.HandleComponent(ctx, s, i)
		}
	}
}

func (b *Bot) registerCommands() error {
	adminPerms := int64(discordgo.PermissionAdministrator)
	summaryMinMessages := float64(chat.MinSummaryCount)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "checkin",
			Description: "Daily check-in to feed your streak and earn a Bebit",
		},
		{
			Name:        "balance",
			Description: "Your Bebits, streak and lifetime check-ins",
		},
		{
			Name:        "leaderboard",
			Description: "Top 10 Bebits holders",
		},
		{
			Name:        "shop",
			Description: "Spend your Bebits in Beboa's shop",
		},
		{
			Name:        "chat",
			Description: "Talk to Beboa",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What do you want to ask?",
					Required:    true,
				},
			},
		},
		{
			Name:        "summarize",
			Description: "Summarize recent messages in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "messages",
					Description: "Number of messages to summarize (default: 30, max: 100)",
					MinValue:    &summaryMinMessages,
					MaxValue:    chat.MaxSummaryCount,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "since",
					Description: "Time period to summarize (e.g. \"2h\", \"30m\", \"1d\", \"1w\")",
				},
			},
		},
		{
			Name:                     "admin",
			Description:              "Moderator console",
			DefaultMemberPermissions: &adminPerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Name:        "bebits",
					Description: "Balance adjustments",
					Options: []*discordgo.ApplicationCommandOption{
						adminAmountSub("add", "Grant Bebits to a user"),
						adminAmountSub("remove", "Take Bebits from a user"),
						adminAmountSub("set", "Set a user's balance"),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Name:        "streak",
					Description: "Streak management",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Name:        "reset",
							Description: "Reset a user's streak",
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Whose streak to reset",
									Required:    true,
								},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Server-wide engagement stats",
				},
			},
		},
	}

	for _, cmd := range commands {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.cfg.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("register command %q: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}
	log.WithField("count", len(commands)).Info("Slash commands registered")
	return nil
}

func adminAmountSub(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Target user",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Amount of Bebits",
				Required:    true,
			},
		},
	}
}
