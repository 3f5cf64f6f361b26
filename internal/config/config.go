// Package config loads the bot configuration from environment variables.
// envconfig maps environment variables onto the Config struct fields.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ALL application settings.
type Config struct {
	// --- Discord ---
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`
	// Guild (server) the bot serves; slash commands are registered per guild.
	GuildID string `envconfig:"GUILD_ID" required:"true"`
	// Channel where /checkin is allowed (#log-in).
	CheckinChannelID string `envconfig:"CHECKIN_CHANNEL_ID" required:"true"`
	// Channel for reward-redemption notifications (#beboas-command-center).
	NotificationChannelID string `envconfig:"NOTIFICATION_CHANNEL_ID" required:"true"`
	// Role pinged when a reward is redeemed.
	AdminRoleID string `envconfig:"ADMIN_ROLE_ID" required:"true"`

	// --- Database ---
	// Inside Docker "localhost" is almost always wrong; default to the
	// docker-compose service name and override DB_HOST=localhost locally.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"beboa"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"beboa"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// How many interactions are handled in parallel. Without a cap,
	// "a goroutine per interaction" leaks memory under button spam.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`

	// --- Chat (AI persona) ---
	OpenRouterAPIKey      string        `envconfig:"OPENROUTER_API_KEY" default:""`
	OpenRouterModel       string        `envconfig:"OPENROUTER_MODEL" default:"deepseek/deepseek-chat"`
	OpenRouterMaxTokens   int           `envconfig:"OPENROUTER_MAX_TOKENS" default:"1000"`
	OpenRouterTemperature float64       `envconfig:"OPENROUTER_TEMPERATURE" default:"0.9"`
	ChatCooldown          time.Duration `envconfig:"CHAT_COOLDOWN" default:"30s"`
	ChatMaxHistory        int           `envconfig:"CHAT_MAX_HISTORY" default:"10"`
	ChatEnabled           bool          `envconfig:"CHAT_ENABLED" default:"true"`

	// --- Rate limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN returns the PostgreSQL connection string in DSN format.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT must be > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.ChatMaxHistory < 0 {
		return fmt.Errorf("CHAT_MAX_HISTORY must be >= 0")
	}
	if c.OpenRouterMaxTokens <= 0 {
		return fmt.Errorf("OPENROUTER_MAX_TOKENS must be > 0")
	}
	return nil
}

// Load reads environment variables and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
