package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
)

var (
	ErrEmptyBotToken      = errors.New("slack bot token is required")
	ErrEmptySigningSecret = errors.New("slack signing secret is required")
)

type Config struct {
	App       AppConfig
	Slack     SlackConfig
	Database  DatabaseConfig
	Idea      IdeaConfig
	RateLimit RateLimitConfig
	Daily     DailyConfig
}

type AppConfig struct {
	Port     string `env:"PORT" env-default:"3000"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

type SlackConfig struct {
	BotToken      string `env:"SLACK_BOT_TOKEN"`
	SigningSecret string `env:"SLACK_SIGNING_SECRET"`
	// BotUserID is resolved with auth.test at start-up when empty.
	BotUserID   string `env:"SLACK_BOT_USER_ID"`
	AdminUserID string `env:"ADMIN_USER_ID"`
}

type DatabaseConfig struct {
	Path           string        `env:"DATABASE_PATH" env-default:"./ideas.db"`
	Timeout        time.Duration `env:"DATABASE_TIMEOUT" env-default:"5s"`
	MaxRetries     int           `env:"MAX_RETRIES" env-default:"3"`
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY" env-default:"1s"`
}

type IdeaConfig struct {
	TriggerWord        string        `env:"TRIGGER_WORD" env-default:"ide"`
	ChannelID          string        `env:"IDEA_CHANNEL_ID"`
	DadJokeProbability float64       `env:"DAD_JOKE_PROBABILITY" env-default:"0.3"`
	DadJokeDelay       time.Duration `env:"DAD_JOKE_DELAY" env-default:"5s"`
	ReplyDelayMin      time.Duration `env:"REPLY_DELAY_MIN" env-default:"2s"`
	ReplyDelayMax      time.Duration `env:"REPLY_DELAY_MAX" env-default:"8s"`
}

type RateLimitConfig struct {
	Window          time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	MaxRequests     int           `env:"RATE_LIMIT_MAX" env-default:"5"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

type DailyConfig struct {
	ChannelID string `env:"DAILY_CHANNEL_ID"`
	Cron      string `env:"DAILY_POST_CRON" env-default:"0 9 * * *"`
	Timezone  string `env:"DAILY_POST_TIMEZONE" env-default:"Asia/Jakarta"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	if cfg.Daily.ChannelID == "" {
		cfg.Daily.ChannelID = cfg.Idea.ChannelID
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Slack.BotToken == "" {
		return ErrEmptyBotToken
	}
	if c.Slack.SigningSecret == "" {
		return ErrEmptySigningSecret
	}
	if c.Idea.TriggerWord == "" {
		return errors.New("trigger word cannot be empty")
	}
	if c.Idea.DadJokeProbability < 0 || c.Idea.DadJokeProbability > 1 {
		return fmt.Errorf("dad joke probability must be between 0 and 1, got %v", c.Idea.DadJokeProbability)
	}
	if c.Idea.ReplyDelayMin < 0 || c.Idea.ReplyDelayMax < c.Idea.ReplyDelayMin {
		return fmt.Errorf("invalid reply delay range [%s, %s]", c.Idea.ReplyDelayMin, c.Idea.ReplyDelayMax)
	}
	if c.Database.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.Database.MaxRetries)
	}
	if c.Idea.DadJokeDelay < 0 {
		return fmt.Errorf("dad joke delay cannot be negative, got %s", c.Idea.DadJokeDelay)
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("invalid rate limit: %d requests per %s", c.RateLimit.MaxRequests, c.RateLimit.Window)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate limit cleanup interval must be positive, got %s", c.RateLimit.CleanupInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.Daily.Cron); err != nil {
		return fmt.Errorf("invalid daily post cron %q: %w", c.Daily.Cron, err)
	}
	return nil
}

// Location returns the timezone the daily post is scheduled in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Daily.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid daily post timezone %q: %w", c.Daily.Timezone, err)
	}
	return loc, nil
}
