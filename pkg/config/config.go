package config

import (
	"fmt"
	"time"

	"github.com/newslingo/newslingo-bot/internal/llm"
	"github.com/newslingo/newslingo-bot/internal/news"
)

// Config holds runtime configuration for the NewsLingo bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis" validate:"required"`
	LLM       llm.Config      `mapstructure:"llm" validate:"required"`
	News      news.Config     `mapstructure:"news" validate:"required"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

// BotConfig configures the Telegram transport.
type BotConfig struct {
	Token       string        `mapstructure:"token" validate:"required"`
	Mode        string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout     time.Duration `mapstructure:"timeout"`
	WebhookAddr string        `mapstructure:"webhook_addr"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, sslMode,
	)
}

// RedisConfig configures the Redis connection shared by dialog state storage
// and the job queue.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BroadcastConfig configures the daily digest job.
type BroadcastConfig struct {
	CronSpec   string        `mapstructure:"cron_spec"`
	BatchSize  int           `mapstructure:"batch_size"`
	BatchPause time.Duration `mapstructure:"batch_pause"`
}

// ServerConfig configures the metrics/health HTTP server.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig configures structured logging.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Normalize applies defaults for optional sections.
func (c *Config) Normalize() {
	if c.Bot.Mode == "" {
		c.Bot.Mode = "polling"
	}
	if c.Bot.Timeout == 0 {
		c.Bot.Timeout = 10 * time.Second
	}
	// The webhook listener must not share the metrics server's port.
	if c.Bot.WebhookAddr == "" {
		c.Bot.WebhookAddr = ":8443"
	}
	if c.Broadcast.CronSpec == "" {
		c.Broadcast.CronSpec = "0 13 * * *"
	}
	if c.Broadcast.BatchSize <= 0 {
		c.Broadcast.BatchSize = 10
	}
	if c.Broadcast.BatchPause == 0 {
		c.Broadcast.BatchPause = 5 * time.Second
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 4000
	}
}
