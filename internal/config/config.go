package config

import (
	"time"

	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/session"
)

// Config is the root configuration for a session clock instance.
type Config struct {
	Server     ServerConfig       `yaml:"server"`
	Clock      ClockConfig        `yaml:"clock"`
	Sessions   []model.Session    `yaml:"sessions"`
	Volatility session.Volatility `yaml:"volatility"`
	Feeds      FeedsConfig        `yaml:"feeds"`
	Redis      RedisConfig        `yaml:"redis"`
	Metrics    MetricsConfig      `yaml:"metrics"`
	Logging    LoggingConfig      `yaml:"logging"`
	Stream     StreamConfig       `yaml:"stream"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ClockConfig holds clock sampling settings.
type ClockConfig struct {
	Timezone     string        `yaml:"timezone"` // IANA name for the local reading; empty uses $TZ, then the host zone
	TickInterval time.Duration `yaml:"tick_interval"`
}

// FeedsConfig groups the third-party feeds.
type FeedsConfig struct {
	Rates RatesFeedConfig `yaml:"rates"`
	News  NewsFeedConfig  `yaml:"news"`
}

// RatesFeedConfig configures the exchange-rate feed.
type RatesFeedConfig struct {
	Disabled   bool          `yaml:"disabled"`
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Base       string        `yaml:"base"` // Currency the table is quoted against
	Interval   time.Duration `yaml:"interval"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// NewsFeedConfig configures the headline feed. Without an API key the feed
// is skipped.
type NewsFeedConfig struct {
	Disabled   bool          `yaml:"disabled"`
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Category   string        `yaml:"category"`
	Language   string        `yaml:"language"`
	Query      string        `yaml:"query"`
	Limit      int           `yaml:"limit"`
	Interval   time.Duration `yaml:"interval"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// Enabled reports whether the news feed should run.
func (n NewsFeedConfig) Enabled() bool {
	return !n.Disabled && n.APIKey != ""
}

// RedisConfig configures the optional latest-value mirror. An empty Addr
// disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// StreamConfig controls the websocket hub.
type StreamConfig struct {
	SendBuffer     int           `yaml:"send_buffer"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	PongTimeout    time.Duration `yaml:"pong_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // Empty allows any origin
}
