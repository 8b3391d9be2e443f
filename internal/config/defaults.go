package config

import (
	"time"

	"github.com/rickgao/session-clock/internal/session"
)

// Default values for optional configuration fields.
const (
	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultTickInterval = time.Second

	DefaultRatesURL      = "https://open.er-api.com/v6"
	DefaultRatesBase     = "USD"
	DefaultRatesInterval = time.Minute

	DefaultNewsURL      = "https://newsapi.org/v2"
	DefaultNewsCategory = "business"
	DefaultNewsLanguage = "en"
	DefaultNewsLimit    = 10
	DefaultNewsInterval = 5 * time.Minute

	DefaultFeedTimeout = 10 * time.Second

	DefaultRedisPrefix = "sessionclock:"
	DefaultRedisTTL    = 10 * time.Minute

	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultStreamSendBuffer   = 4
	DefaultStreamWriteTimeout = 10 * time.Second
	DefaultStreamPingInterval = 30 * time.Second
	DefaultStreamPongTimeout  = 60 * time.Second
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Clock.TickInterval == 0 {
		c.Clock.TickInterval = DefaultTickInterval
	}

	// Session table defaults
	if len(c.Sessions) == 0 {
		c.Sessions = session.DefaultSessions()
	}
	if c.Volatility.Mode == "" {
		def := session.DefaultVolatility()
		c.Volatility.Mode = def.Mode
		if len(c.Volatility.Sessions) == 0 {
			c.Volatility.Sessions = def.Sessions
		}
	}
	if c.Volatility.Name == "" {
		c.Volatility.Name = session.DefaultVolatility().Name
	}

	// Feed defaults
	r := &c.Feeds.Rates
	if r.BaseURL == "" {
		r.BaseURL = DefaultRatesURL
	}
	if r.Base == "" {
		r.Base = DefaultRatesBase
	}
	if r.Interval == 0 {
		r.Interval = DefaultRatesInterval
	}
	if r.Timeout == 0 {
		r.Timeout = DefaultFeedTimeout
	}

	n := &c.Feeds.News
	if n.BaseURL == "" {
		n.BaseURL = DefaultNewsURL
	}
	if n.Category == "" && n.Query == "" {
		n.Category = DefaultNewsCategory
	}
	if n.Language == "" {
		n.Language = DefaultNewsLanguage
	}
	if n.Limit == 0 {
		n.Limit = DefaultNewsLimit
	}
	if n.Interval == 0 {
		n.Interval = DefaultNewsInterval
	}
	if n.Timeout == 0 {
		n.Timeout = DefaultFeedTimeout
	}

	// Redis defaults
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisPrefix
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultRedisTTL
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	// Stream defaults
	if c.Stream.SendBuffer == 0 {
		c.Stream.SendBuffer = DefaultStreamSendBuffer
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultStreamWriteTimeout
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = DefaultStreamPingInterval
	}
	if c.Stream.PongTimeout == 0 {
		c.Stream.PongTimeout = DefaultStreamPongTimeout
	}
}
