package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/session-clock/internal/clock"
	"github.com/rickgao/session-clock/internal/session"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	if c.Clock.TickInterval < 10*time.Millisecond {
		return fmt.Errorf("clock.tick_interval must be >= 10ms, got %s", c.Clock.TickInterval)
	}
	if _, err := clock.LoadLocation(c.Clock.Timezone); err != nil {
		return fmt.Errorf("clock.timezone: %w", err)
	}

	if err := session.ValidateSessions(c.Sessions); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if c.Volatility.Mode == session.VolatilityDerived && len(c.Volatility.Sessions) == 0 {
		return errors.New("volatility.sessions is required in derived mode")
	}
	if _, err := c.Volatility.Resolve(c.Sessions); err != nil {
		return fmt.Errorf("volatility: %w", err)
	}

	if !c.Feeds.Rates.Disabled {
		if err := validateFeed("feeds.rates", c.Feeds.Rates.BaseURL, c.Feeds.Rates.Interval, c.Feeds.Rates.MaxRetries); err != nil {
			return err
		}
		if len(c.Feeds.Rates.Base) != 3 {
			return fmt.Errorf("feeds.rates.base must be a 3-letter currency code, got %q", c.Feeds.Rates.Base)
		}
	}
	if c.Feeds.News.Enabled() {
		if err := validateFeed("feeds.news", c.Feeds.News.BaseURL, c.Feeds.News.Interval, c.Feeds.News.MaxRetries); err != nil {
			return err
		}
		if c.Feeds.News.Limit < 1 {
			return errors.New("feeds.news.limit must be >= 1")
		}
	}

	if c.Redis.Enabled() && c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if !c.Metrics.Disabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Stream.SendBuffer < 1 {
		return errors.New("stream.send_buffer must be >= 1")
	}
	if c.Stream.PongTimeout <= c.Stream.PingInterval {
		return fmt.Errorf("stream.pong_timeout (%s) must exceed stream.ping_interval (%s)",
			c.Stream.PongTimeout, c.Stream.PingInterval)
	}

	return nil
}

func validateFeed(prefix, baseURL string, interval time.Duration, retries int) error {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s.base_url must be an http(s) URL, got %q", prefix, baseURL)
	}
	if interval < time.Second {
		return fmt.Errorf("%s.interval must be >= 1s, got %s", prefix, interval)
	}
	if retries < 0 {
		return fmt.Errorf("%s.max_retries must be >= 0", prefix)
	}
	return nil
}

// ParseLevel maps a logging.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", s)
	}
}
