// sessionclock serves the forex session dashboard: the clock engine, the
// rate and news pollers, the snapshot stream and the HTTP API.
// Usage: go run ./cmd/sessionclock --config configs/sessionclock.example.yaml
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/session-clock/internal/api"
	"github.com/rickgao/session-clock/internal/clock"
	"github.com/rickgao/session-clock/internal/config"
	"github.com/rickgao/session-clock/internal/dashboard"
	"github.com/rickgao/session-clock/internal/metrics"
	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/poller"
	"github.com/rickgao/session-clock/internal/rates"
	"github.com/rickgao/session-clock/internal/server"
	"github.com/rickgao/session-clock/internal/session"
	"github.com/rickgao/session-clock/internal/store"
	"github.com/rickgao/session-clock/internal/store/redis"
	"github.com/rickgao/session-clock/internal/stream"
	"github.com/rickgao/session-clock/internal/version"
)

// component is a background worker with the Start/Stop lifecycle.
type component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	envPath := flag.String("env", config.DotEnvFile, "dotenv file loaded before config expansion")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		slog.Error("failed to load dotenv", "error", err)
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// Set up structured logging
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting sessionclock",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("sessionclock failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sessionclock stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if !cfg.Metrics.Disabled {
		metrics.Init()
	}

	loc, err := clock.LoadLocation(cfg.Clock.Timezone)
	if err != nil {
		return err
	}

	engine, err := session.NewEngine(cfg.Sessions, cfg.Volatility)
	if err != nil {
		return err
	}
	logger.Info("session table loaded",
		"sessions", len(cfg.Sessions),
		"volatility", cfg.Volatility.Name,
		"windows", engine.Windows(),
		"timezone", loc.String(),
	)

	// Latest-value store, optionally mirrored to Redis
	var mirror store.Mirror
	if cfg.Redis.Enabled() {
		m, err := redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			// The mirror is optional; run without it.
			logger.Warn("redis mirror unavailable", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer m.Close()
			mirror = m
			logger.Info("redis mirror connected", "addr", cfg.Redis.Addr)
		}
	}
	st := store.New(mirror, logger)
	if err := st.Warm(ctx); err != nil {
		logger.Warn("failed to warm store from mirror", "error", err)
	}

	hub := stream.NewHub(stream.Config{
		SendBuffer:     cfg.Stream.SendBuffer,
		WriteTimeout:   cfg.Stream.WriteTimeout,
		PingInterval:   cfg.Stream.PingInterval,
		PongTimeout:    cfg.Stream.PongTimeout,
		AllowedOrigins: cfg.Stream.AllowedOrigins,
	}, logger)
	defer hub.Close()

	dash := dashboard.New(engine, st, loc, hub, logger)

	components := []component{
		clock.NewTicker(clock.System{}, cfg.Clock.TickInterval, dash, logger),
	}
	components = append(components, feedPollers(cfg.Feeds, st, logger)...)

	for _, c := range components {
		if err := c.Start(ctx); err != nil {
			return err
		}
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer stopCancel()
		for i := len(components) - 1; i >= 0; i-- {
			if err := components[i].Stop(stopCtx); err != nil {
				logger.Warn("component stop failed", "error", err)
			}
		}
	}()

	metricsPath := cfg.Metrics.Path
	if cfg.Metrics.Disabled {
		metricsPath = ""
	}
	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MetricsPath:  metricsPath,
	}, dash, st, hub, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("sessionclock running", "addr", cfg.Server.Addr)

	return g.Wait()
}

// feedPollers builds the rate and news pollers that are enabled.
func feedPollers(feeds config.FeedsConfig, st *store.Store, logger *slog.Logger) []component {
	if logger == nil {
		logger = slog.Default()
	}
	var out []component

	if r := feeds.Rates; !r.Disabled {
		client := api.NewClient(r.BaseURL,
			api.WithAPIKey(r.APIKey),
			api.WithTimeout(r.Timeout),
			api.WithRetries(r.MaxRetries, time.Second),
			api.WithLogger(logger),
		)
		p := poller.New[rates.Table](
			poller.Config{Name: "rates", Interval: r.Interval, Timeout: r.Timeout},
			poller.FetcherFunc[rates.Table](func(ctx context.Context) (rates.Table, error) {
				return client.GetLatestRates(ctx, r.Base)
			}),
			poller.HandlerFunc[rates.Table](st.SetRates),
			logger,
		)
		p.SetObserver(metrics.FeedObserver{})
		out = append(out, p)
	} else {
		logger.Info("rates feed disabled")
	}

	if n := feeds.News; n.Enabled() {
		client := api.NewClient(n.BaseURL,
			api.WithAPIKey(n.APIKey),
			api.WithTimeout(n.Timeout),
			api.WithRetries(n.MaxRetries, time.Second),
			api.WithLogger(logger),
		)
		query := api.HeadlineQuery{
			Category: n.Category,
			Language: n.Language,
			Query:    n.Query,
			Limit:    n.Limit,
		}
		p := poller.New[[]model.Headline](
			poller.Config{Name: "news", Interval: n.Interval, Timeout: n.Timeout},
			poller.FetcherFunc[[]model.Headline](func(ctx context.Context) ([]model.Headline, error) {
				return client.GetHeadlines(ctx, query)
			}),
			poller.HandlerFunc[[]model.Headline](st.SetNews),
			logger,
		)
		p.SetObserver(metrics.FeedObserver{})
		out = append(out, p)
	} else {
		logger.Info("news feed disabled", "has_api_key", n.APIKey != "")
	}

	return out
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
