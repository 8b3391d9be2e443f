package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Fetcher retrieves one value from a feed.
type Fetcher[T any] interface {
	Fetch(ctx context.Context) (T, error)
}

// FetcherFunc is a function adapter for Fetcher.
type FetcherFunc[T any] func(ctx context.Context) (T, error)

func (f FetcherFunc[T]) Fetch(ctx context.Context) (T, error) {
	return f(ctx)
}

// Handler receives successfully fetched values.
type Handler[T any] interface {
	Handle(value T) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc[T any] func(T) error

func (f HandlerFunc[T]) Handle(v T) error {
	return f(v)
}

// Observer is notified of every fetch attempt.
type Observer interface {
	ObserveFetch(feed string, err error, elapsed time.Duration)
}

// Config holds poller configuration.
type Config struct {
	Name     string        // Feed name used in logs and metrics
	Interval time.Duration // Poll interval (default: 1m)
	Timeout  time.Duration // Per-fetch timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:     "feed",
		Interval: time.Minute,
		Timeout:  10 * time.Second,
	}
}

// Poller periodically fetches a feed value.
type Poller[T any] struct {
	cfg      Config
	fetcher  Fetcher[T]
	handler  Handler[T]
	observer Observer
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. Zero config fields take DefaultConfig values.
func New[T any](cfg Config, fetcher Fetcher[T], handler Handler[T], logger *slog.Logger) *Poller[T] {
	def := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller[T]{
		cfg:     cfg,
		fetcher: fetcher,
		handler: handler,
		logger:  logger.With("feed", cfg.Name),
	}
}

// SetObserver attaches a fetch observer. Call before Start.
func (p *Poller[T]) SetObserver(o Observer) {
	p.observer = o
}

// Start begins the polling loop.
func (p *Poller[T]) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("feed poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller[T]) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("feed poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller[T]) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.PollOnce(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(p.ctx)
		}
	}
}

// PollOnce performs a single fetch and hands the result to the handler.
// Failures are logged and returned; the handler is not called.
func (p *Poller[T]) PollOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	v, err := p.fetcher.Fetch(ctx)
	elapsed := time.Since(start)

	if p.observer != nil {
		p.observer.ObserveFetch(p.cfg.Name, err, elapsed)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) && p.ctx != nil && p.ctx.Err() != nil {
			return err
		}
		p.logger.Warn("feed fetch failed, keeping previous value",
			"err", err,
			"duration", elapsed,
		)
		return err
	}

	if p.handler != nil {
		if err := p.handler.Handle(v); err != nil {
			p.logger.Warn("feed handler failed", "err", err)
			return err
		}
	}

	p.logger.Debug("feed fetched", "duration", elapsed)
	return nil
}
