package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPeriod is the re-sample period of the dashboard clock.
const DefaultPeriod = time.Second

// TickHandler receives each sampled time.
type TickHandler interface {
	HandleTick(now time.Time)
}

// TickHandlerFunc is a function adapter for TickHandler.
type TickHandlerFunc func(time.Time)

func (f TickHandlerFunc) HandleTick(now time.Time) {
	f(now)
}

// Ticker samples a Clock on a fixed period.
type Ticker struct {
	clock   Clock
	period  time.Duration
	handler TickHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTicker creates a ticker. A nil clock uses System and a non-positive
// period uses DefaultPeriod.
func NewTicker(c Clock, period time.Duration, handler TickHandler, logger *slog.Logger) *Ticker {
	if c == nil {
		c = System{}
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ticker{
		clock:   c,
		period:  period,
		handler: handler,
		logger:  logger,
	}
}

// Start begins sampling. The first sample is taken immediately.
func (t *Ticker) Start(ctx context.Context) error {
	t.ctx, t.cancel = context.WithCancel(ctx)

	t.wg.Add(1)
	go t.run()

	t.logger.Info("clock ticker started", "period", t.period)
	return nil
}

// Stop cancels the loop and waits for it to exit.
func (t *Ticker) Stop(ctx context.Context) error {
	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("clock ticker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Ticker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	t.tick()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *Ticker) tick() {
	if t.handler != nil {
		t.handler.HandleTick(t.clock.Now())
	}
}
