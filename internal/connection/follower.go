package connection

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/stream"
)

// Follower keeps a stream connection open and decodes snapshots.
type Follower struct {
	cfg    FollowerConfig
	logger *slog.Logger

	snapshots chan model.Snapshot

	mu       sync.RWMutex
	client   Client
	clientID string

	connects     atomic.Int64
	received     atomic.Int64
	decodeErrors atomic.Int64
	dropped      atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFollower creates a follower. Zero config fields take
// DefaultFollowerConfig values.
func NewFollower(cfg FollowerConfig, logger *slog.Logger) *Follower {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultFollowerConfig()
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = def.ReconnectBaseWait
	}
	if cfg.ReconnectMaxWait <= 0 {
		cfg.ReconnectMaxWait = def.ReconnectMaxWait
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	return &Follower{
		cfg:       cfg,
		logger:    logger,
		snapshots: make(chan model.Snapshot, cfg.BufferSize),
	}
}

// Start connects and begins following. The first connection attempt is
// synchronous so configuration errors surface immediately.
func (f *Follower) Start(ctx context.Context) error {
	f.ctx, f.cancel = context.WithCancel(ctx)

	c, err := f.dial()
	if err != nil {
		f.cancel()
		return err
	}

	f.wg.Add(1)
	go f.readLoop(c)

	f.logger.Info("stream follower started", "url", f.cfg.URL)
	return nil
}

// Stop closes the connection and waits for the loops to exit.
func (f *Follower) Stop(ctx context.Context) error {
	if f.cancel != nil {
		f.cancel()
	}

	f.mu.RLock()
	c := f.client
	f.mu.RUnlock()
	if c != nil {
		c.Close()
	}

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		f.logger.Info("stream follower stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshots returns the decoded snapshot channel.
func (f *Follower) Snapshots() <-chan model.Snapshot {
	return f.snapshots
}

// Stats returns follower counters.
func (f *Follower) Stats() FollowerStats {
	f.mu.RLock()
	c, id := f.client, f.clientID
	f.mu.RUnlock()

	return FollowerStats{
		Connected:    c != nil && c.IsConnected(),
		ClientID:     id,
		Connects:     f.connects.Load(),
		Snapshots:    f.received.Load(),
		DecodeErrors: f.decodeErrors.Load(),
		Dropped:      f.dropped.Load(),
	}
}

func (f *Follower) dial() (Client, error) {
	cfg := DefaultClientConfig()
	cfg.URL = f.cfg.URL

	c := NewClient(cfg, f.logger)
	if err := c.Connect(f.ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.client = c
	f.mu.Unlock()
	f.connects.Add(1)
	return c, nil
}

// readLoop decodes frames from c until it fails, then reconnects.
func (f *Follower) readLoop(c Client) {
	defer f.wg.Done()

	for {
		select {
		case <-f.ctx.Done():
			return

		case err := <-c.Errors():
			f.logger.Warn("stream connection error", "err", err)
			f.wg.Add(1)
			go f.reconnect(c)
			return

		case msg, ok := <-c.Messages():
			if !ok {
				return
			}
			f.handleFrame(msg)
		}
	}
}

func (f *Follower) handleFrame(msg TimestampedMessage) {
	var env stream.Message
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		f.decodeErrors.Add(1)
		f.logger.Debug("undecodable frame", "err", err)
		return
	}

	switch env.Type {
	case stream.TypeHello:
		var hello stream.Hello
		if err := json.Unmarshal(env.Data, &hello); err == nil {
			f.mu.Lock()
			f.clientID = hello.ClientID
			f.mu.Unlock()
			f.logger.Debug("stream hello", "client", hello.ClientID, "server_version", hello.Version)
		}

	case stream.TypeSnapshot:
		snap, err := stream.DecodeSnapshot(msg.Data)
		if err != nil {
			f.decodeErrors.Add(1)
			f.logger.Debug("undecodable snapshot", "err", err)
			return
		}
		f.received.Add(1)

		select {
		case f.snapshots <- snap:
		case <-f.ctx.Done():
		default:
			f.dropped.Add(1)
		}

	default:
		f.logger.Debug("ignoring frame", "type", env.Type)
	}
}

// reconnect attempts to reconnect with exponential backoff.
func (f *Follower) reconnect(old Client) {
	defer f.wg.Done()

	old.Close()

	wait := f.cfg.ReconnectBaseWait
	for {
		select {
		case <-f.ctx.Done():
			return
		case <-time.After(wait):
		}

		f.logger.Info("attempting reconnection", "url", f.cfg.URL)

		c, err := f.dial()
		if err != nil {
			f.logger.Warn("reconnection failed", "err", err, "next_wait", wait*2)

			wait *= 2
			if wait > f.cfg.ReconnectMaxWait {
				wait = f.cfg.ReconnectMaxWait
			}
			continue
		}

		f.logger.Info("reconnected", "url", f.cfg.URL)

		f.wg.Add(1)
		go f.readLoop(c)
		return
	}
}
