// Package redis mirrors the latest feed values into Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rickgao/session-clock/internal/rates"
	"github.com/rickgao/session-clock/internal/store"
)

// DefaultPrefix namespaces every key written by the mirror.
const DefaultPrefix = "sessionclock:"

const (
	keyRates = "rates:latest"
	keyNews  = "news:latest"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Default: DefaultPrefix
	TTL      time.Duration // 0 keeps keys forever
}

// kv is the subset of the Redis client used by the mirror.
type kv interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Mirror implements store.Mirror on Redis.
type Mirror struct {
	client kv
	prefix string
	ttl    time.Duration
}

var _ store.Mirror = (*Mirror)(nil)

// New connects a mirror. The connection is checked with PING.
func New(ctx context.Context, cfg Config) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return newMirror(client, cfg.Prefix, cfg.TTL), nil
}

func newMirror(client kv, prefix string, ttl time.Duration) *Mirror {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Mirror{client: client, prefix: prefix, ttl: ttl}
}

// Close closes the Redis connection.
func (m *Mirror) Close() error {
	return m.client.Close()
}

// SaveRates stores the rate table.
func (m *Mirror) SaveRates(ctx context.Context, t rates.Table) error {
	return m.set(ctx, keyRates, t)
}

// LoadRates reads the rate table. ok is false when nothing is stored.
func (m *Mirror) LoadRates(ctx context.Context) (rates.Table, bool, error) {
	var t rates.Table
	ok, err := m.get(ctx, keyRates, &t)
	return t, ok, err
}

// SaveNews stores the headline set.
func (m *Mirror) SaveNews(ctx context.Context, n store.News) error {
	return m.set(ctx, keyNews, n)
}

// LoadNews reads the headline set. ok is false when nothing is stored.
func (m *Mirror) LoadNews(ctx context.Context) (store.News, bool, error) {
	var n store.News
	ok, err := m.get(ctx, keyNews, &n)
	return n, ok, err
}

func (m *Mirror) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := m.client.Set(ctx, m.prefix+key, data, m.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (m *Mirror) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := m.client.Get(ctx, m.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
