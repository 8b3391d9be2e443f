package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/rickgao/session-clock/internal/config"
	"github.com/rickgao/session-clock/internal/store"
)

func TestFeedPollers(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.FeedsConfig)
		want   int
	}{
		{"defaults run rates only", func(f *config.FeedsConfig) {}, 1},
		{"news with key", func(f *config.FeedsConfig) { f.News.APIKey = "k" }, 2},
		{"everything disabled", func(f *config.FeedsConfig) { f.Rates.Disabled = true }, 0},
		{"news disabled despite key", func(f *config.FeedsConfig) {
			f.News.APIKey = "k"
			f.News.Disabled = true
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeds := config.Default().Feeds
			tt.modify(&feeds)
			if got := len(feedPollers(feeds, store.New(nil, nil), nil)); got != tt.want {
				t.Errorf("len(feedPollers) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	l := newLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
}
