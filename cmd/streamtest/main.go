// streamtest follows a running sessionclock's snapshot stream and prints
// each snapshot to the console.
// Usage: go run ./cmd/streamtest --url ws://localhost:8080/ws
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rickgao/session-clock/internal/connection"
	"github.com/rickgao/session-clock/internal/model"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "snapshot stream URL")
	verbose := flag.Bool("verbose", false, "print full snapshot JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	cfg := connection.DefaultFollowerConfig()
	cfg.URL = *url
	follower := connection.NewFollower(cfg, logger)

	logger.Info("connecting to stream", "url", *url)
	if err := follower.Start(ctx); err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := follower.Stats()
				logger.Info("stats",
					"connected", stats.Connected,
					"client_id", stats.ClientID,
					"connects", stats.Connects,
					"snapshots", stats.Snapshots,
					"decode_errors", stats.DecodeErrors,
					"dropped", stats.Dropped,
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			logger.Info("shutting down...")
			follower.Stop(shutdownCtx)
			logger.Info("shutdown complete")
			return
		case snap := <-follower.Snapshots():
			printSnapshot(os.Stdout, snap, *verbose)
		}
	}
}

func printSnapshot(w io.Writer, snap model.Snapshot, verbose bool) {
	if verbose {
		data, _ := json.MarshalIndent(snap, "", "  ")
		fmt.Fprintf(w, "[SNAPSHOT] %s\n", data)
		return
	}

	parts := make([]string, 0, len(snap.Statuses))
	for _, st := range snap.Statuses {
		mark := ""
		if st.IsPowerHour {
			mark = "*"
		}
		parts = append(parts, fmt.Sprintf("%s=%s%s(%s)", st.SessionID, st.Status, mark, st.Countdown))
	}
	vol := "quiet"
	if snap.Volatile {
		vol = "VOLATILE"
	}
	fmt.Fprintf(w, "[SNAPSHOT] utc=%s local=%s %s %s quotes=%d news=%d\n",
		snap.UTC.Clock(), snap.Local.Clock(), vol, strings.Join(parts, " "), len(snap.Quotes), len(snap.News))
}
