package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // Stream URL (e.g., ws://localhost:8080/ws)
	PingTimeout  time.Duration // Max time without ping/pong before considering connection stale
	PingInterval time.Duration // Keepalive ping period
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  90 * time.Second,
		PingInterval: 30 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   16,
	}
}

// FollowerConfig configures a Follower.
type FollowerConfig struct {
	URL               string        // Stream URL
	ReconnectBaseWait time.Duration // Base wait time for reconnection
	ReconnectMaxWait  time.Duration // Max wait time for reconnection
	BufferSize        int           // Snapshot channel buffer size
}

// DefaultFollowerConfig returns sensible defaults.
func DefaultFollowerConfig() FollowerConfig {
	return FollowerConfig{
		ReconnectBaseWait: time.Second,
		ReconnectMaxWait:  30 * time.Second,
		BufferSize:        16,
	}
}

// FollowerStats holds follower counters.
type FollowerStats struct {
	Connected    bool
	ClientID     string
	Connects     int64
	Snapshots    int64
	DecodeErrors int64
	Dropped      int64
}
