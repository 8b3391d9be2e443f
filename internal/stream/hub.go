package stream

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/session-clock/internal/metrics"
	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/version"
)

// ErrHubClosed is returned when upgrading after Close.
var ErrHubClosed = errors.New("stream hub closed")

// Config holds hub configuration.
type Config struct {
	SendBuffer     int           // Frames queued per client (default: 4)
	WriteTimeout   time.Duration // Per-frame write deadline (default: 10s)
	PingInterval   time.Duration // Keepalive ping period (default: 30s)
	PongTimeout    time.Duration // Read deadline extended by each pong (default: 60s)
	AllowedOrigins []string      // Empty allows any origin
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   4,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = d.PingInterval
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = d.PongTimeout
	}
	return c
}

// Hub fans snapshots out to connected clients.
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	last    []byte
	closed  bool
}

// NewHub creates a hub.
func NewHub(cfg Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	h := &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[uuid.UUID]*client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(h.cfg.AllowedOrigins, origin)
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, ErrHubClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{
		id:   uuid.New(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}

	if hello, err := Encode(TypeHello, Hello{ClientID: c.id.String(), Version: version.Version}); err == nil {
		c.enqueue(hello)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	if h.last != nil {
		c.enqueue(h.last)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetStreamClients(n)
	h.logger.Debug("stream client connected", "client", c.id, "remote", r.RemoteAddr, "clients", n)

	go c.writePump()
	go c.readPump()
}

// Publish sends the snapshot to every client.
func (h *Hub) Publish(snap model.Snapshot) {
	frame, err := Encode(TypeSnapshot, snap)
	if err != nil {
		h.logger.Error("failed to encode snapshot", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.last = frame
	for _, c := range h.clients {
		c.enqueue(frame)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[uuid.UUID]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
	metrics.SetStreamClients(0)
	h.logger.Info("stream hub closed", "clients", len(clients))
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.SetStreamClients(n)
		h.logger.Debug("stream client disconnected", "client", c.id, "clients", n)
	}
}

// client is one WebSocket connection.
type client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	once sync.Once
	done chan struct{}
}

// enqueue queues a frame without blocking, dropping the oldest when full.
func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (c *client) stop() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *client) writePump() {
	cfg := c.hub.cfg
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.hub.logger.Debug("stream write failed", "client", c.id, "err", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(cfg.WriteTimeout)); err != nil {
				c.hub.logger.Debug("stream ping failed", "client", c.id, "err", err)
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer c.stop()

	cfg := c.hub.cfg
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	})

	for {
		// Inbound frames carry nothing; reading drives pong and close handling.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
