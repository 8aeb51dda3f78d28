package sink

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrTooManyConnections is returned by AddClient when the client limit is reached.
var ErrTooManyConnections = errors.New("too many websocket connections")

// Client is one connected host.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	player int64 // 0 receives every player
	once   sync.Once
}

func newClient(conn *websocket.Conn, player int64, buffer int) *Client {
	c := &Client{
		conn:   conn,
		send:   make(chan []byte, buffer),
		player: player,
	}
	go c.writePump()
	return c
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.send) })
}

func (c *Client) wants(player int64) bool {
	return c.player == 0 || c.player == player
}

// Broadcaster fans host-channel messages out to WebSocket clients.
// A client that cannot keep up misses frames rather than stalling dispatch.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	maxClients int
	sendBuffer int
	logger     *slog.Logger
}

// NewBroadcaster creates a broadcaster. maxClients <= 0 means unlimited.
func NewBroadcaster(maxClients, sendBuffer int, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Broadcaster{
		clients:    make(map[*Client]bool),
		maxClients: maxClients,
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// AddClient registers a connection. player limits delivery to one player;
// 0 subscribes to all players.
func (b *Broadcaster) AddClient(conn *websocket.Conn, player int64) (*Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxClients > 0 && len(b.clients) >= b.maxClients {
		return nil, ErrTooManyConnections
	}

	c := newClient(conn, player, b.sendBuffer)
	b.clients[c] = true
	return c, nil
}

// RemoveClient unregisters a client and closes its connection.
func (b *Broadcaster) RemoveClient(c *Client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Publish sends m to every client interested in m.Player.
func (b *Broadcaster) Publish(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		b.logger.Error("broadcast marshal failed", "player", m.Player, "kind", m.Kind, "error", err)
		return
	}

	// The read lock is held across the sends so RemoveClient and Close
	// cannot close a send channel under us. Sends never block.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		if !c.wants(m.Player) {
			continue
		}
		select {
		case c.send <- data:
		default:
			b.logger.Warn("websocket client too slow, dropping frame",
				"player", m.Player,
				"kind", m.Kind)
		}
	}
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		c.close()
	}
	b.clients = make(map[*Client]bool)
}

// ForPlayer returns a Sink that publishes messages for player.
func (b *Broadcaster) ForPlayer(player int64) Sink {
	return &playerSink{b: b, player: player}
}

type playerSink struct {
	b      *Broadcaster
	player int64
}

func (s *playerSink) Success(payload map[string]any) {
	s.b.Publish(Message{Player: s.player, Kind: KindEvent, Event: payload})
}

func (s *playerSink) Error(code, message string, details any) {
	s.b.Publish(Message{Player: s.player, Kind: KindError, Code: code, Text: message, Details: details})
}

func (s *playerSink) EndOfStream() {
	s.b.Publish(Message{Player: s.player, Kind: KindEnd})
}
