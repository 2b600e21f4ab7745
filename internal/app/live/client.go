package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"drinkup/internal/pkg/logx"
)

const (
	// writeWait is the deadline for a single write to the connection.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong before dropping the client.
	pongWait = 60 * time.Second

	// pingPeriod is the heartbeat interval. Must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames; subscribers have nothing to say.
	maxMessageSize = 512

	sendBuffer = 32
)

// Client is one subscriber connection to a room's leaderboard feed.
// The feed is one-way: the server pushes snapshots, the client only
// answers heartbeats.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID string

	send       chan []byte
	sendMu     sync.Mutex
	sendClosed bool

	logger zerolog.Logger
}

// NewClient wraps an upgraded connection for the given hub and player.
func NewClient(hub *Hub, conn *websocket.Conn, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		playerID: playerID,
		send:     make(chan []byte, sendBuffer),
		logger: logx.Logger().With().
			Str("player_id", playerID).
			Int64("room_id", hub.roomID).
			Logger(),
	}
}

// Send queues a payload for this client only, used for the initial
// snapshot right after subscribing. Reports whether the payload fit.
// Sending to a client whose hub already shut down reports false.
func (c *Client) Send(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// ReadPump drains the connection and maintains the heartbeat deadline.
// It returns when the client disconnects, unregistering from the hub.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopChan:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Inbound data is discarded; reading only services control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Subscriber connection closed unexpectedly")
			}
			return
		}
	}
}

// WritePump delivers queued snapshots and sends periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				// Hub closed the channel: replaced connection or shutdown.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
