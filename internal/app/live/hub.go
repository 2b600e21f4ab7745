package live

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"drinkup/internal/pkg/logx"
)

const (
	broadcastBuffer = 64

	// hubIdleTimeout is how long an empty hub waits before shutting down.
	hubIdleTimeout = 10 * time.Minute
)

// Hub fans leaderboard snapshots out to the subscribers of one room.
type Hub struct {
	roomID int64

	// clients maps player id to the active connection. A player opening a
	// second connection replaces the first.
	clients map[string]*Client

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// cleanupChan notifies the Manager when the Run loop has ended.
	cleanupChan chan<- int64

	stopChan  chan struct{}
	idleTimer *time.Timer

	mu     sync.RWMutex
	logger zerolog.Logger
}

func newHub(roomID int64, cleanupChan chan<- int64) *Hub {
	return &Hub{
		roomID:      roomID,
		clients:     make(map[string]*Client),
		broadcast:   make(chan []byte, broadcastBuffer),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		cleanupChan: cleanupChan,
		stopChan:    make(chan struct{}),
		idleTimer:   time.NewTimer(hubIdleTimeout),
		logger:      logx.Logger().With().Int64("room_id", roomID).Logger(),
	}
}

// Stop terminates the Run loop immediately.
func (h *Hub) Stop() {
	select {
	case <-h.stopChan:
	default:
		close(h.stopChan)
	}
}

// Register queues a client for subscription.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopChan:
		client.closeSend()
	}
}

// Broadcast queues a payload for delivery to every subscriber. Payloads
// are dropped when the hub is saturated; the next snapshot supersedes them
// anyway.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn().Msg("Broadcast channel full, snapshot dropped.")
	}
}

// Run is the hub event loop: subscriptions, broadcasts and idle shutdown.
func (h *Hub) Run() {
	defer func() {
		// Close stopChan first: a subscriber that fetched this hub right
		// before it went idle must fail fast in Register, not block on a
		// channel nobody receives from anymore.
		h.Stop()

		h.idleTimer.Stop()

		h.mu.Lock()
		for _, client := range h.clients {
			client.closeSend()
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()

		// The cleanup channel is closed during Manager shutdown; a hub
		// stopping at that exact moment must not block or panic.
		defer func() {
			if r := recover(); r != nil {
				h.logger.Warn().Msg("Cleanup notification skipped, manager already shut down.")
			}
		}()
		select {
		case h.cleanupChan <- h.roomID:
		default:
		}
	}()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()

			if existing, ok := h.clients[client.playerID]; ok {
				h.logger.Info().
					Str("player_id", client.playerID).
					Msg("Player reconnected, dropping previous connection.")
				existing.closeSend()
			}

			h.clients[client.playerID] = client

			if h.idleTimer.Stop() {
				select {
				case <-h.idleTimer.C:
				default:
				}
			}

			h.logger.Info().
				Str("player_id", client.playerID).
				Int("subscribers", len(h.clients)).
				Msg("Subscriber joined.")
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()

			if current, ok := h.clients[client.playerID]; ok && current == client {
				delete(h.clients, client.playerID)
				client.closeSend()

				h.logger.Info().
					Str("player_id", client.playerID).
					Int("subscribers", len(h.clients)).
					Msg("Subscriber left.")
			}

			if len(h.clients) == 0 {
				if h.idleTimer.Stop() {
					select {
					case <-h.idleTimer.C:
					default:
					}
				}
				h.idleTimer.Reset(hubIdleTimeout)
			}

			h.mu.Unlock()

		case payload := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- payload:
				default:
					h.logger.Warn().
						Str("player_id", client.playerID).
						Msg("Subscriber send buffer full, disconnecting.")
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()

		case <-h.idleTimer.C:
			h.logger.Info().Msgf("Hub idle for %s, shutting down.", hubIdleTimeout)
			return

		case <-h.stopChan:
			return
		}
	}
}
