/*
Package live pushes leaderboard updates to room members over WebSocket.

Each room with at least one subscriber gets a Hub that fans snapshots out
to the connected clients. The Manager owns the hubs: it creates them on the
first subscription, routes published snapshots, and removes hubs that have
gone idle.
*/
package live

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"drinkup/internal/app/game"
	"drinkup/internal/pkg/logx"
)

// SnapshotType labels leaderboard messages on the wire.
const SnapshotType = "LEADERBOARD"

// Snapshot is the message sent to subscribers after every accepted intake
// log or membership change in the room.
type Snapshot struct {
	Type    string       `json:"type"`
	RoomID  int64        `json:"roomId"`
	Entries []game.Entry `json:"entries"`
}

// Manager coordinates the per-room broadcast hubs.
type Manager struct {
	mu   sync.RWMutex
	hubs map[int64]*Hub

	// cleanup receives room ids of hubs whose Run loop ended.
	cleanup chan int64

	wg     sync.WaitGroup
	logger zerolog.Logger
}

// NewManager constructs a Manager and starts its cleanup loop.
func NewManager() *Manager {
	m := &Manager{
		hubs:    make(map[int64]*Hub),
		cleanup: make(chan int64, 16),
		logger:  logx.Logger().With().Str("component", "live").Logger(),
	}

	m.wg.Add(1)
	go m.runCleanupLoop()

	return m
}

func (m *Manager) runCleanupLoop() {
	defer m.wg.Done()

	for roomID := range m.cleanup {
		m.mu.Lock()
		if _, ok := m.hubs[roomID]; ok {
			delete(m.hubs, roomID)
			m.logger.Info().Int64("room_id", roomID).Msg("Idle hub removed.")
		}
		m.mu.Unlock()
	}
}

// Hub returns the hub for roomID, creating and starting it on first use.
func (m *Manager) Hub(roomID int64) *Hub {
	m.mu.RLock()
	hub, ok := m.hubs[roomID]
	m.mu.RUnlock()

	if ok {
		return hub
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok = m.hubs[roomID]; ok {
		return hub
	}

	hub = newHub(roomID, m.cleanup)
	m.hubs[roomID] = hub

	go hub.Run()

	m.logger.Info().Int64("room_id", roomID).Msg("Hub started.")
	return hub
}

// Publish broadcasts a leaderboard snapshot to the room's subscribers.
// Rooms without an active hub have no subscribers, so the snapshot is
// simply dropped.
func (m *Manager) Publish(roomID int64, entries []game.Entry) {
	m.mu.RLock()
	hub, ok := m.hubs[roomID]
	m.mu.RUnlock()

	if !ok {
		return
	}

	payload, err := json.Marshal(Snapshot{
		Type:    SnapshotType,
		RoomID:  roomID,
		Entries: entries,
	})
	if err != nil {
		m.logger.Error().Err(err).Int64("room_id", roomID).Msg("Failed to marshal snapshot.")
		return
	}

	hub.Broadcast(payload)
}

// Shutdown stops every hub and waits for the cleanup loop to drain.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down live hubs...")

	m.mu.Lock()
	for _, hub := range m.hubs {
		hub.Stop()
	}
	m.hubs = make(map[int64]*Hub)
	m.mu.Unlock()

	close(m.cleanup)
	m.wg.Wait()

	m.logger.Info().Msg("Live manager shutdown complete.")
}
