package live_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"drinkup/internal/app/game"
	"drinkup/internal/app/live"
)

// newSubscriberServer upgrades every request and subscribes it to the
// room's hub as playerID, sending an empty initial snapshot, the same
// sequence the WebSocket handler performs.
func newSubscriberServer(t *testing.T, m *live.Manager, roomID int64, playerID string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		initial, err := json.Marshal(live.Snapshot{
			Type:   live.SnapshotType,
			RoomID: roomID,
		})
		require.NoError(t, err)

		hub := m.Hub(roomID)
		client := live.NewClient(hub, conn, playerID)

		go client.WritePump()
		hub.Register(client)
		client.Send(initial)
		client.ReadPump()
	}))
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) live.Snapshot {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var snapshot live.Snapshot
	require.NoError(t, json.Unmarshal(payload, &snapshot))
	return snapshot
}

func TestPublishReachesSubscriber(t *testing.T) {
	m := live.NewManager()
	defer m.Shutdown()

	server := newSubscriberServer(t, m, 7, "p1")
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	// The initial snapshot confirms the subscription is registered.
	initial := readSnapshot(t, conn)
	require.Equal(t, live.SnapshotType, initial.Type)
	require.Equal(t, int64(7), initial.RoomID)
	require.Empty(t, initial.Entries)

	entries := []game.Entry{
		{Handle: "bob", IntakeMl: 1500, Intake: "1 L 500 ml"},
		{Handle: "alice", IntakeMl: 500, Intake: "500 ml"},
	}
	m.Publish(7, entries)

	update := readSnapshot(t, conn)
	require.Equal(t, live.SnapshotType, update.Type)
	require.Equal(t, int64(7), update.RoomID)
	require.Equal(t, entries, update.Entries)
}

func TestPublishWithoutSubscribersIsDropped(t *testing.T) {
	m := live.NewManager()
	defer m.Shutdown()

	// No hub exists for the room, so this must be a quiet no-op.
	m.Publish(42, []game.Entry{{Handle: "alice", IntakeMl: 100, Intake: "100 ml"}})
}

func TestReconnectReplacesPreviousConnection(t *testing.T) {
	m := live.NewManager()
	defer m.Shutdown()

	server := newSubscriberServer(t, m, 7, "p1")
	defer server.Close()

	first := dial(t, server)
	defer first.Close()
	readSnapshot(t, first)

	second := dial(t, server)
	defer second.Close()
	readSnapshot(t, second)

	// The first connection is closed once the same player reconnects.
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	require.Error(t, err)

	// The replacement connection still receives snapshots.
	m.Publish(7, []game.Entry{{Handle: "alice", IntakeMl: 250, Intake: "250 ml"}})
	update := readSnapshot(t, second)
	require.Len(t, update.Entries, 1)
}
