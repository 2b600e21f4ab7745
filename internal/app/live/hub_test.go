package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// A hub that shut down on its idle timer can still be handed out by the
// Manager until the cleanup loop removes it from the map. Registering on
// such a hub must return immediately with the client rejected, never block.
func TestRegisterAfterIdleShutdown(t *testing.T) {
	cleanup := make(chan int64, 1)
	h := newHub(7, cleanup)
	h.idleTimer = time.NewTimer(5 * time.Millisecond)

	go h.Run()

	select {
	case roomID := <-cleanup:
		require.Equal(t, int64(7), roomID)
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not announce its idle shutdown")
	}

	client := NewClient(h, nil, "p1")

	done := make(chan struct{})
	go func() {
		h.Register(client)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Register blocked on an idle-stopped hub")
	}

	// The rejected client's queue is closed, so follow-up sends report
	// failure instead of panicking.
	require.False(t, client.Send([]byte(`{}`)))
}

func TestStopIsIdempotent(t *testing.T) {
	cleanup := make(chan int64, 1)
	h := newHub(7, cleanup)

	go h.Run()

	h.Stop()
	h.Stop()

	select {
	case <-cleanup:
	case <-time.After(2 * time.Second):
		t.Fatal("stopped hub did not announce its shutdown")
	}
}
