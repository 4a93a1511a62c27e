package broadcast

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/game"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(log.New(io.Discard))
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPublishReachesSpectator(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration goes through the hub goroutine; give it a beat before
	// publishing.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("g1", []game.Event{
		game.GameCreated{
			GameID:     "g1",
			SmallBlind: chips.MustNew(5),
			BigBlind:   chips.MustNew(10),
			PlayerIDs:  []string{"a", "b"},
		},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, "g1", env.GameID)
	assert.Equal(t, string(game.EventGameCreated), env.Kind)

	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "g1", payload["gameId"])
	assert.Equal(t, float64(10), payload["bigBlind"])
}

func TestPublishWithNoClients(t *testing.T) {
	hub, _ := startHub(t)

	// Nothing to deliver to; must not panic or block.
	hub.Publish("g1", []game.Event{
		game.PhaseChanged{GameID: "g1", Phase: game.Flop},
	})
}

func TestStopDisconnectsClients(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return // closed, as expected
		}
	}
}
