package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Subscribe(w, r)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	defer hub.Close()

	first := dialHub(t, hub)
	second := dialHub(t, hub)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	due := time.Now().Add(-time.Minute)
	hub.Broadcast(NewTaskDueEvent(models.Task{
		ID:       "t1",
		UserID:   "u1",
		Title:    "Pay rent",
		Category: models.CategoryBills,
		DueDate:  &due,
	}))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var event TaskDueEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "taskDue", event.Type)
		assert.Equal(t, "t1", event.Task.ID)
		assert.Equal(t, "Pay rent", event.Task.Title)
	}
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	t.Parallel()

	hub := NewHub(zerolog.Nop())
	defer hub.Close()

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
