package alerthub_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brgyalert/backend/internal/alerthub"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = time.Second
const tick = 10 * time.Millisecond

func startHub(t *testing.T) *alerthub.ManagerService {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := alerthub.NewManagerService()
	go hub.Run(ctx)
	return hub
}

func TestManager_RegisterUnregister(t *testing.T) {
	hub := startHub(t)
	client := newMockClient("conn-1", 1)

	hub.Register(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, tick)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, tick)
	assert.Equal(t, 1, client.Closed())

	// second unregister is ignored
	hub.Unregister(client)
	time.Sleep(2 * tick)
	assert.Equal(t, 1, client.Closed())
}

func TestManager_UnregisterStaleClientKeepsReplacement(t *testing.T) {
	hub := startHub(t)
	old := newMockClient("conn-1", 1)
	replacement := newMockClient("conn-1", 1)

	hub.Register(old)
	hub.Register(replacement)
	hub.Unregister(old)

	hub.Broadcast(models.AlertEvent{Type: models.EventAlertCreated, AlertID: "a1"})

	select {
	case ev := <-replacement.Recv:
		assert.Equal(t, "a1", ev.AlertID)
	case <-time.After(waitFor):
		t.Fatal("replacement client did not receive event")
	}
	assert.Equal(t, 0, old.Closed())
}

func TestManager_BroadcastReachesAllClients(t *testing.T) {
	// Arrange
	hub := startHub(t)
	a := newMockClient("a", 4)
	b := newMockClient("b", 4)
	hub.Register(a)
	hub.Register(b)

	// Act
	hub.Broadcast(models.AlertEvent{Type: models.EventAlertUpdated, AlertID: "x"})

	// Assert
	for _, c := range []*MockClient{a, b} {
		select {
		case ev := <-c.Recv:
			assert.Equal(t, models.EventAlertUpdated, ev.Type)
			assert.Equal(t, "x", ev.AlertID)
		case <-time.After(waitFor):
			t.Fatalf("client %s did not receive event", c.GetID())
		}
	}
}

func TestManager_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := newMockClient("slow", 1)
	fast := newMockClient("fast", 8)
	hub.Register(slow)
	hub.Register(fast)

	hub.Broadcast(models.AlertEvent{AlertID: "1"})
	hub.Broadcast(models.AlertEvent{AlertID: "2"})

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, tick)
	assert.Equal(t, 1, slow.Closed())
	assert.Eventually(t, func() bool { return len(fast.Recv) == 2 }, waitFor, tick)
}

func TestManager_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := alerthub.NewManagerService()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	client := newMockClient("c", 1)
	hub.Register(client)

	cancel()
	<-stopped

	assert.Equal(t, 1, client.Closed())
	assert.Equal(t, 0, hub.ClientCount())
	// must not block once the hub is gone
	hub.Register(newMockClient("late", 1))
	hub.Unregister(client)
}

func TestManager_BroadcastNeverBlocks(t *testing.T) {
	hub := alerthub.NewManagerService() // not running

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Broadcast(models.AlertEvent{AlertID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Broadcast blocked on a full queue")
	}
}

func TestManager_PubSubRelay(t *testing.T) {
	// Arrange
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := storage.NewStorageService(nil, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := alerthub.NewManagerService()
	go hub.Run(ctx)
	require.NoError(t, hub.StartPubSubListener(ctx, store))

	client := newMockClient("c", 4)
	hub.Register(client)

	// Act
	require.NoError(t, store.PublishAlert(ctx, models.AlertEvent{Type: models.EventAlertDeleted, AlertID: "gone"}))

	// Assert
	select {
	case ev := <-client.Recv:
		assert.Equal(t, models.EventAlertDeleted, ev.Type)
		assert.Equal(t, "gone", ev.AlertID)
	case <-time.After(waitFor):
		t.Fatal("event not relayed from redis")
	}
}

func TestWebSocketClient_ReceivesEvents(t *testing.T) {
	hub := startHub(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := alerthub.NewWebSocketClient("ws-1", "user-1", conn, hub)
		hub.Register(client)
		client.Run()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, waitFor, tick)

	hub.Broadcast(models.AlertEvent{
		Type:    models.EventAlertCreated,
		AlertID: "a1",
		Alert:   &models.Alert{ID: "a1", Title: "Flood warning"},
	})

	conn.SetReadDeadline(time.Now().Add(waitFor))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got models.AlertEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "a1", got.AlertID)
	require.NotNil(t, got.Alert)
	assert.Equal(t, "Flood warning", got.Alert.Title)

	// closing the browser side unregisters the client
	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, tick)
}
