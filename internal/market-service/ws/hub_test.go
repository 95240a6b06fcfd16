package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_SubscribedClientReceivesUpdate(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", MarketID: "m1"}))

	// o subscribe é processado pela goroutine da conexão
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subs["m1"]) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(Update{MarketID: "m1", Type: "market_settled", Payload: map[string]string{"winner": "Alice"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var upd Update
	require.NoError(t, json.Unmarshal(msg, &upd))
	assert.Equal(t, "m1", upd.MarketID)
	assert.Equal(t, "market_settled", upd.Type)
}

func TestHub_UnsubscribedMarketNotDelivered(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", MarketID: "m1"}))
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subs["m1"]) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(Update{MarketID: "outro-mercado", Type: "new_comment"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "nada deve chegar para mercado não inscrito")
}

func TestHub_ConcurrentBroadcastAndPing(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", MarketID: "m1"}))
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.subs["m1"]) == 1
	}, time.Second, 10*time.Millisecond)

	const n = 50

	// broadcasts e pongs escrevem na mesma conexão ao mesmo tempo
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			hub.Broadcast(Update{MarketID: "m1", Type: "market_settled"})
		}
	}()
	for i := 0; i < n; i++ {
		require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	}

	pongs, updates := 0, 0
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for pongs < n || updates < n {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(msg, &m))
		switch m["type"] {
		case "pong":
			pongs++
		case "market_settled":
			updates++
		}
	}
	<-done
	assert.Equal(t, n, pongs)
	assert.Equal(t, n, updates)
}

func TestHub_PingPong(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var resp map[string]string
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "pong", resp["type"])
}
