package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/JioBaba369/Go2Culture-sub001/realtime"
)

// dialTestSocket upgrades one client as the given user against a controller
// with no store handle; commands needing the store are not exercised here.
func dialTestSocket(t *testing.T, hub *realtime.Hub, userID string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rc := &RealtimeController{hub: hub}
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { c.Set("user_id", userID) }, rc.Serve())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	client, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestServeDeliversUserFeedEvents(t *testing.T) {
	hub := realtime.NewHub()
	client := dialTestSocket(t, hub, "guest1")

	received := make(chan []byte, 1)
	go func() {
		_, payload, err := client.ReadMessage()
		if err == nil {
			received <- payload
		}
	}()

	// The session attaches moments after the upgrade response; publish until
	// the frame lands.
	deadline := time.After(2 * time.Second)
	for {
		hub.PublishToUser("guest1", realtime.Event{Type: realtime.EventNotificationNew, Data: "ping"})
		select {
		case payload := <-received:
			var ev realtime.Event
			require.NoError(t, json.Unmarshal(payload, &ev))
			require.Equal(t, realtime.EventNotificationNew, ev.Type)
			return
		case <-deadline:
			t.Fatal("event never reached the subscribed client")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestServeTearsDownOnClientClose(t *testing.T) {
	hub := realtime.NewHub()
	client := dialTestSocket(t, hub, "guest1")

	require.NoError(t, client.Close())

	// Once the read loop notices the close it detaches the session, after
	// which user publishes become no-ops instead of writes to a dead socket.
	require.Eventually(t, func() bool {
		hub.PublishToUser("guest1", realtime.Event{Type: realtime.EventNotificationNew})
		return !hub.UserOnline("guest1")
	}, 2*time.Second, 10*time.Millisecond)
}
