package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-api/internal/auth"
	"chat-api/internal/middleware"
	"chat-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func wsServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware())
	r.GET("/api/ws", WebSocketHandler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestWebSocket_ConnectRegistersAndDisconnectCleansUp(t *testing.T) {
	srv := wsServer(t)

	token, err := auth.GenerateToken("ws-user", "wsuser")
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	// The first frame is the roster, and it already includes this connection
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var env realtime.Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	require.Equal(t, realtime.EventOnlineUsers, env.Event)

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var roster []string
	require.NoError(t, json.Unmarshal(raw, &roster))
	require.Contains(t, roster, "ws-user")

	_, ok := realtime.GetHub().Lookup("ws-user")
	require.True(t, ok)

	// Closing the connection must unregister the user
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		_, ok := realtime.GetHub().Lookup("ws-user")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocket_AbruptDropTearsDownOnce(t *testing.T) {
	// Shrink the heartbeat so the failed ping fires while the reader is also
	// failing; both paths race into the same teardown.
	oldCfg := cfg
	cfg.IdleTimeout = 100 * time.Millisecond
	cfg.WriteTimeout = 50 * time.Millisecond
	defer func() { cfg = oldCfg }()

	srv := wsServer(t)

	token, err := auth.GenerateToken("drop-user", "dropuser")
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	// Kill the TCP connection without a close handshake: the read loop errors
	// and the next heartbeat write fails too.
	require.NoError(t, conn.NetConn().Close())

	require.Eventually(t, func() bool {
		_, ok := realtime.GetHub().Lookup("drop-user")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	// Both teardown paths have had time to fire; a fresh connection still
	// registers cleanly and the roster holds the user exactly once.
	time.Sleep(200 * time.Millisecond)

	conn2, resp2, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp2 != nil && resp2.Body != nil {
		resp2.Body.Close()
	}
	defer conn2.Close()

	require.NoError(t, conn2.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn2.ReadMessage()
	require.NoError(t, err)

	var env realtime.Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	require.Equal(t, realtime.EventOnlineUsers, env.Event)

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var roster []string
	require.NoError(t, json.Unmarshal(raw, &roster))

	seen := 0
	for _, id := range roster {
		if id == "drop-user" {
			seen++
		}
	}
	require.Equal(t, 1, seen)
}

func TestWebSocket_RejectsMissingToken(t *testing.T) {
	srv := wsServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Nil(t, conn)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}
