package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"chat-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsClient implements realtime.Handle by wrapping a websocket connection.
type wsClient struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	// Serializes writes: the hub and the router push from different request
	// goroutines, and gorilla allows only one concurrent writer.
	writeMu sync.Mutex
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return cfg.OriginAllowed(r.Header.Get("Origin"))
	},
}

// WebSocketHandler upgrades the connection and registers the client to the hub.
// It requires JWT middleware to have set "user_id" in context; a connection
// without an identity is never registered and never touches the roster.
func WebSocketHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := &wsClient{conn: conn, writeTimeout: cfg.WriteTimeout}
	hub := realtime.GetHub()
	hub.Register(userID, client)

	// Teardown runs exactly once no matter which path fires first: normal
	// close, transport error, idle timeout, or a failed ping.
	var teardownOnce sync.Once
	teardown := func() {
		teardownOnce.Do(func() {
			hub.Unregister(userID, client)
			client.Close()
		})
	}
	defer teardown()

	// Heartbeat: send periodic pings; a failed ping tears the connection down
	pingTicker := time.NewTicker(cfg.IdleTimeout / 2)
	done := make(chan struct{})
	go func() {
		defer pingTicker.Stop()
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(cfg.WriteTimeout)); err != nil {
					teardown()
					return
				}
			}
		}
	}()
	defer close(done)

	// Reader loop: drain messages and keep connection alive via pong handler
	conn.SetReadLimit(cfg.MaxPayloadBytes)
	conn.SetReadDeadline(time.Now().Add(cfg.IdleTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(cfg.IdleTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// Normal close, transport error, or idle timeout; exit loop
			return
		}
	}
}
