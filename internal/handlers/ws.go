package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/status-beacon/beacon/internal/stream"
	"github.com/status-beacon/beacon/internal/types"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

// StatusStream upgrades the connection and streams newly ingested status
// records. An optional service_id query parameter narrows the stream to one
// service; without it the client receives records for all services.
func StatusStream(c *gin.Context) {
	var serviceID uint

	if raw := c.Query("service_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service_id"})
			return
		}
		serviceID = uint(parsed)
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	client := stream.Register(conn, serviceID)

	defer func() {
		client.Unregister()
		log.Printf("Status stream connection closed (service %d)", serviceID)
	}()

	// The pump is the connection's only writer; it also owns pings and
	// closes the connection when it exits.
	go client.WritePump()

	client.Enqueue(map[string]interface{}{
		"type":       "connected",
		"message":    "Status stream established",
		"service_id": serviceID,
	})

	// Drain the connection; the client only listens, so any read error
	// means it went away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
