package stream

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/status-beacon/beacon/internal/models"
)

// Connection registry for the live status stream. Subscribing with service
// id 0 receives records for every service.

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

var (
	clients   = make(map[*Client]struct{})
	clientsMu sync.RWMutex
)

// Client is one live-stream subscriber. Every write on the underlying
// connection, pings included, goes through the send queue and the single
// writer goroutine in WritePump; gorilla/websocket connections do not
// support concurrent writers.
type Client struct {
	conn      *websocket.Conn
	serviceID uint
	send      chan interface{}
	done      chan struct{}
	once      sync.Once
}

func Register(conn *websocket.Conn, serviceID uint) *Client {
	client := &Client{
		conn:      conn,
		serviceID: serviceID,
		send:      make(chan interface{}, sendBuffer),
		done:      make(chan struct{}),
	}

	clientsMu.Lock()
	clients[client] = struct{}{}
	clientsMu.Unlock()

	return client
}

// Unregister removes the client from the registry and stops its writer
// goroutine. Safe to call more than once.
func (c *Client) Unregister() {
	clientsMu.Lock()
	delete(clients, c)
	clientsMu.Unlock()

	c.once.Do(func() { close(c.done) })
}

// Enqueue hands a message to the writer goroutine. A subscriber whose queue
// is full is not keeping up with the stream; it gets dropped rather than
// blocking ingestion.
func (c *Client) Enqueue(message interface{}) {
	select {
	case <-c.done:
	case c.send <- message:
	default:
		log.Printf("Dropping slow status stream subscriber (service %d)", c.serviceID)
		c.Unregister()
	}
}

// WritePump drains the send queue onto the connection and sends the
// periodic pings that keep it alive. It is the connection's only writer and
// runs until Unregister is called or a write fails, closing the connection
// on the way out.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Unregister()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for status broadcast: %v", err)
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("Failed to write to status stream subscriber: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for ping: %v", err)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastRecord pushes a freshly ingested status record to every
// subscriber interested in its service.
func BroadcastRecord(record *models.StatusRecord) {
	clientsMu.RLock()
	targets := make([]*Client, 0, len(clients))
	for client := range clients {
		if client.serviceID == 0 || client.serviceID == record.ServiceID {
			targets = append(targets, client)
		}
	}
	clientsMu.RUnlock()

	for _, client := range targets {
		client.Enqueue(map[string]interface{}{
			"type":   "status_record",
			"record": record,
		})
	}
}
