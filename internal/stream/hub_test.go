package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/status-beacon/beacon/internal/models"
)

// dialClient stands up a websocket endpoint that registers the server side
// as a subscriber and runs its write pump, then dials it. Returns the
// subscriber, the dialed client connection, and a channel closed when the
// pump returns.
func dialClient(t *testing.T, serviceID uint) (*Client, *websocket.Conn, chan struct{}) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	registered := make(chan *Client, 1)
	pumpDone := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}

		client := Register(conn, serviceID)
		registered <- client
		client.WritePump()
		close(pumpDone)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	client := <-registered
	t.Cleanup(client.Unregister)

	return client, conn, pumpDone
}

func TestBroadcastRecord_ConcurrentBroadcasters(t *testing.T) {
	_, conn, _ := dialClient(t, 0)

	const broadcasters = 2
	const perBroadcaster = 10

	received := make(chan struct{}, broadcasters*perBroadcaster)

	go func() {
		for {
			var message map[string]interface{}
			if err := conn.ReadJSON(&message); err != nil {
				return
			}
			if message["type"] == "status_record" {
				received <- struct{}{}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < broadcasters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perBroadcaster; j++ {
				BroadcastRecord(&models.StatusRecord{
					ServiceID: 1,
					Status:    models.StatusOperational,
					CheckedAt: time.Now().UTC(),
				})
			}
		}()
	}
	wg.Wait()

	for i := 0; i < broadcasters*perBroadcaster; i++ {
		select {
		case <-received:
		case <-time.After(5 * time.Second):
			t.Fatalf("Received %d of %d broadcast records", i, broadcasters*perBroadcaster)
		}
	}
}

func TestBroadcastRecord_FiltersByService(t *testing.T) {
	_, conn, _ := dialClient(t, 7)

	BroadcastRecord(&models.StatusRecord{ServiceID: 3, Status: models.StatusDegraded, CheckedAt: time.Now().UTC()})
	BroadcastRecord(&models.StatusRecord{ServiceID: 7, Status: models.StatusOperational, CheckedAt: time.Now().UTC()})

	var message struct {
		Type   string               `json:"type"`
		Record *models.StatusRecord `json:"record"`
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}

	if message.Record == nil || message.Record.ServiceID != 7 {
		t.Fatalf("Expected record for service 7, got %+v", message.Record)
	}
}

func TestWritePump_StopsOnUnregister(t *testing.T) {
	client, _, pumpDone := dialClient(t, 0)

	client.Unregister()

	// The pump must notice immediately, not wait out a ping interval.
	select {
	case <-pumpDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Write pump still running after Unregister")
	}

	// Broadcasting to an unregistered client must be a no-op.
	BroadcastRecord(&models.StatusRecord{ServiceID: 1, Status: models.StatusOperational, CheckedAt: time.Now().UTC()})
}
