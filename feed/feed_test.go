package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kerbside/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWS(w, r, httprouter.Params{})
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		count := len(hub.subscribers)
		hub.mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscriber count never reached %d", n)
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	waitForSubscribers(t, hub, 1)

	sent := models.SlotEvent{
		SlotID:   "C1",
		SlotType: models.CategoryCar,
		Vacancy:  false,
		At:       time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
	}
	hub.Broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got models.SlotEvent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SlotID != sent.SlotID || got.Vacancy != sent.Vacancy || got.SlotType != sent.SlotType {
		t.Errorf("received %+v, want %+v", got, sent)
	}
}

func TestBroadcastDropsClosedConnections(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	// the write to the closed connection fails and removes it
	hub.Broadcast(models.SlotEvent{SlotID: "B1", Vacancy: true})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		count := len(hub.subscribers)
		hub.mu.Unlock()
		if count == 0 {
			return
		}
		hub.Broadcast(models.SlotEvent{SlotID: "B1", Vacancy: true})
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("closed connection never removed")
}
