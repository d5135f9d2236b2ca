package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"kerbside/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; adjust for production if needed
		return true
	},
}

// Hub fans slot occupancy changes out to websocket subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers []*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{}
}

// HandleWS upgrades the request and holds the connection open until the
// client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.subscribers = append(h.subscribers, conn)
	h.mu.Unlock()

	for {
		// Keep the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	conn.Close()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	newList := make([]*websocket.Conn, 0, len(h.subscribers))
	for _, c := range h.subscribers {
		if c != conn {
			newList = append(newList, c)
		}
	}
	h.subscribers = newList
}

// Broadcast pushes one slot event to every subscriber, dropping
// connections whose writes fail.
func (h *Hub) Broadcast(event models.SlotEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("feed: marshal slot event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	newList := h.subscribers[:0]
	for _, conn := range h.subscribers {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	h.subscribers = newList
}
