package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Envelope is the JSON frame exchanged on the live chat channel.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// wsClient wraps a connection with a write lock; broadcasts originate from
// every reader goroutine, and gorilla connections allow one concurrent
// writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub relays chat_message envelopes to every connected client. No sessions,
// no acknowledgements; a send failure drops that one client only.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates an empty relay hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST layer already allows any origin; the relay matches.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades GET /ws and pumps inbound frames until the client goes
// away. Malformed frames are logged and discarded; the connection stays
// open.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARN: [WS] Upgrade failed for %s: %v", c.ClientIP(), err)
		return
	}

	client := &wsClient{conn: conn}
	h.register(client)
	log.Printf("INFO: [WS] New connection from %s (%d active)", c.ClientIP(), h.ClientCount())
	defer func() {
		h.unregister(client)
		conn.Close()
		log.Printf("INFO: [WS] Connection from %s closed (%d active)", c.ClientIP(), h.ClientCount())
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			log.Printf("WARN: [WS] Discarding malformed frame from %s: %v", c.ClientIP(), err)
			continue
		}
		if envelope.Type != "chat_message" {
			continue
		}

		h.Broadcast(Envelope{
			Type:      "chat_message",
			Data:      envelope.Data,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Broadcast sends an envelope to every connected client. Failed clients are
// dropped without affecting delivery to the rest.
func (h *Hub) Broadcast(envelope Envelope) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("ERROR: [WS] Failed to marshal broadcast envelope: %v", err)
		return
	}

	h.mu.Lock()
	targets := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.Unlock()

	for _, client := range targets {
		if err := client.send(payload); err != nil {
			log.Printf("WARN: [WS] Dropping client after failed send: %v", err)
			h.unregister(client)
			client.conn.Close()
		}
	}
}

// ClientCount reports the number of active connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) unregister(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}
