package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// hintPayload is the suggested column for the human to move.
type hintPayload struct {
	Column     int     `json:"column"`
	Score      float64 `json:"score"`
	Depth      int     `json:"depth,omitempty"`
	NextPlayer int     `json:"next_player,omitempty"`
	MoveNumber int     `json:"move_number"`
	Active     bool    `json:"active"`
}

type HintClient struct {
	hub  *HintHub
	conn *websocket.Conn
	send chan []byte
}

type HintHub struct {
	mu        sync.Mutex
	clients   map[*HintClient]struct{}
	broadcast chan hintPayload
}

func NewHintHub() *HintHub {
	return &HintHub{
		clients:   make(map[*HintClient]struct{}),
		broadcast: make(chan hintPayload, 32),
	}
}

func (h *HintHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "hint", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *HintHub) Register(c *HintClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Publish drops the payload when the broadcast queue is full.
func (h *HintHub) Publish(payload hintPayload) {
	select {
	case h.broadcast <- payload:
	default:
		log.Debug().Int("move_number", payload.MoveNumber).Msg("hint dropped")
	}
}

func (h *HintHub) Unregister(c *HintClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *HintHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *HintClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveHintWS(hub *HintHub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("hint websocket upgrade failed")
		return
	}
	client := &HintClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("hint websocket writer stopped")
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}
