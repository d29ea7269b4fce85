package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/snapshot-relay/pubsub"
)

const (
	writeWait = 5 * time.Second
	sendQueue = 16
)

// client tem uma fila própria; writeLoop é o único writer da conexão
// (gorilla aceita um writer por vez). Cliente lento só perde as próprias mensagens.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendQueue), done: make(chan struct{})}
}

// enqueue não bloqueia: com a fila cheia a mensagem é descartada
func (c *client) enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

func (c *client) write(v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.enqueue(b)
}

func (c *client) writeLoop() {
	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				// derruba a leitura e, com ela, o HandleWS
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Hub gerencia conexões WebSocket e assinaturas por partida
// subs: mapeia matchID para o conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	mu       sync.RWMutex
	subs     map[string]map[*client]struct{}

	OnBroadcast func(delivered int) // métricas
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*client]struct{}),
	}
}

// Subscribers conta os clientes inscritos numa partida
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe em partidas e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn)
	defer conn.Close()
	defer close(c.done)
	defer h.drop(c)
	go c.writeLoop()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe", "unsubscribe":
			if msg.MatchID == "" {
				_ = c.write(ServerMsg{Type: "error", Error: "matchId required"})
				continue
			}
			if msg.Type == "subscribe" {
				h.subscribe(c, msg.MatchID)
			} else {
				h.unsubscribe(c, msg.MatchID)
			}
			_ = c.write(ServerMsg{Type: msg.Type + "d", MatchID: msg.MatchID})
		case "ping":
			_ = c.write(ServerMsg{Type: "pong"})
		default:
			_ = c.write(ServerMsg{Type: "error", Error: "unknown type " + msg.Type})
		}
	}
}

func (h *Hub) subscribe(c *client, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[matchID]; !ok {
		h.subs[matchID] = make(map[*client]struct{})
	}
	h.subs[matchID][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[matchID]; ok {
		delete(m, c)
		if len(m) == 0 {
			delete(h.subs, matchID)
		}
	}
}

// drop remove a conexão de todas as assinaturas ao desconectar
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, id)
		}
	}
}

// Broadcast enfileira o update para todos os clientes inscritos na partida.
// delivered conta os enfileirados; fila cheia descarta o update daquele cliente.
func (h *Hub) Broadcast(update pubsub.WSUpdate) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[update.MatchID]))
	for c := range h.subs[update.MatchID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, err := json.Marshal(update)
	if err != nil {
		h.log.Warn("ws marshal failed", zap.Error(err))
		return
	}
	delivered := 0
	for _, c := range targets {
		if c.enqueue(b) {
			delivered++
		} else {
			h.log.Debug("ws client queue full, update dropped", zap.String("match_id", update.MatchID))
		}
	}
	if h.OnBroadcast != nil {
		h.OnBroadcast(delivered)
	}
}
