// Package ws implements the staff live order feed. Services publish pedido
// events on a Redis channel; the hub relays them to every connected dashboard
// over WebSocket. Messages carry only {tipo, pedido_id} — clients must
// re-fetch the full pedido instead of applying deltas, so late or re-ordered
// notifications can never diverge from persisted state.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CanalPedidos is the Redis pub/sub channel carrying pedido events.
const CanalPedidos = "pedidos:eventos"

// Event types relayed to staff clients.
const (
	EventoPedidoNuevo       = "pedido_nuevo"
	EventoPedidoActualizado = "pedido_actualizado"
)

// Evento is the wire envelope, both on Redis and on the WebSocket.
type Evento struct {
	Tipo     string `json:"tipo"`
	PedidoID string `json:"pedido_id"`
	Estado   string `json:"estado,omitempty"`
}

// Publicar pushes a pedido event to Redis. Best-effort: a failed publish is
// logged, never surfaced to the customer who just placed the order.
func Publicar(ctx context.Context, rdb *redis.Client, ev Evento) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal evento")
		return
	}
	if err := rdb.Publish(ctx, CanalPedidos, data).Err(); err != nil {
		log.Error().Err(err).Str("tipo", ev.Tipo).Msg("ws: publish evento")
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans Redis pedido events out to connected WebSocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the reverse proxy; the dashboard and the
			// API are served from different hosts in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run subscribes to the Redis channel and broadcasts every event until ctx is
// cancelled. Intended to run as a goroutine from the composition root.
func (h *Hub) Run(ctx context.Context, rdb *redis.Client) {
	sub := rdb.Subscribe(ctx, CanalPedidos)
	defer sub.Close()

	ch := sub.Channel()
	log.Info().Str("canal", CanalPedidos).Msg("ws: hub subscribed")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg, ok := <-ch:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer: drop the event, the client re-syncs on reconnect
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// ServeHTTP upgrades the connection and keeps it registered until it drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws: upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			close(c.send)
			delete(h.clients, c)
		}
		h.mu.Unlock()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		// Clients never send data; this loop only detects disconnects
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount reports connected dashboards (health endpoint).
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
