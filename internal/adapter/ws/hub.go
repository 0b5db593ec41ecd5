// Package ws implements the WebSocket adapter that relays change
// events to connected clients.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/Strob0t/StayForge/internal/port/changefeed"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// conn wraps a single WebSocket connection.
type conn struct {
	ws     *websocket.Conn
	cancel context.CancelFunc
}

// Hub manages active WebSocket connections and fans change events out
// to all of them. Clients react by reloading the affected list; the
// hub never ships row data.
type Hub struct {
	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*conn]struct{}),
	}
}

// Client is the hub's handle for one accepted connection. Broadcasts
// still reach it; Send targets it alone.
type Client struct {
	hub *Hub
	c   *conn
	ctx context.Context
}

// HandleWS upgrades the request and registers the connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	_, _ = h.Accept(w, r)
}

// Accept upgrades the request, registers the connection, and returns
// a Client for per-connection messages. The client's Context is done
// once the peer disconnects.
func (h *Hub) Accept(w http.ResponseWriter, r *http.Request) (*Client, error) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return nil, err
	}

	// The connection outlives the upgrade request, whose context is
	// cancelled as soon as the handler returns.
	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{ws: ws, cancel: cancel}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	slog.Info("websocket connected", "remote", r.RemoteAddr)

	// Read loop (to detect disconnects and consume pings)
	go func() {
		defer func() {
			h.remove(c)
			_ = ws.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			_, _, err := ws.Read(ctx)
			if err != nil {
				return
			}
		}
	}()

	return &Client{hub: h, c: c, ctx: ctx}, nil
}

// Context is cancelled when the connection goes away.
func (cl *Client) Context() context.Context {
	return cl.ctx
}

// Send writes a typed message to this connection only.
func (cl *Client) Send(msgType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Message{Type: msgType, Payload: data})
	if err != nil {
		return err
	}
	return cl.c.ws.Write(cl.ctx, websocket.MessageText, msg)
}

// Close drops the connection.
func (cl *Client) Close() {
	cl.hub.remove(cl.c)
}

// BroadcastChange sends a change event to all connected clients.
func (h *Hub) BroadcastChange(ctx context.Context, e changefeed.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}
	h.broadcast(ctx, Message{Type: "change", Payload: payload})
}

func (h *Hub) broadcast(ctx context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns {
		if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("websocket write failed", "error", err)
			go h.remove(c)
		}
	}
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c]; ok {
		c.cancel()
		delete(h.conns, c)
		slog.Info("websocket disconnected")
	}
}
