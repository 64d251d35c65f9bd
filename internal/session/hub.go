// Package session serves viewer sessions over websockets. Every connection
// gets its own engine; nothing is shared between viewers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/fractal/internal/engine"
)

// ErrHubClosed is returned when registering with a hub that has stopped.
var ErrHubClosed = errors.New("session: hub closed")

type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run tracks clients until ctx is cancelled, then closes every remaining
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// Unregister removes client from the hub. After the hub has stopped it only
// releases the client's engine, on the caller's goroutine, which is the one
// that owns the engine.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.engine.Close()
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve runs a viewer session on conn until the connection closes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, opts engine.Options) error {
	client, err := NewClient(h, conn, opts)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "could not create session")
		return err
	}
	if err := client.start(); err != nil {
		client.engine.Close()
		conn.Close(websocket.StatusInternalError, "could not render")
		return fmt.Errorf("start session: %w", err)
	}
	if err := h.Register(client); err != nil {
		client.engine.Close()
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return err
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ClientID] = client
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client joined", "session", client.SessionID, "client", client.ClientID, "clients", n)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ClientID)
	close(client.send)
	n := len(h.clients)
	h.mu.Unlock()

	client.engine.Close()
	h.logger.Info("client left", "session", client.SessionID, "client", client.ClientID, "clients", n)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if c.conn != nil {
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
	h.logger.Info("hub stopped", "clients", len(clients))
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	var err error
	switch msg.Type {
	case TypePan:
		var p PanPayload
		if err = decode(msg, &p); err == nil {
			err = sender.engine.Pan(p.DX, p.DY)
		}
	case TypePanRelative:
		var p PanRelativePayload
		if err = decode(msg, &p); err == nil {
			err = sender.engine.PanRelative(p.FX, p.FY)
		}
	case TypeZoom:
		var p ZoomPayload
		if err = decode(msg, &p); err == nil {
			err = sender.engine.Zoom(p.Factor, p.X, p.Y)
		}
	case TypeResize:
		var p ResizePayload
		if err = decode(msg, &p); err == nil {
			err = sender.engine.Resize(p.Width, p.Height)
		}
	case TypeStats:
		sender.Send(sender.message(TypeStats, msg.Seq, sender.engine.PathStats()))
		return
	default:
		h.logger.Warn("unknown message type", "type", msg.Type, "session", sender.SessionID)
		sender.sendError(msg.Type, msg.Seq, fmt.Errorf("unknown message type %q", msg.Type))
		return
	}

	if err != nil {
		h.logger.Warn("view command failed", "type", msg.Type, "error", err, "session", sender.SessionID)
		sender.sendError(msg.Type, msg.Seq, err)
	}
	sender.Send(sender.message(TypeViewState, msg.Seq, ViewStatePayload{
		View:  sender.engine.ViewState(),
		Level: sender.engine.PathStats().Level,
	}))
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return nil
}
