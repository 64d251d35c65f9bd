package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/fractal/internal/curve"
	"github.com/inamate/fractal/internal/engine"
	"github.com/inamate/fractal/internal/typeid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one viewer connection. It owns its engine; only the read pump
// mutates it.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	engine *engine.Engine
	frame  int

	SessionID string
	ClientID  string
}

// NewClient creates a client with a fresh engine built from opts.
func NewClient(hub *Hub, conn *websocket.Conn, opts engine.Options) (*Client, error) {
	c := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		SessionID: typeid.NewSessionID(),
		ClientID:  uuid.New().String(),
	}
	opts.Logger = hub.logger.With("session", c.SessionID)

	eng, err := engine.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	c.engine = eng
	return c, nil
}

// Engine returns the client's engine.
func (c *Client) Engine() *engine.Engine {
	return c.engine
}

// start greets the client and streams the current polyline. Later renders
// follow through Draw.
func (c *Client) start() error {
	c.Send(c.message(TypeWelcome, 0, WelcomePayload{
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		View:      c.engine.ViewState(),
		Stats:     c.engine.PathStats(),
	}))
	return c.engine.AddSink(c)
}

// Draw queues a path.render message. It never blocks the refine that
// produced cmds.
func (c *Client) Draw(cmds []curve.Command) error {
	c.frame++
	c.Send(c.message(TypeRender, 0, RenderPayload{
		Frame:    c.frame,
		Commands: c.engine.Compile(cmds),
	}))
	return nil
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.hub.logger.Debug("read error", "error", err, "session", c.SessionID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.logger.Warn("invalid message", "error", err, "session", c.SessionID)
			c.sendError("", 0, fmt.Errorf("invalid message: %w", err))
			continue
		}

		msg.SessionID = c.SessionID
		msg.ClientID = c.ClientID

		c.hub.handleMessage(c, &msg)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.hub.logger.Debug("write error", "error", err, "session", c.SessionID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("client send buffer full, dropping message", "session", c.SessionID, "type", msg.Type)
	}
}

func (c *Client) message(typ string, seq int64, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		c.hub.logger.Error("marshal payload", "error", err, "type", typ)
		return nil
	}
	return &Message{
		Type:      typ,
		SessionID: c.SessionID,
		Seq:       seq,
		Payload:   data,
	}
}

func (c *Client) sendError(request string, seq int64, err error) {
	c.Send(c.message(TypeError, seq, ErrorPayload{Request: request, Error: err.Error()}))
}
