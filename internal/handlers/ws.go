package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"kadencja/internal/session"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// Client is one websocket connection
type Client struct {
	id      string
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter
}

func newClient(id string, ws *websocket.Conn, limiter *rate.Limiter) *Client {
	return &Client{
		id:      id,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		limiter: limiter,
	}
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// Enqueue queues a message without blocking; it is dropped when the queue is full
func (c *Client) Enqueue(msg []byte) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
	}
}

// Close stops the write pump and closes the socket
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes intents until the connection fails
func (c *Client) readPump(maxMessageSize int64, handle func(session.Intent), reject func(code, message string)) {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			reject("rate_limited", "Slow down")
			continue
		}
		var intent session.Intent
		if err := json.Unmarshal(payload, &intent); err != nil || intent.Type == "" {
			reject("bad_message", "Malformed message")
			continue
		}
		handle(intent)
	}
}

// ServeWS upgrades the request and runs the connection until it closes
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	c := newClient(uuid.NewString(), ws, rate.NewLimiter(h.intentRate, h.intentBurst))
	h.hub.Register(c)
	go c.writePump()

	h.logger.Debug("client connected", zap.String("conn", c.id), zap.String("remote", r.RemoteAddr))
	h.hub.Send(c.id, session.Notification{
		Type: session.NotifyConnected,
		Data: session.ConnectedPayload{ConnectionID: c.id},
	})

	c.readPump(h.maxMessageSize,
		func(intent session.Intent) { h.service.Handle(c.id, intent) },
		func(code, message string) {
			h.hub.Send(c.id, session.Notification{
				Type: session.NotifyError,
				Data: session.ErrorPayload{Code: code, Message: message},
			})
		},
	)

	h.service.Disconnect(c.id)
	h.hub.Unregister(c.id)
	c.Close()
	h.logger.Debug("client disconnected", zap.String("conn", c.id))
}
