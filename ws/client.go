package ws

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client, tek bir WebSocket bağlantısı.
// send kanalını sadece Hub kapatır.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// readPump, istemciden gelen mesajları okur. Bağlantı kapanınca client'ı Hub'dan çıkarır.
// Bildirim kanalı tek yönlüdür; istemciden sadece heartbeat beklenir.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("unexpected close", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}
		if event.Op == OpHeartbeat {
			_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
			c.queue(Event{Op: OpHeartbeatAck})
		}
	}
}

// queue, tek bir client'a event bırakır; Hub kilidi almadan kullanılır.
func (c *Client) queue(event Event) {
	data, ok := c.hub.encode(event)
	if !ok {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, registered := c.hub.clients[c.userID][c]; registered {
		c.hub.deliver(c, data)
	}
}

// writePump, send kanalındaki mesajları yazar ve düzenli ping gönderir.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
