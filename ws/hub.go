package ws

import (
	"context"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Notifier, servislerin bildirim göndermek için kullandığı interface.
type Notifier interface {
	SendToUser(userID string, event Event)
	SendToUsers(userIDs []string, event Event)
	Broadcast(event Event)
}

// Hub, bağlı client'ları userID bazında tutar.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	seq atomic.Int64
	log *zap.Logger
}

// NewHub, Hub oluşturur. Run çağrılana kadar client kabul etmez.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run, register/unregister döngüsü. ctx iptal edilince tüm bağlantılar kapatılır.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Done, Run döngüsü bittiğinde kapanır.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	h.log.Debug("client connected", zap.String("user_id", c.userID), zap.Int("connections", len(set)))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, exists := set[c]; !exists {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	h.log.Debug("client disconnected", zap.String("user_id", c.userID), zap.Int("remaining", len(set)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for c := range set {
			close(c.send)
		}
	}
	h.clients = make(map[string]map[*Client]struct{})
	h.log.Info("hub stopped, all connections closed")
}

// join, client'ı kaydeder. Hub durmuşsa false döner.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave, client'ı çıkarır. Hub durmuşsa bloklamadan döner.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return nil, false
	}
	return data, true
}

// deliver, mesajı client buffer'ına bırakır. Buffer doluysa client düşürülür.
// Çağıran RLock tutmalıdır.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("send buffer full, dropping client", zap.String("user_id", c.userID))
		go h.leave(c)
	}
}

// SendToUser, kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) SendToUser(userID string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		h.deliver(c, data)
	}
}

// SendToUsers, event'i verilen kullanıcılara gönderir. Tekrarlanan ID'ler tek kez alır.
func (h *Hub) SendToUsers(userIDs []string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	seen := make(map[string]struct{}, len(userIDs))
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		for c := range h.clients[id] {
			h.deliver(c, data)
		}
	}
}

// Broadcast, bağlı tüm kullanıcılara event gönderir.
func (h *Hub) Broadcast(event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			h.deliver(c, data)
		}
	}
}

// OnlineUserIDs, bağlı kullanıcıların ID'leri.
func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
