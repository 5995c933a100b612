package ws

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/models"
)

// TokenValidator, bağlantı kurulmadan önce access token'ı doğrular.
// services.AuthService bunu karşılar; ws → services import döngüsü oluşmaz.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*models.TokenClaims, error)
}

// Handler, GET /ws isteklerini karşılar.
type Handler struct {
	hub       *Hub
	validator TokenValidator
	upgrader  websocket.Upgrader
}

// NewHandler, Handler oluşturur. allowedOrigins boşsa tüm origin'ler kabul edilir.
func NewHandler(hub *Hub, validator TokenValidator, allowedOrigins []string) *Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Handler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// HandleConnection, ?token= ile gelen isteği doğrular ve WebSocket'e yükseltir.
// Tarayıcılar upgrade isteğinde Authorization header'ı gönderemediği için token query'dedir.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.ValidateAccessToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Debug("upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return
	}

	client := newClient(h.hub, conn, claims.UserID)
	if ready, ok := h.hub.encode(Event{Op: OpReady, Data: ReadyData{UserID: claims.UserID}}); ok {
		client.send <- ready
	}
	if !h.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
