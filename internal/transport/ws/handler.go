package ws

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/memesocial/mockchat/internal/transport/http/middleware"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	hub       *Hub
	jwtSecret string
	log       *zap.Logger
}

func NewHandler(hub *Hub, jwtSecret string, log *zap.Logger) *Handler {
	return &Handler{hub: hub, jwtSecret: jwtSecret, log: log}
}

// ServeWS handles GET /ws?token=<jwt>. Browsers cannot set an Authorization
// header on websocket handshakes, so the token rides the query string.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	user, err := middleware.ParseUserToken(tokenStr, h.jwtSecret)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn("ws accept failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, user.ID, h.log)
	h.hub.register <- client

	go client.WritePump(r.Context())
	client.ReadPump(r.Context())
}
