// internal/app/features/live/handler.go
// Package live upgrades connections to websockets and bridges them onto the
// notification hub. One connection is one hub session; the credential is
// verified before the session is registered, so an unauthenticated connect
// never reaches the hub.
package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/marcuwynu23/gitshelf/internal/app/notify"
	"github.com/marcuwynu23/gitshelf/internal/app/system/apierrors"
	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler serves the websocket endpoint.
type Handler struct {
	Hub      *notify.Hub
	Log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a live Handler.
func NewHandler(hub *notify.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers cannot set Authorization headers on websocket
			// connects; the token query parameter carries the credential
			// and origin checking adds nothing on a token API.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleConnect upgrades the request and pumps hub events onto the socket
// until either side goes away.
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentIdentity(r)
	if !ok {
		apierrors.Unauthorized(w, "missing identity")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	session := h.Hub.Register(actor.UserID)
	if session == nil {
		// Hub is shutting down.
		_ = conn.Close()
		return
	}

	h.Log.Debug("live connection opened",
		zap.String("user_id", actor.UserID),
		zap.String("session_id", session.ID))

	go h.writePump(conn, session)
	go h.readPump(conn, session)
}

// writePump drains the session channel onto the socket and keeps the
// connection alive with pings.
func (h *Handler) writePump(conn *websocket.Conn, session *notify.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, open := <-session.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.Log.Debug("live write failed",
					zap.String("session_id", session.ID),
					zap.Error(err))
				h.Hub.Unregister(session)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Hub.Unregister(session)
				return
			}
		}
	}
}

// readPump discards client frames and unregisters the session when the
// connection drops.
func (h *Handler) readPump(conn *websocket.Conn, session *notify.Session) {
	defer func() {
		h.Hub.Unregister(session)
		_ = conn.Close()
		h.Log.Debug("live connection closed",
			zap.String("user_id", session.UserID),
			zap.String("session_id", session.ID))
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
