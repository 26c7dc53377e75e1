package realtime

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/centerapp/backend/internal/auth"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// clientMessage is the only shape clients send. The protocol is server-push
// dominant: after authenticating, a client mostly just receives events.
type clientMessage struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Channel string `json:"channel,omitempty"`
}

// Handler owns the websocket endpoint and the per-connection auth state
// machine: Unauthenticated -> Authenticated -> Closed. A failed auth attempt
// is not fatal; the client may retry on the same connection.
type Handler struct {
	registry Registry
	verifier *auth.Verifier
	upgrader websocket.Upgrader
}

func NewHandler(registry Registry, verifier *auth.Verifier) *Handler {
	return &Handler{
		registry: registry,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and runs its read loop until disconnect.
func (h *Handler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := newWSConn(ws)
	var userID uint
	authenticated := false

	defer func() {
		if authenticated {
			// Guarded: only evicts the mapping if this connection still owns it.
			h.registry.Unregister(userID, conn)
			log.Printf("realtime: client disconnected: %d", userID)
		}
		conn.Close()
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return nil
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			// Malformed payloads are logged and ignored, never fatal.
			log.Printf("realtime: ignoring malformed message: %v", err)
			continue
		}

		switch msg.Type {
		case "auth":
			claims, err := h.verifier.Verify(msg.Token)
			if err != nil {
				conn.Send(New(KindAuthError, map[string]any{
					"message": "Invalid token",
				}))
				continue
			}
			// A second successful auth re-registers this connection under the
			// new identity. The old identity's registry entry is left in place
			// until that user connects again and replaces it; the disconnect
			// cleanup below only unregisters the latest identity.
			userID = claims.UserID
			authenticated = true
			h.registry.Register(userID, conn)
			log.Printf("realtime: client authenticated: %s", claims.Email)
			conn.Send(New(KindAuthSuccess, map[string]any{
				"message": "Authenticated",
				"userId":  claims.UserID,
				"email":   claims.Email,
			}))
		case "subscribe":
			log.Printf("realtime: subscribe channel: %s", msg.Channel)
		case "unsubscribe":
			log.Printf("realtime: unsubscribe channel: %s", msg.Channel)
		}
	}
}
