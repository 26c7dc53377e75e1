package handlers

import (
	"context"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/realtime"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user ID set by the JWT
// middleware. Returns 0 when the request carries no valid identity.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// announce hands a live event to the background runner. The fan-out runs off
// the request goroutine, so a stalled connection burns its own write deadline
// without delaying the producer's response.
func announce(notifier *notify.Service, bus *realtime.Bus, event realtime.Event) {
	notifier.Background().Go("live-fanout", func(ctx context.Context) {
		bus.Broadcast(event)
	})
}
