package stream

import (
	"backend-ridetrack/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the live feed. Riders may only watch their own
// stream; authMiddleware must set auth.RiderKey.
func RegisterRoutes(r fiber.Router, hub *Hub, authMiddleware fiber.Handler) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, authMiddleware)

	r.Get("/ws/:riderID", ownStreamOnly, websocket.New(func(c *websocket.Conn) {
		client := hub.Register(c.Params("riderID"))
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}))
}

func ownStreamOnly(c *fiber.Ctx) error {
	riderID := auth.RiderID(c)
	if riderID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "rider required")
	}
	if c.Params("riderID") != riderID {
		return fiber.NewError(fiber.StatusForbidden, "stream belongs to another rider")
	}
	return c.Next()
}
