package stream

import (
	"github.com/KevinDKao/running-diary/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the event socket. sessionMiddleware must store a
// session.Session under session.LocalsKey.
func RegisterRoutes(r fiber.Router, hub *Hub, sessionMiddleware fiber.Handler) {
	r.Get("/ws", sessionMiddleware, func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, websocket.New(func(c *websocket.Conn) {
		sess, ok := c.Locals(session.LocalsKey).(session.Session)
		if !ok {
			return
		}
		client := hub.Register(sess.ID)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		// Closing Send ends the writer loop.
		hub.Unregister(client)
		<-done
	}))
}
