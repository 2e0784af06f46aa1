package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsKey is where Middleware stores the Session on the request.
const LocalsKey = "session"

// Middleware validates the session token and stores the Session in locals.
// Websocket upgrades cannot set headers from a browser, so a token query
// parameter is accepted as well.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing session token")
		}

		sess, err := svc.Parse(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(LocalsKey, sess)
		return c.Next()
	}
}

// FromCtx returns the session stored by Middleware.
func FromCtx(c *fiber.Ctx) (Session, bool) {
	sess, ok := c.Locals(LocalsKey).(Session)
	return sess, ok
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
