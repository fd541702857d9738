package middleware

import (
	"context"
	"errors"
	"strings"

	"elvalg/internal/controllers"
	adminController "elvalg/internal/controllers/admin"
	"elvalg/internal/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionKey = "session"
	TokenKey   = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*adminController.Session, error)
}

type Middleware struct {
	auth Authenticator
	log  logger.Logger
}

func New(auth Authenticator) Middleware {
	return Middleware{
		auth: auth,
		log:  logger.New("middleware"),
	}
}

// RequireAdmin accepts a bearer token, or a token query parameter for
// websocket upgrades where browsers cannot set headers.
func (m Middleware) RequireAdmin(c *fiber.Ctx) error {
	log := m.log.Function("RequireAdmin")

	token := BearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		token = c.Query("token")
	}

	session, err := m.auth.Authenticate(c.UserContext(), token)
	if errors.Is(err, controllers.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "unauthorized"})
	}
	if err != nil {
		log.Er("failed to authenticate admin", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to authenticate"})
	}

	c.Locals(SessionKey, *session)
	c.Locals(TokenKey, token)

	return c.Next()
}

func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
