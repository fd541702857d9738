package handlers

import (
	"errors"

	"elvalg/internal/app"
	"elvalg/internal/clients"
	"elvalg/internal/controllers"
	"elvalg/internal/handlers/middleware"
	"elvalg/internal/logger"
	"elvalg/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app)
	NewPriceHandler(*app, api).Register()
	NewLeadHandler(*app, api).Register()
	NewContractHandler(*app, api).Register()
	NewNewsletterHandler(*app, api).Register()
	NewAssistantHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/admin", app.Middleware.RequireAdmin, websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// fail maps controller errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without its details.
func (h *Handler) fail(c *fiber.Ctx, function, message string, err error) error {
	log := h.log.Function(function)

	var validationErr *controllers.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": message, "field": validationErr.Field, "error": validationErr.Reason})
	case errors.Is(err, controllers.ErrZoneRequired):
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"message": message, "zoneRequired": true, "error": err.Error()})
	case errors.Is(err, controllers.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, clients.ErrNoPrices):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": message, "error": "not found"})
	case errors.Is(err, clients.ErrNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"message": message, "error": "service is not configured"})
	}

	log.Er(message, err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"message": message, "error": "internal error"})
}

func (h *Handler) badRequest(c *fiber.Ctx, function string, err error) error {
	h.log.Function(function).Er("failed to parse request", err)
	return c.Status(fiber.StatusBadRequest).
		JSON(fiber.Map{"message": "failed to parse request"})
}
