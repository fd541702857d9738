package handlers

import (
	"elvalg/internal/app"
	newsletterController "elvalg/internal/controllers/newsletter"
	"elvalg/internal/logger"
	. "elvalg/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NewsletterHandler struct {
	Handler
	controller *newsletterController.NewsletterController
}

func NewNewsletterHandler(app app.App, router fiber.Router) *NewsletterHandler {
	log := logger.New("handlers").File("newsletter_handler")
	return &NewsletterHandler{
		controller: app.NewsletterController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NewsletterHandler) Register() {
	h.router.Post("/newsletter", h.subscribe)
}

func (h *NewsletterHandler) subscribe(c *fiber.Ctx) error {
	var request SubscribeRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "subscribe", err)
	}

	subscriber, err := h.controller.Subscribe(c.UserContext(), request.Email, request.Source)
	if err != nil {
		return h.fail(c, "subscribe", "failed to subscribe", err)
	}

	return c.JSON(fiber.Map{"message": "success", "subscriber": subscriber})
}
