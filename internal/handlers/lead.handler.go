package handlers

import (
	"elvalg/internal/app"
	leadController "elvalg/internal/controllers/lead"
	"elvalg/internal/logger"
	. "elvalg/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LeadHandler struct {
	Handler
	controller *leadController.LeadController
}

func NewLeadHandler(app app.App, router fiber.Router) *LeadHandler {
	log := logger.New("handlers").File("lead_handler")
	return &LeadHandler{
		controller: app.LeadController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LeadHandler) Register() {
	h.router.Post("/leads", h.createLead)
}

func (h *LeadHandler) createLead(c *fiber.Ctx) error {
	var request CreateLeadRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "createLead", err)
	}

	lead, err := h.controller.Create(c.UserContext(), request)
	if err != nil {
		return h.fail(c, "createLead", "failed to create lead", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "lead": lead})
}
