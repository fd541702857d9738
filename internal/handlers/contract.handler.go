package handlers

import (
	"elvalg/internal/app"
	contractController "elvalg/internal/controllers/contract"
	"elvalg/internal/logger"
	. "elvalg/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ContractHandler struct {
	Handler
	controller *contractController.ContractController
}

func NewContractHandler(app app.App, router fiber.Router) *ContractHandler {
	log := logger.New("handlers").File("contract_handler")
	return &ContractHandler{
		controller: app.ContractController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ContractHandler) Register() {
	h.router.Post("/contracts", h.registerContract)
	h.router.Post("/reminders/preview", h.previewReminder)
}

func (h *ContractHandler) registerContract(c *fiber.Ctx) error {
	var request RegisterContractRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "registerContract", err)
	}

	contract, err := h.controller.Register(c.UserContext(), request)
	if err != nil {
		return h.fail(c, "registerContract", "failed to register contract", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "contract": contract})
}

func (h *ContractHandler) previewReminder(c *fiber.Ctx) error {
	var request ReminderPreviewRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "previewReminder", err)
	}

	preview, err := h.controller.PreviewReminder(request.StartDate, request.Duration)
	if err != nil {
		return h.fail(c, "previewReminder", "failed to compute reminder", err)
	}

	return c.JSON(fiber.Map{"message": "success", "preview": preview})
}
