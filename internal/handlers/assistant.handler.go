package handlers

import (
	"io"

	"elvalg/internal/app"
	assistantController "elvalg/internal/controllers/assistant"
	"elvalg/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type AssistantHandler struct {
	Handler
	controller     *assistantController.AssistantController
	maxUploadBytes int
}

func NewAssistantHandler(app app.App, router fiber.Router) *AssistantHandler {
	log := logger.New("handlers").File("assistant_handler")
	return &AssistantHandler{
		controller:     app.AssistantController,
		maxUploadBytes: app.Config.MaxUploadBytes,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AssistantHandler) Register() {
	assistant := h.router.Group("/assistant")
	assistant.Post("/chat", h.chat)
	assistant.Post("/invoice", h.analyzeInvoice)
}

func (h *AssistantHandler) chat(c *fiber.Ctx) error {
	var request assistantController.ChatRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "chat", err)
	}

	reply, err := h.controller.Chat(c.UserContext(), request)
	if err != nil {
		return h.fail(c, "chat", "failed to get reply", err)
	}

	return c.JSON(fiber.Map{"message": "success", "reply": reply.Reply})
}

func (h *AssistantHandler) analyzeInvoice(c *fiber.Ctx) error {
	log := h.log.Function("analyzeInvoice")

	header, err := c.FormFile("file")
	if err != nil {
		return h.badRequest(c, "analyzeInvoice", err)
	}
	if h.maxUploadBytes > 0 && header.Size > int64(h.maxUploadBytes) {
		return c.Status(fiber.StatusRequestEntityTooLarge).
			JSON(fiber.Map{"message": "file is too large"})
	}

	file, err := header.Open()
	if err != nil {
		log.Er("failed to open upload", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to read upload"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Er("failed to read upload", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to read upload"})
	}

	result, err := h.controller.AnalyzeInvoice(c.UserContext(), data)
	if err != nil {
		return h.fail(c, "analyzeInvoice", "failed to analyze invoice", err)
	}

	return c.JSON(fiber.Map{"message": "success", "invoice": result})
}
