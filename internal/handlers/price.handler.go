package handlers

import (
	"elvalg/internal/app"
	priceController "elvalg/internal/controllers/price"
	"elvalg/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type PriceHandler struct {
	Handler
	controller *priceController.PriceController
}

func NewPriceHandler(app app.App, router fiber.Router) *PriceHandler {
	log := logger.New("handlers").File("price_handler")
	return &PriceHandler{
		controller: app.PriceController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PriceHandler) Register() {
	zones := h.router.Group("/price-zones")
	zones.Get("/", h.getZones)
	zones.Get("/:postalCode", h.lookupZone)

	h.router.Get("/prices/:zone", h.getDayPrices)
}

func (h *PriceHandler) getZones(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "zones": h.controller.Zones()})
}

func (h *PriceHandler) lookupZone(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "zone": h.controller.Lookup(c.Params("postalCode"))})
}

func (h *PriceHandler) getDayPrices(c *fiber.Ctx) error {
	prices, err := h.controller.DayPrices(c.UserContext(), c.Params("zone"), c.Query("date"))
	if err != nil {
		return h.fail(c, "getDayPrices", "failed to get prices", err)
	}

	return c.JSON(fiber.Map{"message": "success", "prices": prices})
}
