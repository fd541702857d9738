package handlers

import (
	"elvalg/internal/app"
	adminController "elvalg/internal/controllers/admin"
	contractController "elvalg/internal/controllers/contract"
	leadController "elvalg/internal/controllers/lead"
	"elvalg/internal/handlers/middleware"
	"elvalg/internal/logger"
	. "elvalg/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultPageSize = 100

type AdminHandler struct {
	Handler
	controller         *adminController.AdminController
	leadController     *leadController.LeadController
	contractController *contractController.ContractController
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller:         app.AdminController,
		leadController:     app.LeadController,
		contractController: app.ContractController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin")
	admin.Post("/login", h.login)

	requireAdmin := h.middleware.RequireAdmin
	admin.Post("/logout", requireAdmin, h.logout)
	admin.Get("/dashboard", requireAdmin, h.getDashboard)
	admin.Get("/leads", requireAdmin, h.getLeads)
	admin.Get("/leads.csv", requireAdmin, h.exportLeads)
	admin.Get("/contracts", requireAdmin, h.getContracts)
	admin.Get("/reminders/due", requireAdmin, h.getDueReminders)
	admin.Post("/reminders/dispatch", requireAdmin, h.dispatchReminders)
	admin.Post("/reminders/:id/sent", requireAdmin, h.markReminderSent)
}

func (h *AdminHandler) login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "login", err)
	}

	session, err := h.controller.Login(c.UserContext(), request)
	if err != nil {
		return h.fail(c, "login", "failed to log in", err)
	}

	return c.JSON(fiber.Map{"message": "success", "session": session})
}

func (h *AdminHandler) logout(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.TokenKey).(string)
	if err := h.controller.Logout(c.UserContext(), token); err != nil {
		return h.fail(c, "logout", "failed to log out", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *AdminHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.controller.Dashboard(c.UserContext())
	if err != nil {
		return h.fail(c, "getDashboard", "failed to get dashboard", err)
	}

	return c.JSON(fiber.Map{"message": "success", "dashboard": dashboard})
}

func (h *AdminHandler) getLeads(c *fiber.Ctx) error {
	leads, err := h.leadController.List(c.UserContext(), c.QueryInt("limit", defaultPageSize), c.QueryInt("offset", 0))
	if err != nil {
		return h.fail(c, "getLeads", "failed to get leads", err)
	}

	return c.JSON(fiber.Map{"message": "success", "leads": leads})
}

func (h *AdminHandler) exportLeads(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="leads.csv"`)

	if err := h.leadController.ExportCSV(c.UserContext(), c.Response().BodyWriter()); err != nil {
		c.Response().ResetBody()
		return h.fail(c, "exportLeads", "failed to export leads", err)
	}

	return nil
}

func (h *AdminHandler) getContracts(c *fiber.Ctx) error {
	contracts, err := h.contractController.List(c.UserContext(), c.QueryInt("limit", defaultPageSize), c.QueryInt("offset", 0))
	if err != nil {
		return h.fail(c, "getContracts", "failed to get contracts", err)
	}

	return c.JSON(fiber.Map{"message": "success", "contracts": contracts})
}

func (h *AdminHandler) getDueReminders(c *fiber.Ctx) error {
	day, err := h.contractController.Day(c.Query("date"))
	if err != nil {
		return h.fail(c, "getDueReminders", "invalid date", err)
	}

	contracts, err := h.contractController.DueReminders(c.UserContext(), day)
	if err != nil {
		return h.fail(c, "getDueReminders", "failed to get due reminders", err)
	}

	return c.JSON(fiber.Map{"message": "success", "date": day, "contracts": contracts})
}

func (h *AdminHandler) dispatchReminders(c *fiber.Ctx) error {
	day, err := h.contractController.Day(c.Query("date"))
	if err != nil {
		return h.fail(c, "dispatchReminders", "invalid date", err)
	}

	result, err := h.contractController.DispatchDueReminders(c.UserContext(), day)
	if err != nil {
		return h.fail(c, "dispatchReminders", "failed to dispatch reminders", err)
	}

	return c.JSON(fiber.Map{"message": "success", "result": result})
}

func (h *AdminHandler) markReminderSent(c *fiber.Ctx) error {
	if err := h.contractController.MarkReminderSent(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, "markReminderSent", "failed to mark reminder sent", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}
