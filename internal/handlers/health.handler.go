package handlers

import (
	"elvalg/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		database := "ok"
		if sqlDB, err := app.Database.SQL.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			database = "unavailable"
		}

		status := fiber.StatusOK
		if database != "ok" {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":      database,
			"environment": app.Config.Environment,
			"database":    database,
			"adminFeeds":  app.Websocket.ClientCount(),
		})
	})
}
