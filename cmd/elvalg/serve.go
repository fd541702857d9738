package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elvalg/cmd/migration/initialize"
	"elvalg/internal/app"
	"elvalg/internal/handlers"
	"elvalg/internal/logger"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.New("main").Function("serve")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewWithConfig(ctx, cfg)
	if err != nil {
		return log.Err("failed to create app", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	if err := initialize.InitializeTables(ctx, a.Repos, cfg, log); err != nil {
		return err
	}

	server := newServer(a)
	if err := handlers.Router(server, a); err != nil {
		return log.Err("failed to register routes", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		address := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Info("Starting server", "address", address, "environment", cfg.Environment)
		return server.Listen(address)
	})

	group.Go(func() error {
		return a.ReminderScheduler.Run(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down")
		_ = a.Websocket.Close()
		return server.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return log.Err("server stopped", err)
	}

	return nil
}

func newServer(a *app.App) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:      "elvalg",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    a.Config.MaxUploadBytes + 1<<20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	server.Use(recover.New())
	server.Use(requestid.New())
	server.Use(fiberLogger.New(fiberLogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	server.Use(cors.New(cors.Config{
		AllowOrigins: a.Config.CorsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	return server
}

// runWithApp builds the app for one-off commands and closes it afterwards.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.NewWithConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}
