package app

import (
	"context"
	"time"

	"elvalg/config"
	"elvalg/internal/clients"
	"elvalg/internal/database"
	"elvalg/internal/handlers/middleware"
	"elvalg/internal/logger"
	"elvalg/internal/repositories"
	"elvalg/internal/services"
	"elvalg/internal/websockets"

	adminController "elvalg/internal/controllers/admin"
	assistantController "elvalg/internal/controllers/assistant"
	contractController "elvalg/internal/controllers/contract"
	leadController "elvalg/internal/controllers/lead"
	newsletterController "elvalg/internal/controllers/newsletter"
	priceController "elvalg/internal/controllers/price"

	"cloud.google.com/go/civil"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	Config     config.Config
	Location   *time.Location

	// Services
	TransactionService *services.TransactionService
	ReminderScheduler  *services.ReminderScheduler

	// Repositories
	Repos repositories.Repositories

	// Controllers
	LeadController       *leadController.LeadController
	ContractController   *contractController.ContractController
	NewsletterController *newsletterController.NewsletterController
	PriceController      *priceController.PriceController
	AssistantController  *assistantController.AssistantController
	AdminController      *adminController.AdminController
}

func New(ctx context.Context) (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(ctx, config)
}

func NewWithConfig(ctx context.Context, config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return &App{}, log.Err("failed to load timezone", err, "timezone", config.Timezone)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	assistant, err := clients.NewAssistant(ctx, config)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to create assistant client", err)
	}

	// Initialize services
	transactionService := services.NewTransactionService(db)

	// Initialize repositories
	repos := repositories.New(db)

	websocket := websockets.New()

	// Initialize controllers with repositories and services
	newsletterController := newsletterController.New(repos.Subscribers, clients.NewNewsletter(config))
	leadController := leadController.New(repos.Leads, newsletterController, transactionService, websocket)
	contractController := contractController.New(repos.Contracts, clients.NewMessenger(config), websocket, location)
	priceController := priceController.New(clients.NewPriceFeed(config), db.Cache.Prices, config.PriceCacheTTL, location)
	assistantController := assistantController.New(assistant, config.MaxUploadBytes)
	adminController := adminController.New(
		repos,
		adminController.NewSessionStore(db.Cache.Session),
		config.SessionTTL,
		location,
	)

	reminderScheduler := services.NewReminderScheduler(config.ReminderInterval, location,
		func(ctx context.Context, today civil.Date) error {
			_, err := contractController.DispatchDueReminders(ctx, today)
			return err
		})

	app := &App{
		Database:             db,
		Config:               config,
		Location:             location,
		Middleware:           middleware.New(adminController),
		Websocket:            websocket,
		TransactionService:   transactionService,
		ReminderScheduler:    reminderScheduler,
		Repos:                repos,
		LeadController:       leadController,
		ContractController:   contractController,
		NewsletterController: newsletterController,
		PriceController:      priceController,
		AssistantController:  assistantController,
		AdminController:      adminController,
	}

	if err := app.validate(); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.Location,
		a.TransactionService,
		a.ReminderScheduler,
		a.LeadController,
		a.ContractController,
		a.NewsletterController,
		a.PriceController,
		a.AssistantController,
		a.AdminController,
		a.Repos.Leads,
		a.Repos.Contracts,
		a.Repos.Subscribers,
		a.Repos.Admins,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Websocket != nil {
		if closeErr := a.Websocket.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
