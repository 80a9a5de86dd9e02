package main

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/HSouheill/shop_backend/config"
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/HSouheill/shop_backend/logger"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/HSouheill/shop_backend/routes"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/HSouheill/shop_backend/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().WithError(err).Fatal("Invalid configuration")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	log := logger.For("server")

	_ = mime.AddExtensionType(".webp", "image/webp")

	// Connect to database
	client, err := config.ConnectDB(cfg, logger.For("mongo"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	db := client.Database(cfg.DBName)

	// Connect to Redis
	var limiter services.AttemptLimiter
	if rdb := config.ConnectRedis(cfg, logger.For("redis")); rdb != nil {
		defer rdb.Close()
		limiter = utils.NewRedisAttemptLimiter(rdb)
	}

	images, err := utils.NewImageStore(cfg.ImageStorage, cfg.UploadDir, cfg.MaxImageWidth)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up image storage")
	}

	stop := make(chan struct{})
	wsHub := websocket.NewHub(logger.For("websocket"))
	go wsHub.Run(stop)

	// Initialize repositories
	ownerRepo := repositories.NewOwnerRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	productRepo := repositories.NewProductRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Initialize services
	var mailer services.Mailer
	if cfg.MailConfigured() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	} else {
		log.Warn("SMTP not configured, emails will not be sent")
	}
	emailService := services.NewEmailService(mailer, logger.For("email"))
	notificationService := services.NewNotificationService(notificationRepo, settingsRepo, emailService, wsHub, logger.For("notifications"))
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(ownerRepo, employeeRepo, settingsRepo, tokens, emailService, limiter, logger.For("auth"))
	ledgerService := services.NewLedgerService(saleRepo, customerRepo, productRepo, notificationService, logger.For("ledger"))
	reportService := services.NewReportService(saleRepo, customerRepo, productRepo)
	employeeService := services.NewEmployeeService(employeeRepo, notificationService)

	// Initialize controllers
	controllerLog := logger.For("http")
	handlers := routes.Handlers{
		Auth:          controllers.NewAuthController(authService, controllerLog),
		Password:      controllers.NewPasswordController(authService, controllerLog),
		Products:      controllers.NewProductController(productRepo, images, controllerLog),
		Customers:     controllers.NewCustomerController(ledgerService, controllerLog),
		Sales:         controllers.NewSaleController(ledgerService, reportService, controllerLog),
		Expenses:      controllers.NewExpenseController(expenseRepo, controllerLog),
		Employees:     controllers.NewEmployeeController(employeeService, controllerLog),
		Categories:    controllers.NewCategoryController(categoryRepo, controllerLog),
		Locations:     controllers.NewLocationController(locationRepo, controllerLog),
		Notifications: controllers.NewNotificationController(notificationService, wsHub, controllerLog),
		Settings:      controllers.NewShopSettingsController(settingsRepo, images, controllerLog),
		Dashboard:     controllers.NewDashboardController(reportService, controllerLog),
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewCustomValidator()

	rateLimiter := middleware.NewRateLimiter()
	rateLimiter.StartCleanup(time.Minute, stop)

	// Middleware
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(logger.For("access")))
	e.Use(middleware.CORS(cfg.AllowedOrigins()))
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		ConnectSources: []string{cfg.FrontendURL},
		HSTS:           cfg.IsProduction(),
	}))
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{http.MethodGet, http.MethodHead}, "/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Shop backend is running",
		})
	})
	e.GET("/api/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		database := "connected"
		if err := client.Ping(ctx, nil); err != nil {
			database = "disconnected"
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":     "healthy",
			"database":   database,
			"wsClients":  wsHub.ClientCount(),
			"serverTime": time.Now(),
		})
	})

	if cfg.ImageStorage == "" || cfg.ImageStorage == "disk" {
		routes.RegisterFileRoutes(e, cfg.UploadDir)
	}

	auth := []echo.MiddlewareFunc{tokens.JWTMiddleware(), middleware.TokenVersionCheck(ownerRepo)}
	routes.SetupRoutes(e, handlers, auth...)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Route not found",
		})
	})

	// Start server
	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	if err := client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("MongoDB disconnect failed")
	}
}
