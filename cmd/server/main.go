package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/partsden/partsden-backend/config"
	"github.com/partsden/partsden-backend/internal/app/controller"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/app/service"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/partsden/partsden-backend/internal/middleware"
	"github.com/partsden/partsden-backend/internal/router"
	"github.com/partsden/partsden-backend/internal/scheduler"
	"github.com/partsden/partsden-backend/internal/session"
	"github.com/partsden/partsden-backend/internal/storage"
	"github.com/partsden/partsden-backend/pkg/logger"
	"github.com/partsden/partsden-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting PARTSDEN Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (sessions and token revocation)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	sessionStore := session.NewStore(redis.GetClient(), cfg.Session.SelectedVehicleTTL)

	documentStorage := storage.NewDocumentStorage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	customerRepo := repository.NewCustomerRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	garageRepo := repository.NewGarageRepository(db.GetDB())
	vehicleRepo := repository.NewVehicleRepository(db.GetDB())
	catalogRepo := repository.NewCatalogRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		db.GetDB(),
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	customerService := service.NewCustomerService(customerRepo, addressRepo, garageRepo, vehicleRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, sessionStore)
	productService := service.NewProductService(productRepo, catalogRepo, vehicleRepo)
	cartService := service.NewCartService(cartRepo, productRepo, customerRepo)
	shippingRates := make(map[model.ShippingMethod]float64, len(cfg.Shipping.Rates))
	for method, rate := range cfg.Shipping.Rates {
		shippingRates[model.ShippingMethod(method)] = rate
	}
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, customerRepo, db.GetDB(), shippingRates)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	customerController := controller.NewCustomerController(customerService)
	vehicleController := controller.NewVehicleController(vehicleService)
	productController := controller.NewProductController(productService, vehicleService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(documentStorage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddlewareWithBlacklist(cfg.JWT.Secret)

	// Start the daily low-stock sweep
	inventoryScheduler := scheduler.NewInventoryScheduler(productService)
	if err := inventoryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start inventory scheduler", err)
	}
	defer inventoryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		customerController,
		vehicleController,
		productController,
		cartController,
		orderController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
