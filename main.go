package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"

	"grocer/internal/database"
	"grocer/internal/handlers"
	"grocer/internal/middleware"
	"grocer/internal/repositories"
	"grocer/internal/services"
	"grocer/pkg/events"
	"grocer/pkg/settings"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "grocery.db")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("SETTINGS_PATH", "config.xml")
	viper.SetDefault("SEED_DATASET", "data/seed_products.csv")
	viper.SetDefault("RABBITMQ_URL", "") // Empty disables catalog events
	viper.AutomaticEnv()                 // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Load Settings (theme + admin credentials) ---
	settingsMgr, err := settings.NewManager(viper.GetString("SETTINGS_PATH"))
	if err != nil {
		// Defaults stay active when the file is absent or broken.
		log.Printf("Using default settings: %v", err)
	}

	// --- Initialize Database ---
	db, err := database.Connect(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var publisher events.Publisher
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err := events.NewClient(events.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, catalog events disabled")
	}

	// --- Initialize Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo, publisher)
	importService := services.NewImportService(productRepo, publisher)
	authService := services.NewAuthService(settingsMgr, viper.GetString("JWT_SECRET"))

	// --- Seed the catalog when empty ---
	seedCatalog(importService, viper.GetString("SEED_DATASET"))

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService, importService)
	themeHandler := handlers.NewThemeHandler(settingsMgr)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterPublicRoutes(apiV1)
	themeHandler.RegisterPublicRoutes(apiV1)

	// Admin routes (require JWT authentication)
	adminRoutes := apiV1.Group("", middleware.AdminRequired(authService))
	productHandler.RegisterAdminRoutes(adminRoutes)
	themeHandler.RegisterAdminRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedCatalog populates an empty catalog from the bundled dataset. A missing
// dataset is not fatal; the catalog simply starts empty.
func seedCatalog(importService *services.ImportService, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Seed dataset %s not found, skipping seeding", path)
		return
	}

	inserted, err := importService.SeedFromFile(path)
	if err != nil {
		log.Printf("Error seeding catalog from %s: %v", path, err)
		return
	}
	if inserted > 0 {
		log.Printf("Seeded catalog with %d products from %s", inserted, path)
	}
}
