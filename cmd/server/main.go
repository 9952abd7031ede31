package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/benchwise/labstock/internal/config"
	"github.com/benchwise/labstock/internal/database"
	"github.com/benchwise/labstock/internal/handlers"
	"github.com/benchwise/labstock/internal/middleware"
	"github.com/benchwise/labstock/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize the import-file archive when configured
	var archive *services.ArchiveService
	if cfg.S3Enabled && cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		archive, err = services.NewArchiveService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize import archive: %v", err)
			archive = nil
		} else if err := archive.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure archive bucket exists: %v", err)
		} else {
			log.Println("Import archive initialized")
		}
	} else {
		log.Println("Import archive is disabled")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    int(cfg.MaxImportFileSize) + 1024*1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, archive)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.Me)

	// Storage box routes
	boxes := api.Group("/boxes", middleware.AuthRequired(cfg))
	boxes.Get("/", h.ListBoxes)
	boxes.Post("/", h.CreateBox)
	boxes.Get("/:id", h.GetBox)
	boxes.Delete("/:id", middleware.AdminRequired(), h.DeleteBox)
	boxes.Get("/:id/occupancy", h.GetBoxOccupancy)
	boxes.Put("/:id/positions/:label", h.AssignPosition)
	boxes.Delete("/:id/positions/:label", h.RemovePosition)
	boxes.Post("/:id/positions/:label/move", h.MovePosition)

	// Materials catalog routes
	materials := api.Group("/materials", middleware.AuthRequired(cfg))
	materials.Get("/", h.ListMaterials)
	materials.Post("/", h.CreateMaterial)
	materials.Get("/:id", h.GetMaterial)
	materials.Delete("/:id", h.DeleteMaterial)

	// Import routes
	imports := api.Group("/import", middleware.AuthRequired(cfg))
	imports.Post("/parse", h.ParseImport)
	imports.Post("/commit", h.CommitImport)
	imports.Get("/template", h.DownloadTemplate)
	imports.Get("/template/columns", h.GetTemplateColumns)
	imports.Get("/archive/*", h.GetArchivedImport)
	imports.Delete("/archive/*", middleware.AdminRequired(), h.DeleteArchivedImport)

	// Start server
	log.Printf("Starting server on port %s (%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
