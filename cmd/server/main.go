package main

import (
	"context"
	"log"
	"time"

	"divorce_intake_go/config"
	"divorce_intake_go/db"
	"divorce_intake_go/handlers"
	"divorce_intake_go/middleware"
	"divorce_intake_go/models"
	"divorce_intake_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Avocat{},
		&models.Client{},
		&models.Dossier{},
		&models.Document{},
		&models.TexteLoi{},
		&models.Lien{},
		&models.Session{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the static legal reference table
	if err := services.SeedTextesLoi(db.DB); err != nil {
		log.Fatalf("Failed to seed legal texts: %v", err)
	}

	// Initialize external clients
	services.InitializeStorage(cfg)
	if err := services.InitializeLLM(cfg); err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	services.InitializePayments(cfg.StripeSecretKey)

	// Create Echo instance
	e := echo.New()
	e.Validator = handlers.NewValidator()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes
	e.GET("/api/health", handlers.HealthHandler)
	e.POST("/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())
	e.POST("/logout", handlers.LogoutHandler)

	// Public intake flow (client side, no authentication)
	e.POST("/api/client/dossier", handlers.CreateDossierHandler)
	e.POST("/api/upload", handlers.UploadDocumentHandler)
	e.POST("/api/payment/create", handlers.CreatePaymentHandler)
	e.POST("/api/webhook/stripe", handlers.StripeWebhookHandler)
	e.POST("/api/analyse/dossier", handlers.AnalyserDossierHandler)
	e.GET("/l/:token", handlers.ResolveLienHandler)

	// Cron routes (bearer-token guarded)
	cron := e.Group("/api/cron")
	cron.Use(middleware.RequireCronSecret(cfg.CronSecret))
	{
		cron.GET("/purge", handlers.CronPurgeHandler)
	}

	// Lawyer routes (session required)
	protected := e.Group("")
	protected.Use(middleware.RequireAvocat())
	{
		protected.GET("/api/me", handlers.GetCurrentAvocatHandler)
		protected.GET("/api/dossiers", handlers.GetDossiersHandler)
		protected.GET("/api/dossiers/export-excel", handlers.ExportDossiersExcelHandler)
		protected.GET("/api/dossiers/:id", handlers.GetDossierHandler)
		protected.POST("/api/dossier/:id/valider", handlers.ValiderDossierHandler)
		protected.GET("/api/dossier/:id/export-pdf", handlers.ExportDossierPDFHandler)
		protected.GET("/api/documents/:id/file", handlers.DownloadDocumentHandler)
		protected.POST("/api/liens", handlers.CreateLienHandler)
		protected.GET("/api/liens", handlers.GetLiensHandler)
	}

	// Background jobs: session cleanup and purge fallback (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}

			if _, err := services.PurgeExpiredDossiers(context.Background(), db.DB); err != nil {
				log.Printf("Error running purge job: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
