package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notebin-app/notebin/broker"
	"notebin-app/notebin/config"
	"notebin-app/notebin/database"
	"notebin-app/notebin/middleware"
	"notebin-app/notebin/routes"
	"notebin-app/notebin/services"
	"notebin-app/notebin/utils/cipher"

	"github.com/gin-gonic/gin"
)

// contentKeySalt pins the argon2 derivation so a passphrase always yields
// the same content key across restarts.
const contentKeySalt = "notebin.content.v1"

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	contentCipher, err := cipher.New(cfg.ContentEncryptionKey, contentKeySalt)
	if err != nil {
		log.Fatalf("Failed to initialize content cipher: %v", err)
	}
	if contentCipher == nil {
		log.Println("CONTENT_ENCRYPTION_KEY not set, notes will be stored as plaintext")
	}

	// The broker is best-effort: without NATS the server still serves every
	// endpoint, only event delivery and the live report feed are disabled.
	producer, err := broker.InitProducer(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to NATS: %v", err)
		log.Println("The application will continue, but lifecycle events will not be published")
		producer = nil
	} else {
		defer producer.Close()
	}

	noteService := services.NewNoteService(contentCipher, cfg.MaxContentBytes, producer)
	services.NoteServiceInstance = noteService

	reportService := services.NewReportService(cfg.ReporterHashSalt, producer)
	services.ReportServiceInstance = reportService

	moderationService := services.NewModerationService(contentCipher, producer)
	services.ModerationServiceInstance = moderationService

	authService := services.NewAuthService(cfg.AdminToken, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService
	if cfg.AdminToken == "" {
		log.Println("ADMIN_TOKEN not set, admin endpoints are disabled")
	}

	streamService := services.NewStreamService()
	services.StreamServiceInstance = streamService
	streamService.Start(cfg)
	defer streamService.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.BodyLimitMiddleware(cfg.MaxBodyBytes))

	window := time.Duration(cfg.RateLimitWindowMinutes) * time.Minute
	createLimiter := middleware.RateLimitMiddleware(db, middleware.RateLimitClassCreate, cfg.RateLimitCreate, window)
	updateLimiter := middleware.RateLimitMiddleware(db, middleware.RateLimitClassUpdate, cfg.RateLimitUpdate, window)
	reportLimiter := middleware.RateLimitMiddleware(db, middleware.RateLimitClassReport, cfg.RateLimitReport, window)

	api := router.Group("/api")
	routes.RegisterHealthRoutes(api)
	routes.RegisterNoteRoutes(api, db, noteService, createLimiter, updateLimiter)
	routes.RegisterReportRoutes(api, db, reportService, reportLimiter)

	adminAuth := middleware.AdminAuthMiddleware(authService, cfg.AdminAllowedIPs)
	routes.RegisterAdminRoutes(api.Group("/admin"), db, authService, reportService, moderationService, streamService, adminAuth)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		streamService.Stop()
		if producer != nil {
			producer.Close()
		}
		db.Close()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
