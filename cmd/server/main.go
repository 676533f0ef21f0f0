package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "peersupport-backend/internal/api/http"
	"peersupport-backend/internal/config"
	"peersupport-backend/internal/logger"
	"peersupport-backend/internal/repository/postgres"
	"peersupport-backend/internal/security"
	"peersupport-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Peer Support Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	// Initialize Push Service
	var pushSvc service.PushService
	if cfg.Firebase.CredentialsFile != "" {
		pushSvc, err = service.NewPushService(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize push service", "error", err)
			log.Fatalf("Failed to initialize push service: %v", err)
		}
	} else {
		logger.Info("No Firebase credentials configured, push notifications disabled")
		pushSvc = service.NewNoopPushService()
	}

	// Initialize Services
	userSvc := service.NewUserService(store.UserRepository)
	ledgerSvc := service.NewLedgerService(store.LedgerRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	sessionSvc := service.NewSessionService(
		store.SessionRepository,
		store.UserRepository,
		store.LedgerRepository,
		store.NotificationRepository,
		emailSvc,
	)
	rescheduleSvc := service.NewRescheduleService(
		store.RescheduleRepository,
		store.SessionRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
		pushSvc,
		cfg.ResponseLeadWindow(),
		cfg.UrgencyThreshold(),
	)

	// Initialize HTTP handlers
	handlers := &httpapi.Handlers{
		Sessions:      httpapi.NewSessionHandler(sessionSvc),
		Reschedules:   httpapi.NewRescheduleHandler(rescheduleSvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
		Ledger:        httpapi.NewLedgerHandler(ledgerSvc),
		Users:         httpapi.NewUserHandler(userSvc),
	}

	router := httpapi.NewRouter(handlers, authMiddleware)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
