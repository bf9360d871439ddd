package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teyra/internal/config"
	"teyra/internal/database"
	"teyra/internal/handlers"
	"teyra/internal/repository"
	"teyra/internal/security"
	"teyra/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	tokens, err := security.NewTokenIssuer(cfg.TokenSecret, cfg.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}

	authService := service.NewAuthService(userRepo, progressRepo, settingsRepo, tokens)
	subscriptions := service.NewUserSubscriptionProvider(userRepo)
	// Settings rows override the env-derived limits when present.
	progressService := service.NewProgressService(progressRepo, taskRepo, subscriptions, service.DailyLimits{
		MoodCheck: settingsRepo.GetIntSetting("mood_check_limit", cfg.MoodCheckLimit),
		AISplit:   settingsRepo.GetIntSetting("ai_split_limit", cfg.AISplitLimit),
		AIParse:   settingsRepo.GetIntSetting("ai_parse_limit", cfg.AIParseLimit),
	})
	taskService := service.NewTaskService(taskRepo, progressService)
	aiService := service.NewAIService(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel)
	exportService := service.NewExportService(userRepo, taskRepo, progressRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Email delivery disabled (SES_FROM_EMAIL not set)")
	}

	googleOAuth := &handlers.OAuthProvider{
		Name: "google",
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, googleOAuth, cfg.OAuthRedirectBase)
	taskHandler := handlers.NewTaskHandler(taskService)
	progressHandler := handlers.NewProgressHandler(progressService)
	aiHandler := handlers.NewAIHandler(aiService, taskService, progressService)
	adminHandler := handlers.NewAdminHandler(userRepo, settingsRepo, progressService, exportService)
	sweepBatchSize := settingsRepo.GetIntSetting("sweep_batch_size", cfg.SweepBatchSize)
	cronHandler := handlers.NewCronHandler(progressService, emailService, userRepo, cfg.CronSecret, sweepBatchSize)

	// Setup routes
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/google/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.OAuthCallback)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("PATCH /api/auth/me", middleware.RequireAuth(authHandler.UpdatePreferences))
	mux.HandleFunc("DELETE /api/auth/me", middleware.RequireAuth(authHandler.DeleteAccount))

	// Tasks
	mux.HandleFunc("GET /api/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(taskHandler.Create))
	mux.HandleFunc("PATCH /api/tasks/{id}", middleware.RequireAuth(taskHandler.Update))
	mux.HandleFunc("POST /api/tasks/{id}/complete", middleware.RequireAuth(taskHandler.SetCompleted))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireAuth(taskHandler.Delete))

	// Progress and mood
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progressHandler.Get))
	mux.HandleFunc("POST /api/mood", middleware.RequireAuth(progressHandler.CheckIn))
	mux.HandleFunc("GET /api/mood/honesty", middleware.RequireAuth(progressHandler.Honesty))

	// AI features
	mux.HandleFunc("POST /api/ai/split", middleware.RequireAuth(aiHandler.Split))
	mux.HandleFunc("POST /api/ai/parse", middleware.RequireAuth(aiHandler.Parse))

	// Admin
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("POST /api/admin/users/{id}/reset-lifetime", middleware.RequireAdmin(adminHandler.ResetLifetime))
	mux.HandleFunc("POST /api/admin/users/{id}/zero-limit", middleware.RequireAdmin(adminHandler.ZeroCategory))
	mux.HandleFunc("POST /api/admin/users/{id}/pro", middleware.RequireAdmin(adminHandler.SetPro))
	mux.HandleFunc("POST /api/admin/signups", middleware.RequireAdmin(adminHandler.SetSignupClosed))
	mux.HandleFunc("GET /api/admin/export", middleware.RequireAdmin(adminHandler.Export))

	// Scheduler
	mux.HandleFunc("POST /api/cron/reset", cronHandler.Reset)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
