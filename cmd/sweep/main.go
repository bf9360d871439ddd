package main

import (
	"flag"
	"log"

	"teyra/internal/config"
	"teyra/internal/database"
	"teyra/internal/models"
	"teyra/internal/repository"
	"teyra/internal/service"
)

// Sweeps every progress record whose rolling 24 hour window has
// elapsed and mails daily summaries to subscribers. Intended to run
// from a scheduler; the same work is reachable over HTTP at
// /api/cron/reset.
func main() {
	dryRun := flag.Bool("dry-run", false, "Report what would reset without writing")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	subscriptions := service.NewUserSubscriptionProvider(userRepo)
	progressService := service.NewProgressService(progressRepo, taskRepo, subscriptions, service.DailyLimits{
		MoodCheck: cfg.MoodCheckLimit,
		AISplit:   cfg.AISplitLimit,
		AIParse:   cfg.AIParseLimit,
	})

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	sweepBatchSize := settingsRepo.GetIntSetting("sweep_batch_size", cfg.SweepBatchSize)

	if *dryRun {
		due, err := progressService.CountDueResets(sweepBatchSize)
		if err != nil {
			log.Fatalf("Dry run failed: %v", err)
		}
		log.Printf("Dry run: %d records due for reset", due)
		return
	}

	// Load summary subscribers up front so the sweep does one query
	// instead of one per reset record.
	subscribers := map[int64]*models.User{}
	if emailService.IsEnabled() {
		users, err := userRepo.ListDailySummarySubscribers()
		if err != nil {
			log.Fatalf("Failed to list summary subscribers: %v", err)
		}
		for i := range users {
			subscribers[users[i].ID] = &users[i]
		}
	}

	count, err := progressService.RunResetSweep(sweepBatchSize, func(before models.ProgressRecord) {
		user, ok := subscribers[before.UserID]
		if !ok {
			return
		}
		if err := emailService.SendDailySummary(user, before); err != nil {
			log.Printf("Error sending daily summary to %s: %v", user.Email, err)
		}
	})
	if err != nil {
		log.Fatalf("Reset sweep failed: %v", err)
	}

	log.Printf("Reset sweep complete: %d records reset", count)
}
