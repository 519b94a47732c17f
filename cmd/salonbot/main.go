package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravtsov/salonbot/internal/app"
	"github.com/mkravtsov/salonbot/internal/catalog"
	"github.com/mkravtsov/salonbot/internal/config"
	"github.com/mkravtsov/salonbot/internal/controller"
	"github.com/mkravtsov/salonbot/internal/intent"
	"github.com/mkravtsov/salonbot/internal/llm"
	"github.com/mkravtsov/salonbot/internal/notify"
	"github.com/mkravtsov/salonbot/internal/orchestrator"
	"github.com/mkravtsov/salonbot/internal/repository"
	"github.com/mkravtsov/salonbot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting salon bot", zap.String("environment", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Repositories
	customerRepo := repository.NewCustomerRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	reminderLogRepo := repository.NewReminderLogRepository(pool)

	// Collaborators
	cat := catalog.Default()
	llmClient := llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)
	notifier := notify.NewTwilioNotifier(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioWhatsAppNumber,
		cfg.TwilioVoiceNumber,
		logger,
	)

	// Services
	calendarService := service.NewCalendarService(appointmentRepo, cat, logger)
	conversationService := service.NewConversationService(conversationRepo, logger)
	customerService := service.NewCustomerService(customerRepo, appointmentRepo, logger)
	reminderService := service.NewReminderService(appointmentRepo, reminderLogRepo, notifier, logger)

	resolver := intent.NewResolver(llmClient, cat, cfg.LLMTimeout, logger)

	orch := orchestrator.New(
		customerService,
		calendarService,
		conversationService,
		resolver,
		notifier,
		cat,
		cfg.PublicBaseURL+"/voice",
		logger,
	)

	scheduler := app.NewScheduler(reminderService, cfg.ReminderCron, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	ctrl := controller.New(
		orch,
		notifier,
		calendarService,
		customerService,
		func(ctx context.Context) error { return pool.Ping(ctx) },
		logger,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: ctrl.Router(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
