package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tendersuite/tender-api/docs"
	"github.com/tendersuite/tender-api/internal/ai"
	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/database"
	"github.com/tendersuite/tender-api/internal/http/handler"
	"github.com/tendersuite/tender-api/internal/http/middleware"
	"github.com/tendersuite/tender-api/internal/http/router"
	"github.com/tendersuite/tender-api/internal/jobs"
	"github.com/tendersuite/tender-api/internal/logger"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"github.com/tendersuite/tender-api/internal/storage"
	"go.uber.org/zap"
)

// jobTimeout bounds one run of a background job
const jobTimeout = 5 * time.Minute

// @title TenderSuite API
// @version 1.0
// @description Tender lifecycle management API covering workflow, clients, finance instruments, and reporting

// @contact.name API Support
// @contact.email support@tendersuite.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "staging.api.tendersuite.io"
	case "production":
		docs.SwaggerInfo.Host = "api.tendersuite.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from the key vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	tokens, err := auth.NewTokenManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// A nil assistant disables every AI feature; endpoints return 503
	assistant := ai.NewAssistant(cfg.AI, log)
	if assistant == nil {
		log.Info("AI assistant disabled")
	} else {
		log.Info("AI assistant enabled", zap.String("model", cfg.AI.Model))
	}

	// Initialize repositories
	tenderRepo := repository.NewTenderRepository(db)
	stageHistoryRepo := repository.NewStageHistoryRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	postAwardRepo := repository.NewPostAwardRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	clientRepo := repository.NewClientRepository(db)
	contactRepo := repository.NewContactRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	financialRepo := repository.NewFinancialRequestRepository(db)
	oemRepo := repository.NewOEMRepository(db)
	productRepo := repository.NewProductRepository(db)
	fileRepo := repository.NewFileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	lookupRepo := repository.NewLookupRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, tokens, historyRepo, log)
	tenderService := service.NewTenderService(tenderRepo, stageHistoryRepo, assignmentRepo, checklistRepo, postAwardRepo, historyRepo, notificationRepo, clientRepo, log)
	checklistService := service.NewChecklistService(checklistRepo, tenderRepo, historyRepo, assistant, log)
	postAwardService := service.NewPostAwardService(postAwardRepo, tenderRepo, fileRepo, historyRepo, log)
	clientService := service.NewClientService(clientRepo, contactRepo, interactionRepo, tenderRepo, historyRepo, assistant, log)
	financeService := service.NewFinanceService(financialRepo, tenderRepo, historyRepo, notificationRepo, log)
	oemService := service.NewOEMService(oemRepo, log)
	productService := service.NewProductService(productRepo, oemRepo, log)
	lookupService := service.NewLookupService(lookupRepo, log)
	fileService := service.NewFileService(fileRepo, tenderRepo, historyRepo, fileStorage, log)
	dashboardService := service.NewDashboardService(tenderRepo, financialRepo, log)
	reportService := service.NewReportService(tenderRepo, assignmentRepo, userRepo, assistant, log)
	aiService := service.NewAIService(assistant, tenderRepo, historyRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	auditService := service.NewAuditService(auditLogRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditService, nil, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, log)
	userHandler := handler.NewUserHandler(userService, log)
	tenderHandler := handler.NewTenderHandler(tenderService, log)
	checklistHandler := handler.NewChecklistHandler(checklistService, log)
	postAwardHandler := handler.NewPostAwardHandler(postAwardService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	financeHandler := handler.NewFinanceHandler(financeService, log)
	oemHandler := handler.NewOEMHandler(oemService, log)
	productHandler := handler.NewProductHandler(productService, log)
	lookupHandler := handler.NewLookupHandler(lookupService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	aiHandler := handler.NewAIHandler(aiService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		authHandler,
		userHandler,
		tenderHandler,
		checklistHandler,
		postAwardHandler,
		clientHandler,
		financeHandler,
		oemHandler,
		productHandler,
		lookupHandler,
		fileHandler,
		dashboardHandler,
		reportHandler,
		aiHandler,
		notificationHandler,
		auditHandler,
	)

	// Background jobs: deadline reminders and instrument expiry scans
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		deadlineJob := jobs.NewDeadlineReminderJob(tenderRepo, assignmentRepo, notificationRepo, log, jobTimeout)
		if err := scheduler.AddJob(jobs.DeadlineReminderJobName, cfg.Jobs.DeadlineReminderSchedule, deadlineJob.Run); err != nil {
			log.Error("Failed to register deadline reminder job", zap.Error(err))
		}

		expiryJob := jobs.NewInstrumentExpiryJob(financialRepo, notificationRepo, log, jobTimeout)
		if err := scheduler.AddJob(jobs.InstrumentExpiryJobName, cfg.Jobs.InstrumentExpirySchedule, expiryJob.Run); err != nil {
			log.Error("Failed to register instrument expiry job", zap.Error(err))
		}

		scheduler.Start()
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
