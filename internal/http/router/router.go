package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/database"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/http/handler"
	"github.com/tendersuite/tender-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/tendersuite/tender-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	auditMiddleware     *middleware.AuditMiddleware
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	tenderHandler       *handler.TenderHandler
	checklistHandler    *handler.ChecklistHandler
	postAwardHandler    *handler.PostAwardHandler
	clientHandler       *handler.ClientHandler
	financeHandler      *handler.FinanceHandler
	oemHandler          *handler.OEMHandler
	productHandler      *handler.ProductHandler
	lookupHandler       *handler.LookupHandler
	fileHandler         *handler.FileHandler
	dashboardHandler    *handler.DashboardHandler
	reportHandler       *handler.ReportHandler
	aiHandler           *handler.AIHandler
	notificationHandler *handler.NotificationHandler
	auditHandler        *handler.AuditHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tenderHandler *handler.TenderHandler,
	checklistHandler *handler.ChecklistHandler,
	postAwardHandler *handler.PostAwardHandler,
	clientHandler *handler.ClientHandler,
	financeHandler *handler.FinanceHandler,
	oemHandler *handler.OEMHandler,
	productHandler *handler.ProductHandler,
	lookupHandler *handler.LookupHandler,
	fileHandler *handler.FileHandler,
	dashboardHandler *handler.DashboardHandler,
	reportHandler *handler.ReportHandler,
	aiHandler *handler.AIHandler,
	notificationHandler *handler.NotificationHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		auditMiddleware:     auditMiddleware,
		authHandler:         authHandler,
		userHandler:         userHandler,
		tenderHandler:       tenderHandler,
		checklistHandler:    checklistHandler,
		postAwardHandler:    postAwardHandler,
		clientHandler:       clientHandler,
		financeHandler:      financeHandler,
		oemHandler:          oemHandler,
		productHandler:      productHandler,
		lookupHandler:       lookupHandler,
		fileHandler:         fileHandler,
		dashboardHandler:    dashboardHandler,
		reportHandler:       reportHandler,
		aiHandler:           aiHandler,
		notificationHandler: notificationHandler,
		auditHandler:        auditHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.RequestLogging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes get the per-IP budget since there is no caller yet
		r.With(rt.rateLimiter.LimitByIP).Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)
			r.Use(rt.auditMiddleware.Audit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.List)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)
					r.Post("/", rt.userHandler.Create)
					r.Put("/{id}", rt.userHandler.Update)
					r.Post("/{id}/deactivate", rt.userHandler.Deactivate)
				})
			})

			// Tenders
			r.Route("/tenders", func(r chi.Router) {
				r.Get("/", rt.tenderHandler.List)
				r.Post("/", rt.tenderHandler.Create)
				r.Get("/{id}", rt.tenderHandler.GetByID)
				r.Put("/{id}", rt.tenderHandler.Update)
				r.Delete("/{id}", rt.tenderHandler.Delete)

				// Workflow
				r.Post("/{id}/advance", rt.tenderHandler.AdvanceStage)
				r.Post("/{id}/revert", rt.tenderHandler.RevertStage)
				r.Post("/{id}/status", rt.tenderHandler.UpdateStatus)
				r.Get("/{id}/stage-history", rt.tenderHandler.GetStageHistory)
				r.Get("/{id}/history", rt.tenderHandler.GetHistory)

				// Assignments
				r.Put("/{id}/assignees", rt.tenderHandler.SetAssignees)
				r.Post("/{id}/assignment-response", rt.tenderHandler.RespondToAssignment)

				// Checklists
				r.Get("/{id}/checklist", rt.checklistHandler.List)
				r.Post("/{id}/checklist", rt.checklistHandler.Add)
				r.Post("/{id}/checklist/generate", rt.checklistHandler.Generate)
				r.Patch("/{id}/checklist/{itemId}", rt.checklistHandler.Toggle)
				r.Delete("/{id}/checklist/{itemId}", rt.checklistHandler.Delete)

				// Post-award execution
				r.Get("/{id}/post-award", rt.postAwardHandler.GetTracker)
				r.Put("/{id}/post-award/{stage}", rt.postAwardHandler.UpdateStage)

				// Documents
				r.Get("/{id}/documents", rt.fileHandler.ListForTender)
				r.Post("/{id}/documents", rt.fileHandler.Upload)

				// Finance
				r.Get("/{id}/finance", rt.financeHandler.GetByTender)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.Put("/{id}", rt.clientHandler.Update)
				r.Delete("/{id}", rt.clientHandler.Delete)
				r.Post("/{id}/contacts", rt.clientHandler.AddContact)
				r.Put("/{id}/contacts/{contactId}", rt.clientHandler.UpdateContact)
				r.Delete("/{id}/contacts/{contactId}", rt.clientHandler.DeleteContact)
				r.Get("/{id}/interactions", rt.clientHandler.GetInteractions)
				r.Post("/{id}/interactions", rt.clientHandler.AddInteraction)
				r.Get("/{id}/health", rt.clientHandler.GetHealth)
				r.Get("/{id}/summary", rt.clientHandler.GetStrategicSummary)
			})

			// Finance
			r.Route("/finance/requests", func(r chi.Router) {
				r.Get("/", rt.financeHandler.List)
				r.Post("/", rt.financeHandler.Create)
				r.Get("/{id}", rt.financeHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Post("/{id}/approve", rt.financeHandler.Approve)
					r.Post("/{id}/decline", rt.financeHandler.Decline)
				})

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleFinance))
					r.Post("/{id}/process", rt.financeHandler.Process)
					r.Post("/{id}/refund", rt.financeHandler.Refund)
					r.Post("/{id}/release", rt.financeHandler.Release)
				})
			})

			// OEMs and products
			r.Route("/oems", func(r chi.Router) {
				r.Get("/", rt.oemHandler.List)
				r.Post("/", rt.oemHandler.Create)
				r.Get("/{id}", rt.oemHandler.GetByID)
				r.Put("/{id}", rt.oemHandler.Update)
				r.Delete("/{id}", rt.oemHandler.Delete)
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.List)
				r.Post("/", rt.productHandler.Create)
				r.Get("/{id}", rt.productHandler.GetByID)
				r.Put("/{id}", rt.productHandler.Update)
				r.Delete("/{id}", rt.productHandler.Delete)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)
			r.Get("/dashboard/deadlines", rt.dashboardHandler.GetDeadlineBuckets)
			r.Get("/dashboard/upcoming", rt.dashboardHandler.GetUpcoming)

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/funnel", rt.reportHandler.GetFunnel)
				r.Get("/win-loss", rt.reportHandler.GetWinLossTrend)
				r.Get("/categories", rt.reportHandler.GetCategoryWinRates)
				r.Get("/leaderboard", rt.reportHandler.GetLeaderboard)
				r.Get("/export", rt.reportHandler.Export)
				r.Get("/narrative", rt.reportHandler.GetNarrative)
			})

			// AI assistant
			r.Route("/ai", func(r chi.Router) {
				r.Get("/status", rt.aiHandler.Status)
				r.Post("/analyze", rt.aiHandler.Analyze)
				r.Post("/eligibility", rt.aiHandler.CheckEligibility)
				r.Post("/extract", rt.aiHandler.Extract)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.CountUnread)
				r.Post("/read-all", rt.notificationHandler.MarkAllRead)
				r.Post("/{id}/read", rt.notificationHandler.MarkRead)
			})

			// Admin
			r.Route("/admin", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Get("/audit-logs", rt.auditHandler.List)
				r.Get("/audit-logs/{id}", rt.auditHandler.GetByID)

				r.Get("/departments", rt.lookupHandler.ListDepartments)
				r.Post("/departments", rt.lookupHandler.CreateDepartment)
				r.Delete("/departments/{id}", rt.lookupHandler.DeleteDepartment)

				r.Get("/designations", rt.lookupHandler.ListDesignations)
				r.Post("/designations", rt.lookupHandler.CreateDesignation)
				r.Delete("/designations/{id}", rt.lookupHandler.DeleteDesignation)

				r.Get("/templates", rt.lookupHandler.ListTemplates)
				r.Post("/templates", rt.lookupHandler.CreateTemplate)
				r.Get("/templates/{id}", rt.lookupHandler.GetTemplate)
				r.Put("/templates/{id}", rt.lookupHandler.UpdateTemplate)
				r.Delete("/templates/{id}", rt.lookupHandler.DeleteTemplate)
			})
		})
	})

	return r
}
