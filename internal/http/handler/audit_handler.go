package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService *service.AuditService
	logger       *zap.Logger
}

func NewAuditHandler(auditService *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// @Summary List audit logs
// @Description List audit log entries with optional filters. Admin only.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Param userId query string false "Filter by user ID"
// @Param action query string false "Filter by action (create, update, delete, login)"
// @Param entityType query string false "Filter by entity type"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /admin/audit-logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 50
	}

	filters := &repository.AuditLogFilters{}

	if uid := r.URL.Query().Get("userId"); uid != "" {
		filters.UserID = &uid
	}
	if a := r.URL.Query().Get("action"); a != "" {
		action := domain.AuditAction(a)
		filters.Action = &action
	}
	if et := r.URL.Query().Get("entityType"); et != "" {
		filters.EntityType = &et
	}
	if f := r.URL.Query().Get("from"); f != "" {
		if t, err := time.Parse("2006-01-02", f); err == nil {
			filters.From = &t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			// Include the whole end day
			end := t.Add(24*time.Hour - time.Nanosecond)
			filters.To = &end
		}
	}

	result, err := h.auditService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list audit logs")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get audit log entry
// @Description Get a single audit log entry. Admin only.
// @Tags Audit
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} domain.AuditLogDTO
// @Security BearerAuth
// @Router /admin/audit-logs/{id} [get]
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid entry ID: must be a valid UUID")
		return
	}

	entry, err := h.auditService.GetByID(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "Audit entry not found")
			return
		}
		h.logger.Error("failed to get audit entry", zap.Error(err), zap.String("entry_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get audit entry")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}
