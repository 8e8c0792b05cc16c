package handler

import (
	"net/http"
	"strconv"

	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Dashboard metrics
// @Description Aggregate tender counts, win rate, pipeline value and blocked funds
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetricsDTO
// @Security BearerAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to get dashboard metrics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// @Summary Deadline buckets
// @Description Open tenders grouped into nested 15 day, 7 day and 48 hour deadline windows
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DeadlineBucketsDTO
// @Security BearerAuth
// @Router /dashboard/deadlines [get]
func (h *DashboardHandler) GetDeadlineBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.dashboardService.GetDeadlineBuckets(r.Context())
	if err != nil {
		h.logger.Error("failed to get deadline buckets", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get deadline buckets")
		return
	}

	respondJSON(w, http.StatusOK, buckets)
}

// @Summary Upcoming deadlines
// @Description Open tenders with a submission deadline within the given number of days
// @Tags Dashboard
// @Produce json
// @Param days query int false "Window in days (1-90)" default(7)
// @Success 200 {array} domain.TenderDTO
// @Security BearerAuth
// @Router /dashboard/upcoming [get]
func (h *DashboardHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	tenders, err := h.dashboardService.GetDeadlinesWithin(r.Context(), days)
	if err != nil {
		h.logger.Error("failed to get upcoming deadlines", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get upcoming deadlines")
		return
	}

	respondJSON(w, http.StatusOK, tenders)
}
