package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// @Summary Workflow funnel
// @Description Cumulative tender counts per workflow stage, first stage to last
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.FunnelStageDTO
// @Security BearerAuth
// @Router /reports/funnel [get]
func (h *ReportHandler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := h.reportService.GetFunnel(r.Context())
	if err != nil {
		h.logger.Error("failed to get funnel", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get funnel")
		return
	}

	respondJSON(w, http.StatusOK, funnel)
}

// @Summary Win/loss trend
// @Description Monthly won and lost counts for the trailing months, zero-filled
// @Tags Reports
// @Produce json
// @Param months query int false "Number of months (1-36)" default(6)
// @Success 200 {array} domain.WinLossPointDTO
// @Security BearerAuth
// @Router /reports/win-loss [get]
func (h *ReportHandler) GetWinLossTrend(w http.ResponseWriter, r *http.Request) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))

	trend, err := h.reportService.GetWinLossTrend(r.Context(), months)
	if err != nil {
		h.logger.Error("failed to get win/loss trend", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get win/loss trend")
		return
	}

	respondJSON(w, http.StatusOK, trend)
}

// @Summary Category win rates
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.CategoryWinRateDTO
// @Security BearerAuth
// @Router /reports/categories [get]
func (h *ReportHandler) GetCategoryWinRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.reportService.GetCategoryWinRates(r.Context())
	if err != nil {
		h.logger.Error("failed to get category win rates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get category win rates")
		return
	}

	respondJSON(w, http.StatusOK, rates)
}

// @Summary Leaderboard
// @Description Per-user tender counts and win rates
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.LeaderboardEntryDTO
// @Security BearerAuth
// @Router /reports/leaderboard [get]
func (h *ReportHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.reportService.GetLeaderboard(r.Context())
	if err != nil {
		h.logger.Error("failed to get leaderboard", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, leaderboard)
}

// @Summary Export tenders
// @Description Export the full tender register as CSV or XLSX
// @Tags Reports
// @Produce application/octet-stream
// @Param format query string false "Export format (csv or xlsx)" default(csv)
// @Success 200
// @Security BearerAuth
// @Router /reports/export [get]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.reportService.ExportCSV(r.Context())
		contentType = "text/csv"
		ext = "csv"
	case "xlsx":
		data, err = h.reportService.ExportXLSX(r.Context())
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown export format: must be csv or xlsx")
		return
	}
	if err != nil {
		h.logger.Error("failed to export tenders", zap.Error(err), zap.String("format", format))
		respondWithError(w, http.StatusInternalServerError, "Failed to export tenders")
		return
	}

	filename := fmt.Sprintf("tenders-%s.%s", time.Now().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// @Summary Narrative report
// @Description Generate an AI narrative summary of the overall pipeline
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.NarrativeReportDTO
// @Failure 503 {object} domain.APIError "AI assistant not configured"
// @Security BearerAuth
// @Router /reports/narrative [get]
func (h *ReportHandler) GetNarrative(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.GenerateNarrative(r.Context())
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to generate narrative report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to generate narrative report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
