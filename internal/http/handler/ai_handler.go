package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type AIHandler struct {
	aiService *service.AIService
	logger    *zap.Logger
}

func NewAIHandler(aiService *service.AIService, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		logger:    logger,
	}
}

// @Summary AI status
// @Description Whether the AI assistant is configured and available
// @Tags AI
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /ai/status [get]
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"enabled": h.aiService.Enabled()})
}

// @Summary Analyze tender
// @Description Generate a bid/no-bid analysis for a tender
// @Tags AI
// @Accept json
// @Produce json
// @Param request body domain.AnalyzeTenderRequest true "Tender and optional extra context"
// @Success 200 {object} domain.TenderAnalysisDTO
// @Failure 503 {object} domain.APIError "AI assistant not configured"
// @Security BearerAuth
// @Router /ai/analyze [post]
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalyzeTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	analysis, err := h.aiService.Analyze(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to analyze tender", zap.Error(err), zap.String("tender_id", req.TenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze tender")
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// @Summary Check eligibility
// @Description Evaluate tender eligibility criteria against the company profile
// @Tags AI
// @Accept json
// @Produce json
// @Param request body domain.EligibilityCheckRequest true "Tender and criteria text"
// @Success 200 {object} domain.EligibilityResultDTO
// @Failure 503 {object} domain.APIError "AI assistant not configured"
// @Security BearerAuth
// @Router /ai/eligibility [post]
func (h *AIHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req domain.EligibilityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.aiService.CheckEligibility(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to check eligibility", zap.Error(err), zap.String("tender_id", req.TenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to check eligibility")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Extract tender fields
// @Description Extract structured tender fields from pasted notice text
// @Tags AI
// @Accept json
// @Produce json
// @Param request body domain.ExtractTenderRequest true "Raw notice text"
// @Success 200 {object} domain.ExtractedTenderDTO
// @Failure 503 {object} domain.APIError "AI assistant not configured"
// @Security BearerAuth
// @Router /ai/extract [post]
func (h *AIHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtractTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	extracted, err := h.aiService.Extract(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to extract tender fields", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to extract tender fields")
		return
	}

	respondJSON(w, http.StatusOK, extracted)
}
