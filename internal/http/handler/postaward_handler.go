package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type PostAwardHandler struct {
	postAwardService *service.PostAwardService
	logger           *zap.Logger
}

func NewPostAwardHandler(postAwardService *service.PostAwardService, logger *zap.Logger) *PostAwardHandler {
	return &PostAwardHandler{
		postAwardService: postAwardService,
		logger:           logger,
	}
}

// @Summary Get post-award tracker
// @Description Get the post-award execution tracker for a won tender
// @Tags PostAward
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {object} domain.PostAwardTrackerDTO
// @Failure 422 {object} domain.APIError "Tender is not won"
// @Security BearerAuth
// @Router /tenders/{id}/post-award [get]
func (h *PostAwardHandler) GetTracker(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	tracker, err := h.postAwardService.GetTracker(r.Context(), tenderID)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get post-award tracker", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get post-award tracker")
		return
	}

	respondJSON(w, http.StatusOK, tracker)
}

// @Summary Update post-award stage
// @Description Set the status of one post-award stage. Stages are independent of each other.
// @Tags PostAward
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param stage path string true "Post-award stage"
// @Param request body domain.UpdatePostAwardStageRequest true "New status and notes"
// @Success 200 {object} domain.PostAwardProgressDTO
// @Security BearerAuth
// @Router /tenders/{id}/post-award/{stage} [put]
func (h *PostAwardHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	stage := domain.PostAwardStage(chi.URLParam(r, "stage"))
	if !stage.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Unknown post-award stage: "+string(stage))
		return
	}

	var req domain.UpdatePostAwardStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	progress, err := h.postAwardService.UpdateStage(r.Context(), tenderID, stage, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update post-award stage", zap.Error(err),
			zap.String("tender_id", tenderID.String()), zap.String("stage", string(stage)))
		respondWithError(w, http.StatusInternalServerError, "Failed to update post-award stage")
		return
	}

	respondJSON(w, http.StatusOK, progress)
}
