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

type ChecklistHandler struct {
	checklistService *service.ChecklistService
	logger           *zap.Logger
}

func NewChecklistHandler(checklistService *service.ChecklistService, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		checklistService: checklistService,
		logger:           logger,
	}
}

// @Summary Get checklist
// @Description Get all checklist items for a tender, optionally scoped to one stage
// @Tags Checklists
// @Produce json
// @Param id path string true "Tender ID"
// @Param stage query string false "Workflow stage; seeds standard items on first access"
// @Success 200 {array} domain.ChecklistItemDTO
// @Security BearerAuth
// @Router /tenders/{id}/checklist [get]
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var items []domain.ChecklistItemDTO
	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.WorkflowStage(s)
		if !stage.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown workflow stage: "+s)
			return
		}
		items, err = h.checklistService.GetForStage(r.Context(), tenderID, stage)
	} else {
		items, err = h.checklistService.GetForTender(r.Context(), tenderID)
	}
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get checklist", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get checklist")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// @Summary Add checklist item
// @Description Add a manual checklist item to a tender stage
// @Tags Checklists
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.CreateChecklistItemRequest true "Item data"
// @Success 201 {object} domain.ChecklistItemDTO
// @Security BearerAuth
// @Router /tenders/{id}/checklist [post]
func (h *ChecklistHandler) Add(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.CreateChecklistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.checklistService.AddItem(r.Context(), tenderID, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to add checklist item", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to add checklist item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// @Summary Toggle checklist item
// @Description Mark a checklist item completed or reopen it
// @Tags Checklists
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param itemId path string true "Checklist item ID"
// @Param request body domain.ToggleChecklistItemRequest true "Completion state"
// @Success 200 {object} domain.ChecklistItemDTO
// @Security BearerAuth
// @Router /tenders/{id}/checklist/{itemId} [patch]
func (h *ChecklistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	var req domain.ToggleChecklistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	item, err := h.checklistService.ToggleItem(r.Context(), tenderID, itemID, req.Completed)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to toggle checklist item", zap.Error(err), zap.String("item_id", itemID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to toggle checklist item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// @Summary Delete checklist item
// @Description Remove a checklist item from a tender
// @Tags Checklists
// @Param id path string true "Tender ID"
// @Param itemId path string true "Checklist item ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /tenders/{id}/checklist/{itemId} [delete]
func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	if err := h.checklistService.DeleteItem(r.Context(), tenderID, itemID); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete checklist item", zap.Error(err), zap.String("item_id", itemID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete checklist item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Generate checklist items
// @Description Generate stage checklist items with the AI assistant
// @Tags Checklists
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.GenerateChecklistRequest true "Stage and optional extra context"
// @Success 200 {array} domain.ChecklistItemDTO
// @Failure 503 {object} domain.APIError "AI assistant not configured"
// @Security BearerAuth
// @Router /tenders/{id}/checklist/generate [post]
func (h *ChecklistHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.GenerateChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	items, err := h.checklistService.Generate(r.Context(), tenderID, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to generate checklist", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to generate checklist")
		return
	}

	respondJSON(w, http.StatusOK, items)
}
