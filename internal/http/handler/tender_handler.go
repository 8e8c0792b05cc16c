package handler

import (
	"encoding/json"
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

type TenderHandler struct {
	tenderService *service.TenderService
	logger        *zap.Logger
}

func NewTenderHandler(tenderService *service.TenderService, logger *zap.Logger) *TenderHandler {
	return &TenderHandler{
		tenderService: tenderService,
		logger:        logger,
	}
}

// @Summary List tenders
// @Description List tenders with optional filters
// @Tags Tenders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (drafting, submitted, under_review, won, lost, dropped, archived)"
// @Param stage query string false "Filter by workflow stage"
// @Param clientId query string false "Filter by client ID"
// @Param oemId query string false "Filter by OEM ID"
// @Param category query string false "Filter by item category"
// @Param assigneeId query string false "Filter by assigned user ID"
// @Param minValue query number false "Minimum tender value"
// @Param maxValue query number false "Maximum tender value"
// @Param deadlineAfter query string false "Deadline after date (YYYY-MM-DD)"
// @Param deadlineBefore query string false "Deadline before date (YYYY-MM-DD)"
// @Param createdAfter query string false "Created after date (YYYY-MM-DD)"
// @Param createdBefore query string false "Created before date (YYYY-MM-DD)"
// @Param q query string false "Search in title, reference number and authority"
// @Param sort query string false "Sort by (created_desc, created_asc, deadline_asc, deadline_desc, value_desc, value_asc)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /tenders [get]
func (h *TenderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.TenderFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.TenderStatus(s)
		filters.Status = &status
	}
	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.WorkflowStage(s)
		filters.Stage = &stage
	}
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			filters.ClientID = &id
		}
	}
	if oid := r.URL.Query().Get("oemId"); oid != "" {
		if id, err := uuid.Parse(oid); err == nil {
			filters.OEMID = &id
		}
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filters.ItemCategory = &c
	}
	if aid := r.URL.Query().Get("assigneeId"); aid != "" {
		if id, err := uuid.Parse(aid); err == nil {
			filters.AssigneeID = &id
		}
	}
	if minVal := r.URL.Query().Get("minValue"); minVal != "" {
		if v, err := strconv.ParseFloat(minVal, 64); err == nil {
			filters.MinValue = &v
		}
	}
	if maxVal := r.URL.Query().Get("maxValue"); maxVal != "" {
		if v, err := strconv.ParseFloat(maxVal, 64); err == nil {
			filters.MaxValue = &v
		}
	}
	if da := r.URL.Query().Get("deadlineAfter"); da != "" {
		if t, err := time.Parse("2006-01-02", da); err == nil {
			filters.DeadlineAfter = &t
		}
	}
	if db := r.URL.Query().Get("deadlineBefore"); db != "" {
		if t, err := time.Parse("2006-01-02", db); err == nil {
			filters.DeadlineBefore = &t
		}
	}
	if ca := r.URL.Query().Get("createdAfter"); ca != "" {
		if t, err := time.Parse("2006-01-02", ca); err == nil {
			filters.CreatedAfter = &t
		}
	}
	if cb := r.URL.Query().Get("createdBefore"); cb != "" {
		if t, err := time.Parse("2006-01-02", cb); err == nil {
			filters.CreatedBefore = &t
		}
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.SearchQuery = &q
	}

	sortBy := repository.TenderSortByCreatedDesc
	if s := r.URL.Query().Get("sort"); s != "" {
		sortBy = repository.TenderSortOption(s)
	}

	result, err := h.tenderService.List(r.Context(), page, pageSize, filters, sortBy)
	if err != nil {
		h.logger.Error("failed to list tenders", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list tenders")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create tender
// @Description Register a new tender opportunity
// @Tags Tenders
// @Accept json
// @Produce json
// @Param request body domain.CreateTenderRequest true "Tender data"
// @Success 201 {object} domain.TenderDTO
// @Security BearerAuth
// @Router /tenders [post]
func (h *TenderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tender, err := h.tenderService.Create(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to create tender", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create tender")
		return
	}

	w.Header().Set("Location", "/api/v1/tenders/"+tender.ID.String())
	respondJSON(w, http.StatusCreated, tender)
}

// @Summary Get tender
// @Description Get a tender by ID with financial details and assignments
// @Tags Tenders
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {object} domain.TenderDTO
// @Security BearerAuth
// @Router /tenders/{id} [get]
func (h *TenderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	tender, err := h.tenderService.GetByID(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "Tender not found")
			return
		}
		h.logger.Error("failed to get tender", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get tender")
		return
	}

	respondJSON(w, http.StatusOK, tender)
}

// @Summary Update tender
// @Description Update an existing tender. The request version must match the stored version.
// @Tags Tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.UpdateTenderRequest true "Tender data"
// @Success 200 {object} domain.TenderDTO
// @Failure 409 {object} domain.APIError "Version conflict - the tender was modified by someone else"
// @Security BearerAuth
// @Router /tenders/{id} [put]
func (h *TenderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tender, err := h.tenderService.Update(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update tender", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update tender")
		return
	}

	respondJSON(w, http.StatusOK, tender)
}

// @Summary Delete tender
// @Description Delete a tender and its related records
// @Tags Tenders
// @Param id path string true "Tender ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /tenders/{id} [delete]
func (h *TenderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	if err := h.tenderService.Delete(r.Context(), id); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete tender", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete tender")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Advance workflow stage
// @Description Move a tender one step forward in the workflow. Clamped at the last stage: the unchanged tender is returned.
// @Tags Tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.StageTransitionRequest true "Transition notes and expected version"
// @Success 200 {object} domain.TenderDTO
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /tenders/{id}/advance [post]
func (h *TenderHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	h.transitionStage(w, r, true)
}

// @Summary Revert workflow stage
// @Description Move a tender one step backward in the workflow. Clamped at the first stage: the unchanged tender is returned.
// @Tags Tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.StageTransitionRequest true "Transition notes and expected version"
// @Success 200 {object} domain.TenderDTO
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /tenders/{id}/revert [post]
func (h *TenderHandler) RevertStage(w http.ResponseWriter, r *http.Request) {
	h.transitionStage(w, r, false)
}

func (h *TenderHandler) transitionStage(w http.ResponseWriter, r *http.Request, forward bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.StageTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	var tender *domain.TenderDTO
	if forward {
		tender, err = h.tenderService.AdvanceStage(r.Context(), id, &req)
	} else {
		tender, err = h.tenderService.RevertStage(r.Context(), id, &req)
	}
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to transition tender stage", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to transition tender stage")
		return
	}

	respondJSON(w, http.StatusOK, tender)
}

// @Summary Update tender status
// @Description Change the tender status. Lost and dropped require a reason; winning initializes the post-award tracker.
// @Tags Tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.UpdateTenderStatusRequest true "New status, optional reason and expected version"
// @Success 200 {object} domain.TenderDTO
// @Failure 422 {object} domain.APIError "Reason required for lost or dropped"
// @Security BearerAuth
// @Router /tenders/{id}/status [post]
func (h *TenderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTenderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tender, err := h.tenderService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update tender status", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update tender status")
		return
	}

	respondJSON(w, http.StatusOK, tender)
}

// @Summary Set assignees
// @Description Replace the set of users assigned to a tender
// @Tags Tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.SetAssigneesRequest true "User IDs to assign"
// @Success 200 {object} domain.TenderDTO
// @Security BearerAuth
// @Router /tenders/{id}/assignees [put]
func (h *TenderHandler) SetAssignees(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.SetAssigneesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tender, err := h.tenderService.SetAssignees(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to set assignees", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to set assignees")
		return
	}

	respondJSON(w, http.StatusOK, tender)
}

// @Summary Respond to assignment
// @Description Accept or decline the caller's own assignment on a tender
// @Tags Tenders
// @Accept json
// @Produce json
// @Param id path string true "Tender ID"
// @Param request body domain.AssignmentResponseRequest true "Response (accepted or declined)"
// @Success 200 {object} domain.TenderDTO
// @Failure 409 {object} domain.APIError "Assignment already responded to"
// @Security BearerAuth
// @Router /tenders/{id}/assignment-response [post]
func (h *TenderHandler) RespondToAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	var req domain.AssignmentResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tender, err := h.tenderService.RespondToAssignment(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to respond to assignment", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to respond to assignment")
		return
	}

	respondJSON(w, http.StatusOK, tender)
}

// @Summary Get stage history
// @Description Get the workflow stage transition history for a tender
// @Tags Tenders
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {array} domain.StageHistoryDTO
// @Security BearerAuth
// @Router /tenders/{id}/stage-history [get]
func (h *TenderHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	history, err := h.tenderService.GetStageHistory(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get stage history", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get stage history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// @Summary Get tender history
// @Description Get the change history entries for a tender
// @Tags Tenders
// @Produce json
// @Param id path string true "Tender ID"
// @Param limit query int false "Limit results" default(50)
// @Success 200 {array} domain.HistoryEntryDTO
// @Security BearerAuth
// @Router /tenders/{id}/history [get]
func (h *TenderHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	history, err := h.tenderService.GetHistory(r.Context(), id, limit)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get tender history", zap.Error(err), zap.String("tender_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get tender history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}
