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

type FinanceHandler struct {
	financeService *service.FinanceService
	logger         *zap.Logger
}

func NewFinanceHandler(financeService *service.FinanceService, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		logger:         logger,
	}
}

// @Summary List financial requests
// @Description List EMD, PBG and tender fee requests with optional filters
// @Tags Finance
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param tenderId query string false "Filter by tender ID"
// @Param type query string false "Filter by type (emd, pbg, tender_fee)"
// @Param status query string false "Filter by status (pending_approval, approved, declined, processed, refunded, released)"
// @Param requestedBy query string false "Filter by requester user ID"
// @Param createdAfter query string false "Created after date (YYYY-MM-DD)"
// @Param createdBefore query string false "Created before date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /finance/requests [get]
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.FinancialFilters{}

	if tid := r.URL.Query().Get("tenderId"); tid != "" {
		if id, err := uuid.Parse(tid); err == nil {
			filters.TenderID = &id
		}
	}
	if t := r.URL.Query().Get("type"); t != "" {
		rt := domain.FinancialRequestType(t)
		filters.Type = &rt
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.FinancialStatus(s)
		filters.Status = &status
	}
	if rb := r.URL.Query().Get("requestedBy"); rb != "" {
		filters.RequestedByID = &rb
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

	result, err := h.financeService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list financial requests", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list financial requests")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create financial request
// @Description Raise an EMD, PBG or tender fee request for a tender
// @Tags Finance
// @Accept json
// @Produce json
// @Param request body domain.CreateFinancialRequest true "Request data"
// @Success 201 {object} domain.FinancialRequestDTO
// @Security BearerAuth
// @Router /finance/requests [post]
func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFinancialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	request, err := h.financeService.CreateRequest(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to create financial request", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create financial request")
		return
	}

	w.Header().Set("Location", "/api/v1/finance/requests/"+request.ID.String())
	respondJSON(w, http.StatusCreated, request)
}

// @Summary Get financial request
// @Tags Finance
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.FinancialRequestDTO
// @Security BearerAuth
// @Router /finance/requests/{id} [get]
func (h *FinanceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID: must be a valid UUID")
		return
	}

	request, err := h.financeService.GetByID(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "Financial request not found")
			return
		}
		h.logger.Error("failed to get financial request", zap.Error(err), zap.String("request_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get financial request")
		return
	}

	respondJSON(w, http.StatusOK, request)
}

// @Summary Get tender financial requests
// @Tags Finance
// @Produce json
// @Param id path string true "Tender ID"
// @Success 200 {array} domain.FinancialRequestDTO
// @Security BearerAuth
// @Router /tenders/{id}/finance [get]
func (h *FinanceHandler) GetByTender(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tender ID: must be a valid UUID")
		return
	}

	requests, err := h.financeService.GetByTender(r.Context(), tenderID)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get tender financial requests", zap.Error(err), zap.String("tender_id", tenderID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get tender financial requests")
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// @Summary Approve financial request
// @Description Approve a pending financial request. Admin only.
// @Tags Finance
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.FinancialRequestDTO
// @Failure 422 {object} domain.APIError "Request is not pending approval"
// @Security BearerAuth
// @Router /finance/requests/{id}/approve [post]
func (h *FinanceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "approve", func(id uuid.UUID) (*domain.FinancialRequestDTO, error) {
		return h.financeService.Approve(r.Context(), id)
	})
}

// @Summary Decline financial request
// @Description Decline a pending financial request with a reason. Admin only.
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body domain.DeclineFinancialRequest true "Decline reason"
// @Success 200 {object} domain.FinancialRequestDTO
// @Security BearerAuth
// @Router /finance/requests/{id}/decline [post]
func (h *FinanceHandler) Decline(w http.ResponseWriter, r *http.Request) {
	var req domain.DeclineFinancialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	h.act(w, r, "decline", func(id uuid.UUID) (*domain.FinancialRequestDTO, error) {
		return h.financeService.Decline(r.Context(), id, &req)
	})
}

// @Summary Process financial request
// @Description Record the instrument details for an approved request. Admin or finance role.
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body domain.ProcessFinancialRequest true "Instrument details"
// @Success 200 {object} domain.FinancialRequestDTO
// @Security BearerAuth
// @Router /finance/requests/{id}/process [post]
func (h *FinanceHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req domain.ProcessFinancialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	h.act(w, r, "process", func(id uuid.UUID) (*domain.FinancialRequestDTO, error) {
		return h.financeService.Process(r.Context(), id, &req)
	})
}

// @Summary Refund EMD
// @Description Mark a processed EMD as refunded. Admin or finance role.
// @Tags Finance
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.FinancialRequestDTO
// @Failure 422 {object} domain.APIError "Only processed EMD requests can be refunded"
// @Security BearerAuth
// @Router /finance/requests/{id}/refund [post]
func (h *FinanceHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "refund", func(id uuid.UUID) (*domain.FinancialRequestDTO, error) {
		return h.financeService.Refund(r.Context(), id)
	})
}

// @Summary Release PBG
// @Description Mark a processed PBG as released. Admin or finance role.
// @Tags Finance
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.FinancialRequestDTO
// @Failure 422 {object} domain.APIError "Only processed PBG requests can be released"
// @Security BearerAuth
// @Router /finance/requests/{id}/release [post]
func (h *FinanceHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "release", func(id uuid.UUID) (*domain.FinancialRequestDTO, error) {
		return h.financeService.Release(r.Context(), id)
	})
}

func (h *FinanceHandler) act(w http.ResponseWriter, r *http.Request, action string, fn func(uuid.UUID) (*domain.FinancialRequestDTO, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID: must be a valid UUID")
		return
	}

	request, err := fn(id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to "+action+" financial request", zap.Error(err), zap.String("request_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action+" financial request")
		return
	}

	respondJSON(w, http.StatusOK, request)
}
