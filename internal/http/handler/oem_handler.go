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

type OEMHandler struct {
	oemService *service.OEMService
	logger     *zap.Logger
}

func NewOEMHandler(oemService *service.OEMService, logger *zap.Logger) *OEMHandler {
	return &OEMHandler{
		oemService: oemService,
		logger:     logger,
	}
}

// @Summary List OEMs
// @Tags OEMs
// @Produce json
// @Param q query string false "Search in name"
// @Success 200 {array} domain.OEMDTO
// @Security BearerAuth
// @Router /oems [get]
func (h *OEMHandler) List(w http.ResponseWriter, r *http.Request) {
	oems, err := h.oemService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("failed to list OEMs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list OEMs")
		return
	}

	respondJSON(w, http.StatusOK, oems)
}

// @Summary Create OEM
// @Tags OEMs
// @Accept json
// @Produce json
// @Param request body domain.CreateOEMRequest true "OEM data"
// @Success 201 {object} domain.OEMDTO
// @Security BearerAuth
// @Router /oems [post]
func (h *OEMHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOEMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	oem, err := h.oemService.Create(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to create OEM", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create OEM")
		return
	}

	respondJSON(w, http.StatusCreated, oem)
}

// @Summary Get OEM
// @Tags OEMs
// @Produce json
// @Param id path string true "OEM ID"
// @Success 200 {object} domain.OEMDTO
// @Security BearerAuth
// @Router /oems/{id} [get]
func (h *OEMHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid OEM ID: must be a valid UUID")
		return
	}

	oem, err := h.oemService.GetByID(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "OEM not found")
			return
		}
		h.logger.Error("failed to get OEM", zap.Error(err), zap.String("oem_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get OEM")
		return
	}

	respondJSON(w, http.StatusOK, oem)
}

// @Summary Update OEM
// @Tags OEMs
// @Accept json
// @Produce json
// @Param id path string true "OEM ID"
// @Param request body domain.CreateOEMRequest true "OEM data"
// @Success 200 {object} domain.OEMDTO
// @Security BearerAuth
// @Router /oems/{id} [put]
func (h *OEMHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid OEM ID: must be a valid UUID")
		return
	}

	var req domain.CreateOEMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	oem, err := h.oemService.Update(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update OEM", zap.Error(err), zap.String("oem_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update OEM")
		return
	}

	respondJSON(w, http.StatusOK, oem)
}

// @Summary Delete OEM
// @Tags OEMs
// @Param id path string true "OEM ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /oems/{id} [delete]
func (h *OEMHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid OEM ID: must be a valid UUID")
		return
	}

	if err := h.oemService.Delete(r.Context(), id); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete OEM", zap.Error(err), zap.String("oem_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete OEM")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
