package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

// LookupHandler serves the small admin-managed reference lists:
// departments, designations and document templates.
type LookupHandler struct {
	lookupService *service.LookupService
	logger        *zap.Logger
}

func NewLookupHandler(lookupService *service.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		logger:        logger,
	}
}

// @Summary List departments
// @Tags Lookups
// @Produce json
// @Success 200 {array} domain.LookupDTO
// @Security BearerAuth
// @Router /admin/departments [get]
func (h *LookupHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "departments", func(ctx context.Context) ([]domain.LookupDTO, error) {
		return h.lookupService.ListDepartments(ctx)
	})
}

// @Summary Create department
// @Tags Lookups
// @Accept json
// @Produce json
// @Param request body domain.CreateLookupRequest true "Department name"
// @Success 201 {object} domain.LookupDTO
// @Security BearerAuth
// @Router /admin/departments [post]
func (h *LookupHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "department", func(ctx context.Context, req *domain.CreateLookupRequest) (*domain.LookupDTO, error) {
		return h.lookupService.CreateDepartment(ctx, req)
	})
}

// @Summary Delete department
// @Tags Lookups
// @Param id path string true "Department ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /admin/departments/{id} [delete]
func (h *LookupHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "department", func(ctx context.Context, id uuid.UUID) error {
		return h.lookupService.DeleteDepartment(ctx, id)
	})
}

// @Summary List designations
// @Tags Lookups
// @Produce json
// @Success 200 {array} domain.LookupDTO
// @Security BearerAuth
// @Router /admin/designations [get]
func (h *LookupHandler) ListDesignations(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "designations", func(ctx context.Context) ([]domain.LookupDTO, error) {
		return h.lookupService.ListDesignations(ctx)
	})
}

// @Summary Create designation
// @Tags Lookups
// @Accept json
// @Produce json
// @Param request body domain.CreateLookupRequest true "Designation name"
// @Success 201 {object} domain.LookupDTO
// @Security BearerAuth
// @Router /admin/designations [post]
func (h *LookupHandler) CreateDesignation(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "designation", func(ctx context.Context, req *domain.CreateLookupRequest) (*domain.LookupDTO, error) {
		return h.lookupService.CreateDesignation(ctx, req)
	})
}

// @Summary Delete designation
// @Tags Lookups
// @Param id path string true "Designation ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /admin/designations/{id} [delete]
func (h *LookupHandler) DeleteDesignation(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "designation", func(ctx context.Context, id uuid.UUID) error {
		return h.lookupService.DeleteDesignation(ctx, id)
	})
}

// @Summary List document templates
// @Tags Lookups
// @Produce json
// @Success 200 {array} domain.DocumentTemplateDTO
// @Security BearerAuth
// @Router /admin/templates [get]
func (h *LookupHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.lookupService.ListTemplates(r.Context())
	if err != nil {
		h.logger.Error("failed to list templates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	respondJSON(w, http.StatusOK, templates)
}

// @Summary Get document template
// @Tags Lookups
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} domain.DocumentTemplateDTO
// @Security BearerAuth
// @Router /admin/templates/{id} [get]
func (h *LookupHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID: must be a valid UUID")
		return
	}

	template, err := h.lookupService.GetTemplate(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "Template not found")
			return
		}
		h.logger.Error("failed to get template", zap.Error(err), zap.String("template_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// @Summary Create document template
// @Tags Lookups
// @Accept json
// @Produce json
// @Param request body domain.CreateDocumentTemplateRequest true "Template data"
// @Success 201 {object} domain.DocumentTemplateDTO
// @Security BearerAuth
// @Router /admin/templates [post]
func (h *LookupHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDocumentTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	template, err := h.lookupService.CreateTemplate(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to create template", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	respondJSON(w, http.StatusCreated, template)
}

// @Summary Update document template
// @Tags Lookups
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body domain.CreateDocumentTemplateRequest true "Template data"
// @Success 200 {object} domain.DocumentTemplateDTO
// @Security BearerAuth
// @Router /admin/templates/{id} [put]
func (h *LookupHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID: must be a valid UUID")
		return
	}

	var req domain.CreateDocumentTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	template, err := h.lookupService.UpdateTemplate(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update template", zap.Error(err), zap.String("template_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// @Summary Delete document template
// @Tags Lookups
// @Param id path string true "Template ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /admin/templates/{id} [delete]
func (h *LookupHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "template", func(ctx context.Context, id uuid.UUID) error {
		return h.lookupService.DeleteTemplate(ctx, id)
	})
}

func (h *LookupHandler) list(w http.ResponseWriter, r *http.Request, what string, fn func(context.Context) ([]domain.LookupDTO, error)) {
	items, err := fn(r.Context())
	if err != nil {
		h.logger.Error("failed to list "+what, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list "+what)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *LookupHandler) create(w http.ResponseWriter, r *http.Request, what string, fn func(context.Context, *domain.CreateLookupRequest) (*domain.LookupDTO, error)) {
	var req domain.CreateLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := fn(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to create "+what, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create "+what)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *LookupHandler) delete(w http.ResponseWriter, r *http.Request, what string, fn func(context.Context, uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+what+" ID: must be a valid UUID")
		return
	}

	if err := fn(r.Context(), id); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete "+what, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete "+what)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
