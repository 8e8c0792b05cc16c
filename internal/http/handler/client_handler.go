package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// @Summary List clients
// @Description List clients with optional filters
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (lead, active, dormant, blacklisted)"
// @Param industry query string false "Filter by industry"
// @Param category query string false "Filter by category"
// @Param city query string false "Filter by city"
// @Param q query string false "Search in name and GSTIN"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.ClientFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ClientStatus(s)
		filters.Status = &status
	}
	if ind := r.URL.Query().Get("industry"); ind != "" {
		filters.Industry = &ind
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filters.Category = &c
	}
	if city := r.URL.Query().Get("city"); city != "" {
		filters.City = &city
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.SearchQuery = &q
	}

	result, err := h.clientService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to create client", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// @Summary Get client
// @Description Get a client with contacts and aggregate tender figures
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, "Client not found")
			return
		}
		h.logger.Error("failed to get client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.UpdateClientRequest true "Client data"
// @Success 200 {object} domain.ClientDTO
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// @Summary Delete client
// @Tags Clients
// @Param id path string true "Client ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Add contact
// @Description Add a contact person to a client. Marking it primary demotes the current primary.
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 201 {object} domain.ContactDTO
// @Security BearerAuth
// @Router /clients/{id}/contacts [post]
func (h *ClientHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contact, err := h.clientService.AddContact(r.Context(), clientID, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to add contact", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to add contact")
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// @Summary Update contact
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param contactId path string true "Contact ID"
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 200 {object} domain.ContactDTO
// @Security BearerAuth
// @Router /clients/{id}/contacts/{contactId} [put]
func (h *ClientHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}
	contactID, err := uuid.Parse(chi.URLParam(r, "contactId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	var req domain.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contact, err := h.clientService.UpdateContact(r.Context(), clientID, contactID, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to update contact", zap.Error(err), zap.String("contact_id", contactID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// @Summary Delete contact
// @Tags Clients
// @Param id path string true "Client ID"
// @Param contactId path string true "Contact ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /clients/{id}/contacts/{contactId} [delete]
func (h *ClientHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}
	contactID, err := uuid.Parse(chi.URLParam(r, "contactId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	if err := h.clientService.DeleteContact(r.Context(), clientID, contactID); err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to delete contact", zap.Error(err), zap.String("contact_id", contactID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Record interaction
// @Description Record a call, meeting, email or site visit with a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.CreateInteractionRequest true "Interaction data"
// @Success 201 {object} domain.InteractionDTO
// @Security BearerAuth
// @Router /clients/{id}/interactions [post]
func (h *ClientHandler) AddInteraction(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.CreateInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	interaction, err := h.clientService.AddInteraction(r.Context(), clientID, &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to add interaction", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to add interaction")
		return
	}

	respondJSON(w, http.StatusCreated, interaction)
}

// @Summary Get interactions
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Param limit query int false "Limit results" default(50)
// @Success 200 {array} domain.InteractionDTO
// @Security BearerAuth
// @Router /clients/{id}/interactions [get]
func (h *ClientHandler) GetInteractions(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	interactions, err := h.clientService.GetInteractions(r.Context(), clientID, limit)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get interactions", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get interactions")
		return
	}

	respondJSON(w, http.StatusOK, interactions)
}

// @Summary Get client health
// @Description Get the client's win rate and health rating derived from closed tenders
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientHealthDTO
// @Security BearerAuth
// @Router /clients/{id}/health [get]
func (h *ClientHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	health, err := h.clientService.GetHealth(r.Context(), clientID)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get client health", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get client health")
		return
	}

	respondJSON(w, http.StatusOK, health)
}

// @Summary Get strategic summary
// @Description Generate an AI account brief for a client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.NarrativeReportDTO
// @Failure 503 {object} domain.APIError "AI assistant not configured"
// @Security BearerAuth
// @Router /clients/{id}/summary [get]
func (h *ClientHandler) GetStrategicSummary(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	summary, err := h.clientService.GetStrategicSummary(r.Context(), clientID)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to generate client summary", zap.Error(err), zap.String("client_id", clientID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to generate client summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
