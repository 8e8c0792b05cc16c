package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// @Summary Login
// @Description Exchange email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} domain.APIError "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// @Summary Current user
// @Description Get the profile of the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetCurrent(r.Context())
	if err != nil {
		if status := statusForServiceError(err); status != 0 {
			respondWithError(w, status, err.Error())
			return
		}
		h.logger.Error("failed to get current user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get current user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
