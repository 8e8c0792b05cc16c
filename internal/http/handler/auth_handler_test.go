package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/http/handler"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func createAuthHandler(t *testing.T, db *gorm.DB) (*handler.AuthHandler, *service.UserService) {
	t.Helper()
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-test-secret-test-secret!",
		TokenTTL:  60,
		Issuer:    "tendersuite-test",
	})
	require.NoError(t, err)
	svc := service.NewUserService(
		repository.NewUserRepository(db),
		tokens,
		repository.NewHistoryRepository(db),
		zap.NewNop(),
	)
	return handler.NewAuthHandler(svc, zap.NewNop()), svc
}

func TestAuthHandler_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, svc := createAuthHandler(t, db)

	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Name:     "Asha Rao",
		Role:     domain.RoleSales,
	})
	require.NoError(t, err)

	t.Run("valid credentials return a token", func(t *testing.T) {
		body, _ := json.Marshal(domain.LoginRequest{
			Email:    "asha@example.com",
			Password: "s3cret-pass",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp domain.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "asha@example.com", resp.User.Email)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		body, _ := json.Marshal(domain.LoginRequest{
			Email:    "asha@example.com",
			Password: "wrong-pass",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("short password fails validation before lookup", func(t *testing.T) {
		body, _ := json.Marshal(domain.LoginRequest{
			Email:    "asha@example.com",
			Password: "short",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := createAuthHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)

	t.Run("returns the caller's profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(authedContext(user))
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.UserDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, user.ID, dto.ID)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
