package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/domain"
)

func issueTestToken(t *testing.T, tm *TokenManager, role domain.UserRole) string {
	t.Helper()
	token, _, err := tm.IssueToken(&domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "user@example.com",
		Name:      "Test User",
		Role:      role,
	})
	require.NoError(t, err)
	return token
}

func TestMiddlewareAuthenticate(t *testing.T) {
	tm := newTestTokenManager(t, 60)
	m := NewMiddleware(tm, zap.NewNop())

	var captured *UserContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := m.Authenticate(next)

	t.Run("valid bearer token passes through", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, tm, domain.RoleSales))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, captured)
		assert.Equal(t, domain.RoleSales, captured.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
		req.Header.Set("Authorization", "Token abcdef")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := NewTokenManager(&config.AuthConfig{
			JWTSecret: "ffffffffffffffffffffffffffffffff",
			TokenTTL:  60,
			Issuer:    "tender-api-test",
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, other, domain.RoleSales))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMiddlewareRoleChecks(t *testing.T) {
	tm := newTestTokenManager(t, 60)
	m := NewMiddleware(tm, zap.NewNop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(h http.Handler, role domain.UserRole) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req = req.WithContext(WithUserContext(req.Context(), &UserContext{
			UserID: uuid.New(),
			Email:  "user@example.com",
			Role:   role,
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	t.Run("RequireAdmin", func(t *testing.T) {
		h := m.RequireAdmin(next)
		assert.Equal(t, http.StatusOK, serve(h, domain.RoleAdmin).Code)
		assert.Equal(t, http.StatusForbidden, serve(h, domain.RoleSales).Code)
		assert.Equal(t, http.StatusForbidden, serve(h, domain.RoleFinance).Code)
	})

	t.Run("RequireRole accepts any listed role", func(t *testing.T) {
		h := m.RequireRole(domain.RoleAdmin, domain.RoleFinance)(next)
		assert.Equal(t, http.StatusOK, serve(h, domain.RoleFinance).Code)
		assert.Equal(t, http.StatusOK, serve(h, domain.RoleAdmin).Code)
		assert.Equal(t, http.StatusForbidden, serve(h, domain.RoleSales).Code)
	})

	t.Run("no user context is forbidden", func(t *testing.T) {
		h := m.RequireAdmin(next)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
