package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/http/middleware"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newAuditMiddleware(t *testing.T) (*middleware.AuditMiddleware, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewAuditService(repository.NewAuditLogRepository(db), zap.NewNop())
	return middleware.NewAuditMiddleware(svc, nil, zap.NewNop()), db
}

func auditedContext(db *gorm.DB, t *testing.T) context.Context {
	t.Helper()
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		Role:        user.Role,
	})
}

func countAuditEntries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.AuditLog{}).Count(&count).Error)
	return count
}

func TestAuditMiddleware(t *testing.T) {
	m, db := newAuditMiddleware(t)
	ctx := auditedContext(db, t)

	serve := func(method, path string, status int, rctx *chi.Context) {
		handler := m.Audit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		req := httptest.NewRequest(method, path, nil).WithContext(ctx)
		if rctx != nil {
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}

	t.Run("successful mutation is recorded with the actor", func(t *testing.T) {
		serve(http.MethodPost, "/api/v1/tenders", http.StatusCreated, nil)

		var entry domain.AuditLog
		require.NoError(t, db.First(&entry).Error)
		assert.Equal(t, domain.AuditActionCreate, entry.Action)
		assert.Equal(t, http.StatusCreated, entry.StatusCode)
		assert.NotEmpty(t, entry.UserID)
		// httptest requests carry RemoteAddr "192.0.2.1:1234"; the port
		// must be stripped before recording.
		assert.Equal(t, "192.0.2.1", entry.IPAddress)
	})

	t.Run("entity id is taken from the route context", func(t *testing.T) {
		id := uuid.New()
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id.String())
		serve(http.MethodDelete, "/api/v1/tenders/"+id.String(), http.StatusNoContent, rctx)

		var entry domain.AuditLog
		require.NoError(t, db.Where("action = ?", domain.AuditActionDelete).First(&entry).Error)
		require.NotNil(t, entry.EntityID)
		assert.Equal(t, id, *entry.EntityID)
	})

	t.Run("failed mutations are not recorded", func(t *testing.T) {
		before := countAuditEntries(t, db)
		serve(http.MethodPost, "/api/v1/tenders", http.StatusUnprocessableEntity, nil)
		assert.Equal(t, before, countAuditEntries(t, db))
	})

	t.Run("reads are skipped by default", func(t *testing.T) {
		before := countAuditEntries(t, db)
		serve(http.MethodGet, "/api/v1/tenders", http.StatusOK, nil)
		assert.Equal(t, before, countAuditEntries(t, db))
	})

	t.Run("health endpoints are skipped", func(t *testing.T) {
		before := countAuditEntries(t, db)
		serve(http.MethodPost, "/health/db", http.StatusOK, nil)
		assert.Equal(t, before, countAuditEntries(t, db))
	})
}
