package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newAuditService(t *testing.T) (*AuditService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), zap.NewNop())
	return svc, db
}

func TestAuditService_Log(t *testing.T) {
	svc, db := newAuditService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleAdmin)

	t.Run("attributes the entry to the authenticated user", func(t *testing.T) {
		tender := testutil.CreateTestTender(t, db, "Audit target")
		id := tender.ID
		err := svc.Log(salesContext(user), LogEntry{
			Action:     domain.AuditActionUpdate,
			EntityType: "Tender",
			EntityID:   &id,
			Method:     "PUT",
			Path:       "/api/v1/tenders/" + id.String(),
			StatusCode: 200,
			IPAddress:  "10.0.0.5",
			RequestID:  "req-1",
		})
		require.NoError(t, err)

		var stored domain.AuditLog
		require.NoError(t, db.First(&stored).Error)
		assert.Equal(t, user.ID.String(), stored.UserID)
		assert.Equal(t, user.Email, stored.UserEmail)
		assert.Equal(t, domain.AuditActionUpdate, stored.Action)
		assert.Equal(t, 200, stored.StatusCode)
		assert.WithinDuration(t, time.Now().UTC(), stored.PerformedAt, time.Minute)
	})

	t.Run("anonymous entries keep an empty actor", func(t *testing.T) {
		err := svc.Log(context.Background(), LogEntry{
			Action:     domain.AuditActionLogin,
			EntityType: "User",
			Method:     "POST",
			Path:       "/api/v1/auth/login",
			StatusCode: 401,
		})
		require.NoError(t, err)

		var stored domain.AuditLog
		require.NoError(t, db.Where("action = ?", domain.AuditActionLogin).First(&stored).Error)
		assert.Empty(t, stored.UserID)
	})
}

func TestAuditService_List(t *testing.T) {
	svc, db := newAuditService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleAdmin)
	ctx := salesContext(user)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Log(ctx, LogEntry{
			Action:     domain.AuditActionCreate,
			EntityType: "Tender",
			Method:     "POST",
			Path:       "/api/v1/tenders",
			StatusCode: 201,
		}))
	}
	require.NoError(t, svc.Log(ctx, LogEntry{
		Action:     domain.AuditActionExport,
		EntityType: "Report",
		Method:     "GET",
		Path:       "/api/v1/reports/export",
		StatusCode: 200,
	}))

	t.Run("paginates", func(t *testing.T) {
		resp, err := svc.List(ctx, 1, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Total)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Len(t, resp.Data.([]domain.AuditLogDTO), 2)
	})

	t.Run("filters by action", func(t *testing.T) {
		action := domain.AuditActionExport
		resp, err := svc.List(ctx, 1, 50, &repository.AuditLogFilters{Action: &action})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("get by id", func(t *testing.T) {
		var stored domain.AuditLog
		require.NoError(t, db.Where("action = ?", domain.AuditActionExport).First(&stored).Error)

		dto, err := svc.GetByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AuditActionExport, dto.Action)

		_, err = svc.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("clamps page inputs", func(t *testing.T) {
		resp, err := svc.List(ctx, 0, 0, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 50, resp.PageSize)
	})
}

func TestAuditService_Purge(t *testing.T) {
	svc, db := newAuditService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleAdmin)
	ctx := salesContext(user)

	require.NoError(t, svc.Log(ctx, LogEntry{
		Action:     domain.AuditActionDelete,
		EntityType: "Tender",
		Method:     "DELETE",
		Path:       "/api/v1/tenders/x",
		StatusCode: 204,
	}))

	old := &domain.AuditLog{
		Action:      domain.AuditActionCreate,
		EntityType:  "Tender",
		Method:      "POST",
		Path:        "/api/v1/tenders",
		StatusCode:  201,
		PerformedAt: time.Now().UTC().Add(-120 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(old).Error)

	deleted, err := svc.Purge(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, db.Model(&domain.AuditLog{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
