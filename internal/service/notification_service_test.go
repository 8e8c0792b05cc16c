package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newNotificationService(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), zap.NewNop())
	return svc, db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, read bool) *domain.Notification {
	t.Helper()
	n := &domain.Notification{
		UserID:  userID,
		Type:    string(domain.NotificationTypeDeadline),
		Title:   title,
		Message: "Deadline is approaching",
		Read:    read,
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestNotificationService_List(t *testing.T) {
	svc, db := newNotificationService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	other := testutil.CreateTestUser(t, db, "Vikram Shah", domain.RoleSales)
	seedNotification(t, db, user.ID, "First", false)
	seedNotification(t, db, user.ID, "Second", true)
	seedNotification(t, db, other.ID, "Not yours", false)

	ctx := salesContext(user)

	t.Run("returns only the caller's notifications", func(t *testing.T) {
		list, err := svc.List(ctx, false, 50)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("unread filter", func(t *testing.T) {
		list, err := svc.List(ctx, true, 50)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "First", list[0].Title)
	})

	t.Run("out of range limit falls back to default", func(t *testing.T) {
		list, err := svc.List(ctx, false, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("requires an authenticated context", func(t *testing.T) {
		_, err := svc.List(context.Background(), false, 50)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, db := newNotificationService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	other := testutil.CreateTestUser(t, db, "Vikram Shah", domain.RoleSales)
	first := seedNotification(t, db, user.ID, "First", false)
	seedNotification(t, db, user.ID, "Second", false)
	foreign := seedNotification(t, db, other.ID, "Not yours", false)

	ctx := salesContext(user)

	count, err := svc.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("marks one read and stamps ReadAt", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(ctx, first.ID))

		var stored domain.Notification
		require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
		assert.True(t, stored.Read)
		assert.NotNil(t, stored.ReadAt)

		count, err := svc.CountUnread(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("cannot mark another user's notification", func(t *testing.T) {
		err := svc.MarkRead(ctx, foreign.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("mark all read clears the badge", func(t *testing.T) {
		require.NoError(t, svc.MarkAllRead(ctx))

		count, err := svc.CountUnread(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		// the other user's notification is untouched
		otherCount, err := svc.CountUnread(salesContext(other))
		require.NoError(t, err)
		assert.Equal(t, int64(1), otherCount)
	})
}
