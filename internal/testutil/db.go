package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tendersuite/tender-api/internal/domain"
)

// SetupTestDB opens an isolated in-memory sqlite database and migrates
// the full schema. Each call returns a fresh database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Client{},
		&domain.Contact{},
		&domain.Interaction{},
		&domain.OEM{},
		&domain.Product{},
		&domain.Tender{},
		&domain.TenderAssignment{},
		&domain.StageChecklistItem{},
		&domain.StandardChecklistItem{},
		&domain.TenderStageHistory{},
		&domain.PostAwardProgress{},
		&domain.FinancialRequest{},
		&domain.HistoryEntry{},
		&domain.Department{},
		&domain.Designation{},
		&domain.DocumentTemplate{},
		&domain.File{},
		&domain.Notification{},
		&domain.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

// CreateTestUser inserts a user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, name string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestClient inserts a client
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:   name,
		Status: domain.ClientStatusActive,
		City:   "Mumbai",
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestTender inserts a tender in its initial stage
func CreateTestTender(t *testing.T, db *gorm.DB, title string) *domain.Tender {
	t.Helper()
	deadline := time.Now().UTC().Add(14 * 24 * time.Hour)
	tender := &domain.Tender{
		Title:           title,
		ReferenceNumber: "REF-" + uuid.NewString()[:8],
		Authority:       "State Electricity Board",
		ItemCategory:    "networking",
		Value:           500000,
		Currency:        "INR",
		Status:          domain.TenderStatusDrafting,
		WorkflowStage:   domain.StageTenderIdentification,
		Deadline:        &deadline,
		Version:         1,
	}
	require.NoError(t, db.Create(tender).Error)
	return tender
}
