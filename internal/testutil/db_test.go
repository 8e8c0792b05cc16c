package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendersuite/tender-api/internal/domain"
)

// The schema must migrate cleanly on sqlite: models carry no
// database-side defaults (like gen_random_uuid) that sqlite cannot
// parse, and IDs come from the BeforeCreate hooks instead.
func TestSetupTestDBMigratesAndAssignsIDs(t *testing.T) {
	db := SetupTestDB(t)

	user := CreateTestUser(t, db, "Vikram Mehta", domain.RoleSales)
	assert.NotEqual(t, uuid.Nil, user.ID)

	tender := CreateTestTender(t, db, "Substation automation")
	assert.NotEqual(t, uuid.Nil, tender.ID)

	entry := &domain.HistoryEntry{
		TargetType: domain.HistoryTargetTender,
		TargetID:   tender.ID,
		Action:     domain.HistoryActionStatusChanged,
	}
	require.NoError(t, db.Create(entry).Error)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}
