package service

import (
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

func newClientService(t *testing.T) (*ClientService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewClientService(
		repository.NewClientRepository(db),
		repository.NewContactRepository(db),
		repository.NewInteractionRepository(db),
		repository.NewTenderRepository(db),
		repository.NewHistoryRepository(db),
		nil,
		zap.NewNop(),
	)
	return svc, db
}

func clientTender(t *testing.T, db *gorm.DB, clientID uuid.UUID, status domain.TenderStatus) {
	t.Helper()
	tender := testutil.CreateTestTender(t, db, "Client tender "+uuid.NewString()[:8])
	require.NoError(t, db.Model(tender).Updates(map[string]interface{}{
		"client_id": clientID,
		"status":    status,
	}).Error)
}

func TestClientService_CRUD(t *testing.T) {
	svc, db := newClientService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)

	dto, err := svc.Create(ctx, &domain.CreateClientRequest{
		Name:     "Metro Rail Corporation",
		Industry: "Transport",
		City:     "Chennai",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusLead, dto.Status)

	t.Run("update", func(t *testing.T) {
		updated, err := svc.Update(ctx, dto.ID, &domain.UpdateClientRequest{
			Name:   "Metro Rail Corporation Ltd",
			Status: domain.ClientStatusActive,
		})
		require.NoError(t, err)
		assert.Equal(t, "Metro Rail Corporation Ltd", updated.Name)
		assert.Equal(t, domain.ClientStatusActive, updated.Status)
		assert.Equal(t, "Chennai", updated.City, "fields omitted from the update must keep their value")
		assert.Equal(t, "Transport", updated.Industry)
	})

	t.Run("list with filters", func(t *testing.T) {
		city := "Chennai"
		page, err := svc.List(ctx, 1, 20, &repository.ClientFilters{City: &city})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, dto.ID))
		_, err := svc.GetByID(ctx, dto.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClientService_Contacts(t *testing.T) {
	svc, db := newClientService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	client := testutil.CreateTestClient(t, db, "Contact client")

	first, err := svc.AddContact(ctx, client.ID, &domain.CreateContactRequest{
		Name:      "Priya Sharma",
		Email:     "priya@client.example",
		IsPrimary: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)

	t.Run("new primary demotes the old one", func(t *testing.T) {
		second, err := svc.AddContact(ctx, client.ID, &domain.CreateContactRequest{
			Name:      "Arjun Nair",
			IsPrimary: true,
		})
		require.NoError(t, err)
		assert.True(t, second.IsPrimary)

		clientDTO, err := svc.GetByID(ctx, client.ID)
		require.NoError(t, err)
		primaries := 0
		for _, c := range clientDTO.Contacts {
			if c.IsPrimary {
				primaries++
			}
		}
		assert.Equal(t, 1, primaries)
	})

	t.Run("contact of another client is not reachable", func(t *testing.T) {
		other := testutil.CreateTestClient(t, db, "Other client")
		err := svc.DeleteContact(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClientService_Interactions(t *testing.T) {
	svc, db := newClientService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	client := testutil.CreateTestClient(t, db, "Interaction client")

	_, err := svc.AddInteraction(ctx, client.ID, &domain.CreateInteractionRequest{
		Type:    domain.InteractionTypeMeeting,
		Summary: "Quarterly review meeting",
	})
	require.NoError(t, err)

	_, err = svc.AddInteraction(ctx, client.ID, &domain.CreateInteractionRequest{
		Type:    domain.InteractionType("fax"),
		Summary: "should fail",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	interactions, err := svc.GetInteractions(ctx, client.ID, 10)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, user.Name, interactions[0].UserName)
}

func TestClientService_Health(t *testing.T) {
	svc, db := newClientService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)

	t.Run("no closed tenders defaults to good", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Fresh client")
		clientTender(t, db, client.ID, domain.TenderStatusDrafting)

		health, err := svc.GetHealth(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ClientHealthGood, health.Health)
		assert.Zero(t, health.WinRate)
		assert.Equal(t, 1, health.Open)
	})

	t.Run("high win rate is excellent", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Star client")
		clientTender(t, db, client.ID, domain.TenderStatusWon)
		clientTender(t, db, client.ID, domain.TenderStatusWon)
		clientTender(t, db, client.ID, domain.TenderStatusWon)
		clientTender(t, db, client.ID, domain.TenderStatusLost)

		health, err := svc.GetHealth(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ClientHealthExcellent, health.Health)
		assert.InDelta(t, 75.0, health.WinRate, 0.01)
	})

	t.Run("low win rate is at risk", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Struggling client")
		clientTender(t, db, client.ID, domain.TenderStatusWon)
		clientTender(t, db, client.ID, domain.TenderStatusLost)
		clientTender(t, db, client.ID, domain.TenderStatusLost)

		health, err := svc.GetHealth(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ClientHealthAtRisk, health.Health)
	})

	t.Run("strategic summary without assistant", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "AI client")
		_, err := svc.GetStrategicSummary(ctx, client.ID)
		assert.ErrorIs(t, err, ErrAIDisabled)
	})
}
