package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/http/handler"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func createFinanceHandler(t *testing.T, db *gorm.DB) *handler.FinanceHandler {
	t.Helper()
	logger := zap.NewNop()
	svc := service.NewFinanceService(
		repository.NewFinancialRequestRepository(db),
		repository.NewTenderRepository(db),
		repository.NewHistoryRepository(db),
		repository.NewNotificationRepository(db),
		logger,
	)
	return handler.NewFinanceHandler(svc, logger)
}

func createFinanceRequest(t *testing.T, h *handler.FinanceHandler, user *domain.User, tender *domain.Tender) domain.FinancialRequestDTO {
	t.Helper()
	body, _ := json.Marshal(domain.CreateFinancialRequest{
		TenderID: tender.ID,
		Type:     domain.FinancialTypeEMD,
		Amount:   50000,
	})
	req := httptest.NewRequest(http.MethodPost, "/finance/requests",
		bytes.NewReader(body)).WithContext(authedContext(user))
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var dto domain.FinancialRequestDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	return dto
}

func TestFinanceHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createFinanceHandler(t, db)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	tender := testutil.CreateTestTender(t, db, "Railway signalling")

	t.Run("creates a pending request", func(t *testing.T) {
		dto := createFinanceRequest(t, h, sales, tender)
		assert.Equal(t, domain.FinancialStatusPendingApproval, dto.Status)
		assert.Equal(t, tender.Title, dto.TenderTitle)
	})

	t.Run("zero amount fails validation", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateFinancialRequest{
			TenderID: tender.ID,
			Type:     domain.FinancialTypeEMD,
		})
		req := httptest.NewRequest(http.MethodPost, "/finance/requests",
			bytes.NewReader(body)).WithContext(authedContext(sales))
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "amount")
	})
}

func TestFinanceHandler_ApprovalFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createFinanceHandler(t, db)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	admin := testutil.CreateTestUser(t, db, "Meera Iyer", domain.RoleAdmin)
	finance := testutil.CreateTestUser(t, db, "Vikram Shah", domain.RoleFinance)
	tender := testutil.CreateTestTender(t, db, "Port crane telemetry")
	dto := createFinanceRequest(t, h, sales, tender)

	t.Run("sales cannot approve", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/approve",
			nil).WithContext(authedContext(sales))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Approve(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("process before approval is unprocessable", func(t *testing.T) {
		body, _ := json.Marshal(domain.ProcessFinancialRequest{
			InstrumentMode: domain.InstrumentModeDemandDraft,
		})
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/process",
			bytes.NewReader(body)).WithContext(authedContext(finance))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Process(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("admin approves", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/approve",
			nil).WithContext(authedContext(admin))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Approve(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var approved domain.FinancialRequestDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &approved))
		assert.Equal(t, domain.FinancialStatusApproved, approved.Status)
		assert.NotNil(t, approved.ApprovedAt)
	})

	t.Run("finance processes with instrument details", func(t *testing.T) {
		body, _ := json.Marshal(domain.ProcessFinancialRequest{
			InstrumentMode: domain.InstrumentModeDemandDraft,
			BankName:       "State Bank",
			InstrumentRef:  "DD-102233",
		})
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/process",
			bytes.NewReader(body)).WithContext(authedContext(finance))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Process(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var processed domain.FinancialRequestDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &processed))
		assert.Equal(t, domain.FinancialStatusProcessed, processed.Status)
	})

	t.Run("release rejects an EMD", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/release",
			nil).WithContext(authedContext(finance))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Release(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("refund closes the EMD", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/refund",
			nil).WithContext(authedContext(finance))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Refund(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var refunded domain.FinancialRequestDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refunded))
		assert.Equal(t, domain.FinancialStatusRefunded, refunded.Status)
		assert.NotNil(t, refunded.ClosedAt)
	})
}

func TestFinanceHandler_Decline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createFinanceHandler(t, db)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	admin := testutil.CreateTestUser(t, db, "Meera Iyer", domain.RoleAdmin)
	tender := testutil.CreateTestTender(t, db, "Bus depot CCTV")
	dto := createFinanceRequest(t, h, sales, tender)

	t.Run("decline requires a reason", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/decline",
			bytes.NewReader([]byte(`{}`))).WithContext(authedContext(admin))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Decline(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("admin declines with a reason", func(t *testing.T) {
		body, _ := json.Marshal(domain.DeclineFinancialRequest{Reason: "Budget not sanctioned"})
		req := httptest.NewRequest(http.MethodPost, "/finance/requests/"+dto.ID.String()+"/decline",
			bytes.NewReader(body)).WithContext(authedContext(admin))
		req = withURLParam(req, "id", dto.ID.String())
		rr := httptest.NewRecorder()
		h.Decline(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var declined domain.FinancialRequestDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &declined))
		assert.Equal(t, domain.FinancialStatusDeclined, declined.Status)
	})
}

func TestFinanceHandler_GetByTender(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createFinanceHandler(t, db)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	tender := testutil.CreateTestTender(t, db, "Highway lighting")
	createFinanceRequest(t, h, sales, tender)
	createFinanceRequest(t, h, sales, tender)

	req := httptest.NewRequest(http.MethodGet, "/tenders/"+tender.ID.String()+"/finance",
		nil).WithContext(authedContext(sales))
	req = withURLParam(req, "id", tender.ID.String())
	rr := httptest.NewRecorder()
	h.GetByTender(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var requests []domain.FinancialRequestDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &requests))
	assert.Len(t, requests, 2)
}
