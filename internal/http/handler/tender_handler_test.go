package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/tendersuite/tender-api/internal/http/handler"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/service"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func createTenderHandler(t *testing.T, db *gorm.DB) *handler.TenderHandler {
	t.Helper()
	logger := zap.NewNop()
	svc := service.NewTenderService(
		repository.NewTenderRepository(db),
		repository.NewStageHistoryRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewChecklistRepository(db),
		repository.NewPostAwardRepository(db),
		repository.NewHistoryRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewClientRepository(db),
		logger,
	)
	return handler.NewTenderHandler(svc, logger)
}

func authedContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		Role:        user.Role,
	})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTenderHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := authedContext(user)

	testutil.CreateTestTender(t, db, "Fiber rollout phase 2")
	testutil.CreateTestTender(t, db, "CCTV for metro stations")
	won := testutil.CreateTestTender(t, db, "Data center fit-out")
	require.NoError(t, db.Model(&domain.Tender{}).Where("id = ?", won.ID).
		Update("status", domain.TenderStatusWon).Error)

	t.Run("lists all tenders paginated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenders", nil).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, int64(3), result.Total)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.PageSize)
	})

	t.Run("filters by status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenders?status=won", nil).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, int64(1), result.Total)
	})

	t.Run("searches title and reference", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenders?q=metro", nil).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, int64(1), result.Total)
	})
}

func TestTenderHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := authedContext(user)

	t.Run("creates a tender and sets Location", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateTenderRequest{
			Title:           "District hospital LAN",
			ReferenceNumber: "NIT-2026-118",
			Value:           900000,
		})
		req := httptest.NewRequest(http.MethodPost, "/tenders", bytes.NewReader(body)).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Header().Get("Location"), "/api/v1/tenders/")

		var dto domain.TenderDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, domain.TenderStatusDrafting, dto.Status)
		assert.Equal(t, 1, dto.Version)
	})

	t.Run("missing required fields return field errors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tenders",
			bytes.NewReader([]byte(`{"value": 100}`))).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "title")
		assert.Contains(t, apiErr.Errors, "referenceNumber")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tenders",
			bytes.NewReader([]byte(`{not json`))).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate reference number conflicts", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateTenderRequest{
			Title:           "Duplicate",
			ReferenceNumber: "NIT-2026-118",
		})
		req := httptest.NewRequest(http.MethodPost, "/tenders", bytes.NewReader(body)).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestTenderHandler_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := authedContext(user)
	tender := testutil.CreateTestTender(t, db, "Airport Wi-Fi")

	t.Run("returns the tender", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenders/"+tender.ID.String(), nil).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.TenderDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, tender.ID, dto.ID)
		assert.Equal(t, "Airport Wi-Fi", dto.Title)
	})

	t.Run("invalid uuid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenders/not-a-uuid", nil).WithContext(ctx)
		req = withURLParam(req, "id", "not-a-uuid")
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown tender", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/tenders/"+id, nil).WithContext(ctx)
		req = withURLParam(req, "id", id)
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTenderHandler_StageTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := authedContext(user)
	tender := testutil.CreateTestTender(t, db, "Substation SCADA")

	t.Run("advances a stage", func(t *testing.T) {
		body, _ := json.Marshal(domain.StageTransitionRequest{Version: 1})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/advance",
			bytes.NewReader(body)).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.AdvanceStage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.TenderDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, domain.StageTenderReview, dto.WorkflowStage)
		assert.Equal(t, 2, dto.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		body, _ := json.Marshal(domain.StageTransitionRequest{Version: 1})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/advance",
			bytes.NewReader(body)).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.AdvanceStage(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("revert clamps at the first stage", func(t *testing.T) {
		body, _ := json.Marshal(domain.StageTransitionRequest{Version: 2})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/revert",
			bytes.NewReader(body)).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.RevertStage(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		body, _ = json.Marshal(domain.StageTransitionRequest{Version: 3})
		req = httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/revert",
			bytes.NewReader(body)).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr = httptest.NewRecorder()
		h.RevertStage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var dto domain.TenderDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, domain.StageTenderIdentification, dto.WorkflowStage)
		assert.Equal(t, 3, dto.Version)
	})
}

func TestTenderHandler_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := authedContext(user)
	tender := testutil.CreateTestTender(t, db, "Smart meter rollout")

	t.Run("lost without reason is unprocessable", func(t *testing.T) {
		body, _ := json.Marshal(domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatusLost,
			Version: 1,
		})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/status",
			bytes.NewReader(body)).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("winning initializes the post-award tracker", func(t *testing.T) {
		body, _ := json.Marshal(domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatusWon,
			Version: 1,
		})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/status",
			bytes.NewReader(body)).WithContext(ctx)
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var count int64
		require.NoError(t, db.Model(&domain.PostAwardProgress{}).
			Where("tender_id = ?", tender.ID).Count(&count).Error)
		assert.Equal(t, int64(len(domain.PostAwardStages)), count)
	})
}

func TestTenderHandler_Assignees(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	owner := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	assignee := testutil.CreateTestUser(t, db, "Vikram Shah", domain.RoleSales)
	tender := testutil.CreateTestTender(t, db, "Toll plaza ANPR")

	t.Run("sets assignees", func(t *testing.T) {
		body, _ := json.Marshal(domain.SetAssigneesRequest{UserIDs: []uuid.UUID{assignee.ID}})
		req := httptest.NewRequest(http.MethodPut, "/tenders/"+tender.ID.String()+"/assignees",
			bytes.NewReader(body)).WithContext(authedContext(owner))
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.SetAssignees(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.TenderDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		require.Len(t, dto.Assignments, 1)
		assert.Equal(t, domain.AssignmentStatusPending, dto.Assignments[0].Status)
	})

	t.Run("empty user list fails validation", func(t *testing.T) {
		body, _ := json.Marshal(domain.SetAssigneesRequest{UserIDs: []uuid.UUID{}})
		req := httptest.NewRequest(http.MethodPut, "/tenders/"+tender.ID.String()+"/assignees",
			bytes.NewReader(body)).WithContext(authedContext(owner))
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.SetAssignees(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("assignee accepts once", func(t *testing.T) {
		body, _ := json.Marshal(domain.AssignmentResponseRequest{Status: domain.AssignmentStatusAccepted})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/assignment-response",
			bytes.NewReader(body)).WithContext(authedContext(assignee))
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.RespondToAssignment(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		body, _ = json.Marshal(domain.AssignmentResponseRequest{Status: domain.AssignmentStatusDeclined})
		req = httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/assignment-response",
			bytes.NewReader(body)).WithContext(authedContext(assignee))
		req = withURLParam(req, "id", tender.ID.String())
		rr = httptest.NewRecorder()
		h.RespondToAssignment(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("non-assignee is forbidden", func(t *testing.T) {
		body, _ := json.Marshal(domain.AssignmentResponseRequest{Status: domain.AssignmentStatusAccepted})
		req := httptest.NewRequest(http.MethodPost, "/tenders/"+tender.ID.String()+"/assignment-response",
			bytes.NewReader(body)).WithContext(authedContext(owner))
		req = withURLParam(req, "id", tender.ID.String())
		rr := httptest.NewRecorder()
		h.RespondToAssignment(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTenderHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createTenderHandler(t, db)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleAdmin)
	ctx := authedContext(user)
	tender := testutil.CreateTestTender(t, db, "Decommissioned bid")

	req := httptest.NewRequest(http.MethodDelete, "/tenders/"+tender.ID.String(), nil).WithContext(ctx)
	req = withURLParam(req, "id", tender.ID.String())
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/tenders/"+tender.ID.String(), nil).WithContext(ctx)
	req = withURLParam(req, "id", tender.ID.String())
	rr = httptest.NewRecorder()
	h.Delete(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
