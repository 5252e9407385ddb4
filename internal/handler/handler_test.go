package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/planner"
)

func TestParsePlannerQueryDefaultsToByWorkers(t *testing.T) {
	query := url.Values{}
	query.Set("from", "2025-03-01T00:00:00Z")
	query.Set("to", "2025-03-31T00:00:00Z")

	mode, filter, err := parsePlannerQuery(query)
	require.NoError(t, err)
	require.Equal(t, planner.ModeByWorkers, mode)
	require.Nil(t, filter.WorkerID)
	require.Nil(t, filter.OrganizationID)
	require.Nil(t, filter.Status)
}

func TestParsePlannerQueryWithFilters(t *testing.T) {
	query := url.Values{}
	query.Set("mode", "byWorkplaces")
	query.Set("from", "2025-03-01T00:00:00Z")
	query.Set("to", "2025-03-31T00:00:00Z")
	query.Set("workerID", "7")
	query.Set("organizationID", "3")
	query.Set("status", "ACTIVE")

	mode, filter, err := parsePlannerQuery(query)
	require.NoError(t, err)
	require.Equal(t, planner.ModeByWorkplaces, mode)
	require.Equal(t, int64(7), *filter.WorkerID)
	require.Equal(t, int64(3), *filter.OrganizationID)
	require.Equal(t, domain.AssignmentActive, *filter.Status)
}

func TestParsePlannerQueryRejectsInvertedRange(t *testing.T) {
	query := url.Values{}
	query.Set("from", "2025-03-31T00:00:00Z")
	query.Set("to", "2025-03-01T00:00:00Z")

	_, _, err := parsePlannerQuery(query)
	require.Error(t, err)
}

func TestParsePlannerQueryRejectsUnknownMode(t *testing.T) {
	query := url.Values{}
	query.Set("mode", "byTeams")
	query.Set("from", "2025-03-01T00:00:00Z")
	query.Set("to", "2025-03-31T00:00:00Z")

	_, _, err := parsePlannerQuery(query)
	require.Error(t, err)
}

func TestParseShiftsRejectsInvertedShift(t *testing.T) {
	_, err := parseShifts([]shiftRequest{
		{
			StartsAt: time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
			Kind:     "OFFICE",
		},
	})
	require.Error(t, err)
}

func TestAssignabilityError(t *testing.T) {
	orgID := int64(1)

	require.NoError(t, assignabilityError(&domain.Worker{
		Role: domain.RoleWorker, IsActive: true, OrganizationID: &orgID,
	}))

	cases := []*domain.Worker{
		{Role: domain.RoleWorker, IsSystem: true, IsActive: true, OrganizationID: &orgID},
		{Role: domain.RoleAdmin, IsActive: true, OrganizationID: &orgID},
		{Role: domain.RoleWorker, OrganizationID: &orgID},
		{Role: domain.RoleWorker, IsActive: true},
	}
	for _, worker := range cases {
		err := assignabilityError(worker)
		require.Error(t, err)

		var domainErr *domain.Error
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, domain.ErrBadRequest, domainErr.Kind)
	}
}

// 已归档的排班活动的所有字段都不允许再被修改
func TestUpdatePlanRejectsArchivedPlan(t *testing.T) {
	h := &Handler{}

	plan := &domain.Plan{
		ID:       1,
		Name:     "三月排班",
		Status:   domain.PlanArchived,
		StartsAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	req := httptest.NewRequest("PATCH", "/plans/1", strings.NewReader(`{"name": "改名"}`))
	req = req.WithContext(context.WithValue(req.Context(), PlanCtx, plan))
	rec := httptest.NewRecorder()

	h.UpdatePlan(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.Equal(t, "三月排班", plan.Name)
}

func TestUpdateSlotRejectsLockedProtectedFields(t *testing.T) {
	h := &Handler{validate: validator.New()}

	plan := &domain.Plan{ID: 1, Name: "三月排班", Status: domain.PlanPublished}
	slot := &domain.Slot{ID: 3, PlanID: 1, Locked: true}

	req := httptest.NewRequest("PATCH", "/plans/1/slots/3",
		strings.NewReader(`{"dateStart": "2025-03-10T00:00:00Z"}`))
	ctx := context.WithValue(req.Context(), PlanCtx, plan)
	ctx = context.WithValue(ctx, SlotCtx, slot)
	rec := httptest.NewRecorder()

	h.UpdateSlot(rec, req.WithContext(ctx))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Success)
}

func TestDeleteSlotRejectsLockedSlot(t *testing.T) {
	h := &Handler{}

	plan := &domain.Plan{ID: 1, Name: "三月排班", Status: domain.PlanPublished}
	slot := &domain.Slot{ID: 3, PlanID: 1, Locked: true}

	req := httptest.NewRequest("DELETE", "/plans/1/slots/3", nil)
	ctx := context.WithValue(req.Context(), PlanCtx, plan)
	ctx = context.WithValue(ctx, SlotCtx, slot)
	rec := httptest.NewRecorder()

	h.DeleteSlot(rec, req.WithContext(ctx))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Success)
}

func TestEnsureRangeInPlan(t *testing.T) {
	plan := &domain.Plan{
		StartsAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, ensureRangeInPlan(plan,
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	))

	// 超出排班活动范围
	require.Error(t, ensureRangeInPlan(plan,
		time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	))

	// 日期倒置
	require.Error(t, ensureRangeInPlan(plan,
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	))
}
