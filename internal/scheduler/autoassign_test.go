package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func makeWorkers(ids ...int64) []*domain.Worker {
	workers := make([]*domain.Worker, 0, len(ids))
	for _, id := range ids {
		workers = append(workers, &domain.Worker{ID: id, Role: domain.RoleWorker, IsActive: true})
	}
	return workers
}

func TestAutoAssignerPicksExactTeamSize(t *testing.T) {
	a := NewAutoAssigner(makeWorkers(1, 2, 3, 4, 5), nil, nil, true)

	slots, err := a.Run(&Request{
		PlanID:         7,
		OrganizationID: 10,
		DateStart:      day(3),
		DateEnd:        day(5),
		TeamSize:       3,
		ColorCode:      "HQ",
	})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	seen := make(map[int64]bool)
	for _, s := range slots {
		require.Equal(t, domain.SlotPlanned, s.Status)
		require.Equal(t, int64(7), s.PlanID)
		require.Equal(t, "HQ", s.ColorCode)
		require.False(t, seen[s.WorkerID], "同一个员工不应该在一次生成中被选中两次")
		seen[s.WorkerID] = true
	}
}

func TestAutoAssignerOrderingIsDeterministic(t *testing.T) {
	// 员工 2 在范围内已有一条记录，其余员工负载相同，应该按 ID 升序被选中
	existing := []RangeSlot{
		{WorkerID: 2, DateStart: day(20), DateEnd: day(21)},
	}

	for i := 0; i < 5; i++ {
		a := NewAutoAssigner(makeWorkers(3, 1, 2, 4), existing, nil, true)
		slots, err := a.Run(&Request{
			OrganizationID: 10,
			DateStart:      day(3),
			DateEnd:        day(5),
			TeamSize:       3,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), slots[0].WorkerID)
		require.Equal(t, int64(3), slots[1].WorkerID)
		require.Equal(t, int64(4), slots[2].WorkerID)
	}
}

func TestAutoAssignerFailsWhenPoolTooSmall(t *testing.T) {
	a := NewAutoAssigner(makeWorkers(1, 2, 3), nil, nil, true)

	slots, err := a.Run(&Request{
		OrganizationID: 10,
		DateStart:      day(3),
		DateEnd:        day(5),
		TeamSize:       5,
	})
	require.Nil(t, slots)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, domain.ErrBadRequest, domainErr.Kind)
}

func TestAutoAssignerRespectsWeeklyCapAcrossRuns(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			WorkerID: int64Ptr(1),
			Type:     domain.ConstraintMaxSlotsPerWeek,
			Payload:  domain.ConstraintPayload{Limit: 1},
		},
	}

	// 两次生成落在同一个 ISO 周的不同日期上，员工 1 即使负载最低也最多被选中一次
	a := NewAutoAssigner(makeWorkers(1, 2, 3), nil, constraints, true)

	first, err := a.Run(&Request{OrganizationID: 10, DateStart: day(3), DateEnd: day(3), TeamSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), first[0].WorkerID)

	second, err := a.Run(&Request{OrganizationID: 10, DateStart: day(7), DateEnd: day(7), TeamSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), second[0].WorkerID)
}

func TestAutoAssignerSkipsBlacklistedWorkers(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			WorkerID: int64Ptr(1),
			Type:     domain.ConstraintOrgBlacklist,
			Payload:  domain.ConstraintPayload{OrgIDs: []int64{10}},
		},
	}

	a := NewAutoAssigner(makeWorkers(1, 2), nil, constraints, true)
	slots, err := a.Run(&Request{OrganizationID: 10, DateStart: day(3), DateEnd: day(5), TeamSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), slots[0].WorkerID)
}
