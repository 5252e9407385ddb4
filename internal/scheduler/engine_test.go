package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestConstraintEngineHardConflict(t *testing.T) {
	existing := []RangeSlot{
		{WorkerID: 1, DateStart: day(3), DateEnd: day(5)},
	}

	// 即使关闭了约束检查，时间冲突检查也始终生效
	e := NewConstraintEngine(nil, existing, false)
	require.False(t, e.IsEligible(1, 10, day(4), day(6)))
	require.True(t, e.IsEligible(1, 10, day(6), day(8)))
	require.True(t, e.IsEligible(2, 10, day(4), day(6)))
}

func TestConstraintEngineAccumulateAffectsLaterChecks(t *testing.T) {
	e := NewConstraintEngine(nil, nil, true)
	require.True(t, e.IsEligible(1, 10, day(1), day(2)))

	e.Accumulate(1, day(1), day(2))
	require.False(t, e.IsEligible(1, 10, day(2), day(3)))
}

func TestConstraintEngineOrgBlacklist(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			WorkerID: int64Ptr(1),
			Type:     domain.ConstraintOrgBlacklist,
			Payload:  domain.ConstraintPayload{OrgIDs: []int64{10, 11}},
		},
	}

	e := NewConstraintEngine(constraints, nil, true)
	require.False(t, e.IsEligible(1, 10, day(1), day(2)))
	require.True(t, e.IsEligible(1, 12, day(1), day(2)))
	// 规则只作用于员工 1
	require.True(t, e.IsEligible(2, 10, day(1), day(2)))
}

func TestConstraintEngineAvailability(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			WorkerID: int64Ptr(1),
			Type:     domain.ConstraintAvailability,
			Payload: domain.ConstraintPayload{
				Unavailable: []domain.UnavailableRange{
					{From: timePtr(day(5)), To: timePtr(day(10))},
					{From: timePtr(day(20)), To: nil}, // 缺少一端的时间段应该被跳过
				},
			},
		},
	}

	e := NewConstraintEngine(constraints, nil, true)
	require.False(t, e.IsEligible(1, 10, day(8), day(12)))
	require.True(t, e.IsEligible(1, 10, day(11), day(14)))
	require.True(t, e.IsEligible(1, 10, day(21), day(22)))
}

func TestConstraintEngineMaxSlotsPerWeek(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			WorkerID: int64Ptr(1),
			Type:     domain.ConstraintMaxSlotsPerWeek,
			Payload:  domain.ConstraintPayload{Limit: 1},
		},
	}

	// 2025-03-03（周一）和 2025-03-07（周五）属于同一个 ISO 周
	e := NewConstraintEngine(constraints, nil, true)
	require.True(t, e.IsEligible(1, 10, day(3), day(4)))

	e.Accumulate(1, day(3), day(4))
	require.False(t, e.IsEligible(1, 10, day(7), day(8)))
	// 下一个 ISO 周不受影响
	require.True(t, e.IsEligible(1, 10, day(10), day(11)))
}

func TestConstraintEngineDisabledSkipsConstraints(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			WorkerID: int64Ptr(1),
			Type:     domain.ConstraintOrgBlacklist,
			Payload:  domain.ConstraintPayload{OrgIDs: []int64{10}},
		},
	}

	e := NewConstraintEngine(constraints, nil, false)
	require.True(t, e.IsEligible(1, 10, day(1), day(2)))
}

func TestConstraintEngineOrgScopedConstraint(t *testing.T) {
	constraints := []*domain.Constraint{
		{
			OrganizationID: int64Ptr(10),
			Type:           domain.ConstraintMaxSlotsPerWeek,
			Payload:        domain.ConstraintPayload{Limit: 1},
		},
	}

	e := NewConstraintEngine(constraints, nil, true)
	e.Accumulate(3, day(3), day(4))
	// 组织级规则作用于该组织下的所有员工
	require.False(t, e.IsEligible(3, 10, day(6), day(7)))
	// 其他组织不受影响
	require.True(t, e.IsEligible(3, 11, day(6), day(7)))
}
