package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShiftBounds(t *testing.T) {
	start, end := ShiftBounds([]Shift{
		{StartsAt: date(2025, 3, 3), EndsAt: date(2025, 3, 5), Kind: ShiftOffice},
		{StartsAt: date(2025, 3, 1), EndsAt: date(2025, 3, 2), Kind: ShiftRemote},
		{StartsAt: date(2025, 3, 4), EndsAt: date(2025, 3, 10), Kind: ShiftDefault},
	})
	require.Equal(t, date(2025, 3, 1), start)
	require.Equal(t, date(2025, 3, 10), end)
}

func TestDeriveBoundsFromShifts(t *testing.T) {
	// 请求里的一月范围与三月的班段不一致，创建时以班段为准
	janEnd := date(2025, 1, 31)
	a := &Assignment{
		StartsAt: date(2025, 1, 1),
		EndsAt:   &janEnd,
		Shifts: []Shift{
			{StartsAt: date(2025, 3, 5), EndsAt: date(2025, 3, 6), Kind: ShiftOffice},
		},
	}
	a.DeriveBoundsFromShifts()
	require.Equal(t, date(2025, 3, 5), a.StartsAt)
	require.NotNil(t, a.EndsAt)
	require.Equal(t, date(2025, 3, 6), *a.EndsAt)

	// 没有班段时保持原范围
	b := &Assignment{StartsAt: date(2025, 1, 1)}
	b.DeriveBoundsFromShifts()
	require.Equal(t, date(2025, 1, 1), b.StartsAt)
	require.Nil(t, b.EndsAt)
}

func TestCoversShifts(t *testing.T) {
	janEnd := date(2025, 1, 31)

	inside := &Assignment{
		StartsAt: date(2025, 1, 1),
		EndsAt:   &janEnd,
		Shifts: []Shift{
			{StartsAt: date(2025, 1, 10), EndsAt: date(2025, 1, 12), Kind: ShiftOffice},
		},
	}
	require.True(t, inside.CoversShifts())

	outside := &Assignment{
		StartsAt: date(2025, 1, 1),
		EndsAt:   &janEnd,
		Shifts: []Shift{
			{StartsAt: date(2025, 3, 5), EndsAt: date(2025, 3, 6), Kind: ShiftOffice},
		},
	}
	require.False(t, outside.CoversShifts())

	// 长期任职覆盖开始时间之后的所有班段
	openEnded := &Assignment{
		StartsAt: date(2025, 1, 1),
		Shifts: []Shift{
			{StartsAt: date(2025, 3, 5), EndsAt: date(2025, 3, 6), Kind: ShiftOffice},
		},
	}
	require.True(t, openEnded.CoversShifts())

	earlier := &Assignment{
		StartsAt: date(2025, 1, 1),
		Shifts: []Shift{
			{StartsAt: date(2024, 12, 30), EndsAt: date(2024, 12, 31), Kind: ShiftOffice},
		},
	}
	require.False(t, earlier.CoversShifts())

	empty := &Assignment{StartsAt: date(2025, 1, 1), EndsAt: &janEnd}
	require.True(t, empty.CoversShifts())
}

func TestWorkerCanBeScheduled(t *testing.T) {
	orgID := int64(1)

	ok := &Worker{Role: RoleWorker, IsActive: true, OrganizationID: &orgID}
	require.True(t, ok.CanBeScheduled())

	require.False(t, (&Worker{Role: RoleAdmin, IsActive: true, OrganizationID: &orgID}).CanBeScheduled())
	require.False(t, (&Worker{Role: RoleWorker, IsSystem: true, IsActive: true, OrganizationID: &orgID}).CanBeScheduled())
	require.False(t, (&Worker{Role: RoleWorker, OrganizationID: &orgID}).CanBeScheduled())
	require.False(t, (&Worker{Role: RoleWorker, IsActive: true}).CanBeScheduled())
}
