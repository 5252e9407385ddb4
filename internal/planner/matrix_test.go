package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func record(id, workerID, workplaceID int64, workerName, workplaceName string, from time.Time) *domain.AssignmentRecord {
	return &domain.AssignmentRecord{
		Assignment: domain.Assignment{
			ID:       id,
			WorkerID: workerID,
			Status:   domain.AssignmentActive,
			StartsAt: from,
		},
		WorkerName:    workerName,
		WorkplaceName: workplaceName,
	}
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildByWorkersGroupsAndSortsSlots(t *testing.T) {
	records := []*domain.AssignmentRecord{
		record(1, 100, 1, "张伟", "前台", day(10)),
		record(2, 100, 1, "张伟", "前台", day(2)),
		record(3, 101, 1, "李娜", "前台", day(5)),
	}

	m := Build(ModeByWorkers, records, nil, 1, 20)
	require.Equal(t, 2, m.TotalRows)

	for _, row := range m.Rows {
		if row.Key == 100 {
			require.Len(t, row.Slots, 2)
			// 格子按开始时间升序
			require.True(t, row.Slots[0].From.Before(row.Slots[1].From))
		}
	}
}

func TestBuildByWorkplacesIncludesEmptyRows(t *testing.T) {
	workplaces := []*domain.Workplace{
		{ID: 1, Name: "前台", Code: "FD"},
		{ID: 2, Name: "仓库", Code: "WH"},
	}
	records := []*domain.AssignmentRecord{}
	rec := record(1, 100, 1, "张伟", "前台", day(2))
	rec.WorkplaceID = 1
	records = append(records, rec)

	m := Build(ModeByWorkplaces, records, workplaces, 1, 20)
	require.Equal(t, 2, m.TotalRows)

	seen := map[int64]int{}
	for _, row := range m.Rows {
		seen[row.Key]++
	}
	// 没有记录的工作场所也必须出现，而且只出现一次
	require.Equal(t, 1, seen[1])
	require.Equal(t, 1, seen[2])
}

func TestBuildSortsTitlesNumerically(t *testing.T) {
	workplaces := []*domain.Workplace{
		{ID: 1, Name: "10号门店"},
		{ID: 2, Name: "2号门店"},
		{ID: 3, Name: "1号门店"},
	}

	m := Build(ModeByWorkplaces, nil, workplaces, 1, 20)
	require.Equal(t, []string{"1号门店", "2号门店", "10号门店"},
		[]string{m.Rows[0].Title, m.Rows[1].Title, m.Rows[2].Title})
}

func TestBuildPaginatesRowsNotSlots(t *testing.T) {
	records := []*domain.AssignmentRecord{
		record(1, 100, 1, "张伟", "前台", day(1)),
		record(2, 100, 1, "张伟", "前台", day(2)),
		record(3, 100, 1, "张伟", "前台", day(3)),
		record(4, 101, 1, "李娜", "前台", day(1)),
		record(5, 102, 1, "王芳", "前台", day(1)),
	}

	m := Build(ModeByWorkers, records, nil, 1, 2)
	require.Equal(t, 3, m.TotalRows)
	require.Len(t, m.Rows, 2)
	// 一行的格子列表不会被分页拆开
	for _, row := range m.Rows {
		if row.Key == 100 {
			require.Len(t, row.Slots, 3)
		}
	}

	m2 := Build(ModeByWorkers, records, nil, 2, 2)
	require.Len(t, m2.Rows, 1)

	m3 := Build(ModeByWorkers, records, nil, 5, 2)
	require.Empty(t, m3.Rows)
}
