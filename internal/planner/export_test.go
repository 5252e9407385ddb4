package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func TestBuildWorkbookDayColumns(t *testing.T) {
	shiftStart := time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC) // 东八区 09:00
	shiftEnd := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)  // 东八区 18:00

	rec := record(1, 100, 1, "张伟", "前台", day(3))
	rec.Shifts = []domain.Shift{
		{ID: 1, StartsAt: shiftStart, EndsAt: shiftEnd, Kind: domain.ShiftOffice},
	}

	f, err := BuildWorkbook(ModeByWorkers, day(3), day(5), []*domain.AssignmentRecord{rec}, nil)
	require.NoError(t, err)

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	require.Equal(t, "2025-03-03", header)

	header, err = f.GetCellValue(sheet, "D1")
	require.NoError(t, err)
	require.Equal(t, "2025-03-05", header)

	title, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "张伟", title)

	cell, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	require.Equal(t, "09:00–18:00（办公室）", cell)

	// 没有班段的日子单元格为空
	empty, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	require.Empty(t, empty)
}
