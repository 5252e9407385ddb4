package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// 导出时按固定的东八区做按天分桶
var exportLocation = time.FixedZone("CST", 8*60*60)

var shiftKindLabels = map[domain.ShiftKind]string{
	domain.ShiftDefault: "默认",
	domain.ShiftOffice:  "办公室",
	domain.ShiftRemote:  "远程",
	domain.ShiftDayOff:  "休息",
}

func shiftKindLabel(kind domain.ShiftKind) string {
	if label, exists := shiftKindLabels[kind]; exists {
		return label
	}
	return string(kind)
}

func dayKey(t time.Time) string {
	return t.In(exportLocation).Format("2006-01-02")
}

// BuildWorkbook 将排班矩阵渲染成表格：第一列是行标题，之后每个自然日占一列，
// 单元格内容是该天所有班段的 "开始–结束（类型）" 文本，多条用换行拼接
func BuildWorkbook(mode Mode, dateStart, dateEnd time.Time, records []*domain.AssignmentRecord, workplaces []*domain.Workplace) (*excelize.File, error) {
	rows := buildRows(mode, records, workplaces)

	// 行 key -> 该行涉及的任职记录
	recordsByKey := make(map[int64][]*domain.AssignmentRecord)
	for _, rec := range records {
		key := rec.WorkerID
		if mode == ModeByWorkplaces {
			key = rec.WorkplaceID
		}
		recordsByKey[key] = append(recordsByKey[key], rec)
	}

	// 生成范围内的自然日列表
	days := []time.Time{}
	for d := dateStart.In(exportLocation); !d.After(dateEnd.In(exportLocation)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	// 表头
	if err := f.SetCellValue(sheet, "A1", "名称"); err != nil {
		return nil, err
	}
	for i, d := range days {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, d.Format("2006-01-02")); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, row.Title); err != nil {
			return nil, err
		}

		for colIdx, d := range days {
			lines := []string{}
			for _, rec := range recordsByKey[row.Key] {
				for _, shift := range rec.Shifts {
					if !shiftCoversDay(shift, d) {
						continue
					}
					lines = append(lines, fmt.Sprintf("%s–%s（%s）",
						shift.StartsAt.In(exportLocation).Format("15:04"),
						shift.EndsAt.In(exportLocation).Format("15:04"),
						shiftKindLabel(shift.Kind),
					))
				}
			}
			if len(lines) == 0 {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(colIdx+2, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, strings.Join(lines, "\n")); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// shiftCoversDay 判断班段在东八区下是否落在给定自然日内
func shiftCoversDay(shift domain.Shift, day time.Time) bool {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, exportLocation)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return shift.StartsAt.Before(dayEnd) && shift.EndsAt.After(dayStart)
}
