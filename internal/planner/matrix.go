package planner

import (
	"sort"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Mode string

const (
	ModeByWorkers    Mode = "byWorkers"
	ModeByWorkplaces Mode = "byWorkplaces"
)

// MatrixSlot 是矩阵中的一格，带上冗余的展示信息
type MatrixSlot struct {
	ID               int64                   `json:"id"`
	From             time.Time               `json:"from"`
	To               *time.Time              `json:"to"`
	Status           domain.AssignmentStatus `json:"status"`
	WorkerID         int64                   `json:"workerID"`
	WorkerName       string                  `json:"workerName"`
	WorkplaceID      int64                   `json:"workplaceID"`
	WorkplaceName    string                  `json:"workplaceName"`
	OrganizationID   int64                   `json:"organizationID"`
	OrganizationName string                  `json:"organizationName"`
}

type MatrixRow struct {
	Key      int64        `json:"key"`
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Slots    []MatrixSlot `json:"slots"`
}

type Matrix struct {
	Rows      []MatrixRow `json:"rows"`
	Page      int         `json:"page"`
	PageSize  int         `json:"pageSize"`
	TotalRows int         `json:"totalRows"`
}

// 标题排序使用中文排序规则并按数值比较数字串，"2号门店"会排在"10号门店"之前
var titleCollator = collate.New(language.Chinese, collate.Numeric)

// buildRows 将任职记录按员工或工作场所聚合成完整的行列表（未分页）
// byWorkplaces 模式下没有任何记录的工作场所也会出现为空行
func buildRows(mode Mode, records []*domain.AssignmentRecord, workplaces []*domain.Workplace) []MatrixRow {
	rowMap := make(map[int64]*MatrixRow)

	if mode == ModeByWorkplaces {
		for _, wp := range workplaces {
			rowMap[wp.ID] = &MatrixRow{
				Key:      wp.ID,
				Title:    wp.Name,
				Subtitle: wp.Code,
				Slots:    []MatrixSlot{},
			}
		}
	}

	for _, rec := range records {
		var key int64
		switch mode {
		case ModeByWorkplaces:
			key = rec.WorkplaceID
		default:
			key = rec.WorkerID
		}

		row, exists := rowMap[key]
		if !exists {
			row = &MatrixRow{Key: key, Slots: []MatrixSlot{}}
			switch mode {
			case ModeByWorkplaces:
				row.Title = rec.WorkplaceName
				row.Subtitle = rec.WorkplaceCode
			default:
				row.Title = rec.WorkerName
				row.Subtitle = rec.WorkerUsername
			}
			rowMap[key] = row
		}

		row.Slots = append(row.Slots, MatrixSlot{
			ID:               rec.ID,
			From:             rec.StartsAt,
			To:               rec.EndsAt,
			Status:           rec.Status,
			WorkerID:         rec.WorkerID,
			WorkerName:       rec.WorkerName,
			WorkplaceID:      rec.WorkplaceID,
			WorkplaceName:    rec.WorkplaceName,
			OrganizationID:   rec.OrganizationID,
			OrganizationName: rec.OrganizationName,
		})
	}

	rows := make([]MatrixRow, 0, len(rowMap))
	for _, row := range rowMap {
		sort.Slice(row.Slots, func(i, j int) bool {
			return row.Slots[i].From.Before(row.Slots[j].From)
		})
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if cmp := titleCollator.CompareString(rows[i].Title, rows[j].Title); cmp != 0 {
			return cmp < 0
		}
		return rows[i].Key < rows[j].Key
	})

	return rows
}

// Build 生成分页后的排班矩阵，分页作用在行列表上，不会把一行的格子拆到两页
func Build(mode Mode, records []*domain.AssignmentRecord, workplaces []*domain.Workplace, page, pageSize int) *Matrix {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	rows := buildRows(mode, records, workplaces)

	total := len(rows)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &Matrix{
		Rows:      rows[start:end],
		Page:      page,
		PageSize:  pageSize,
		TotalRows: total,
	}
}
