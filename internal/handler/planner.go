package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/planner"
	"github.com/teamflow-dev/workforce-crm/backend/internal/repository"
)

// parsePlannerQuery 解析排班矩阵和导出共用的查询参数
func parsePlannerQuery(query url.Values) (planner.Mode, *repository.AssignmentRecordFilter, error) {
	mode := planner.ModeByWorkers
	switch query.Get("mode") {
	case "", string(planner.ModeByWorkers):
	case string(planner.ModeByWorkplaces):
		mode = planner.ModeByWorkplaces
	default:
		return "", nil, fmt.Errorf("无效的视图模式")
	}

	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		return "", nil, fmt.Errorf("查询范围的开始时间无效")
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		return "", nil, fmt.Errorf("查询范围的结束时间无效")
	}
	if to.Before(from) {
		return "", nil, fmt.Errorf("查询范围的结束时间不能早于开始时间")
	}

	filter := &repository.AssignmentRecordFilter{From: from, To: to}

	if param := query.Get("workerID"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			return "", nil, fmt.Errorf("员工ID无效")
		}
		filter.WorkerID = &id
	}
	if param := query.Get("organizationID"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			return "", nil, fmt.Errorf("组织ID无效")
		}
		filter.OrganizationID = &id
	}
	if param := query.Get("status"); param != "" {
		if param != string(domain.AssignmentActive) && param != string(domain.AssignmentArchived) {
			return "", nil, fmt.Errorf("任职状态无效")
		}
		status := domain.AssignmentStatus(param)
		filter.Status = &status
	}

	return mode, filter, nil
}

func (h *Handler) GetPlannerMatrix(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mode, filter, err := parsePlannerQuery(query)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	records, err := h.repository.GetAssignmentRecords(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// byWorkplaces 模式下没有记录的工作场所也要出现为空行
	var workplaces []*domain.Workplace
	if mode == planner.ModeByWorkplaces {
		workplaces, err = h.repository.GetWorkplaces(filter.OrganizationID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	matrix := planner.Build(mode, records, workplaces, page, pageSize)

	h.successResponse(w, r, "获取排班矩阵成功", matrix)
}

func (h *Handler) ExportPlannerMatrix(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mode, filter, err := parsePlannerQuery(query)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	records, err := h.repository.GetAssignmentRecords(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var workplaces []*domain.Workplace
	if mode == planner.ModeByWorkplaces {
		workplaces, err = h.repository.GetWorkplaces(filter.OrganizationID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	workbook, err := planner.BuildWorkbook(mode, filter.From, filter.To, records, workplaces)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("planner_%s_%s.xlsx", filter.From.Format("20060102"), filter.To.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(w); err != nil {
		h.logInternalServerError(r, err)
	}
}
