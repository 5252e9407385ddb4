package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/repository"
)

// ensureCanAssign 检查一条任职记录的员工和工作场所是否允许建立任职关系
func (h *Handler) ensureCanAssign(workerID int64, workplaceID int64) (*domain.Worker, error) {
	worker, err := h.repository.GetWorkerByID(workerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("员工不存在")
		}
		return nil, err
	}

	if err := assignabilityError(worker); err != nil {
		return nil, err
	}

	wp, err := h.repository.GetWorkplaceByID(workplaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("工作场所不存在")
		}
		return nil, err
	}

	if wp.OrganizationID != *worker.OrganizationID {
		return nil, domain.NewBadRequest("工作场所不属于员工所在的组织")
	}

	return worker, nil
}

// assignabilityError 返回员工不允许被排班时对应的业务错误
func assignabilityError(worker *domain.Worker) error {
	if worker.CanBeScheduled() {
		return nil
	}

	switch {
	case worker.IsSystem:
		return domain.NewBadRequest("系统账号不允许建立任职记录")
	case worker.Role != domain.RoleWorker:
		return domain.NewBadRequest("只有普通员工允许建立任职记录")
	case !worker.IsActive:
		return domain.NewBadRequest("已停用的员工不允许建立任职记录")
	default:
		return domain.NewBadRequest("员工尚未加入任何组织")
	}
}

type shiftRequest struct {
	StartsAt time.Time `json:"startsAt" validate:"required"`
	EndsAt   time.Time `json:"endsAt" validate:"required"`
	Kind     string    `json:"kind" validate:"required,oneof=DEFAULT OFFICE REMOTE DAY_OFF"`
}

func parseShifts(reqs []shiftRequest) ([]domain.Shift, error) {
	shifts := make([]domain.Shift, 0, len(reqs))
	for _, s := range reqs {
		if !s.EndsAt.After(s.StartsAt) {
			return nil, errors.New("班段的结束时间必须晚于开始时间")
		}
		shifts = append(shifts, domain.Shift{
			StartsAt: s.StartsAt,
			EndsAt:   s.EndsAt,
			Kind:     domain.ShiftKind(s.Kind),
		})
	}
	return shifts, nil
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID    int64          `json:"workerID" validate:"required"`
		WorkplaceID int64          `json:"workplaceID" validate:"required"`
		StartsAt    time.Time      `json:"startsAt" validate:"required"`
		EndsAt      *time.Time     `json:"endsAt"`
		Shifts      []shiftRequest `json:"shifts" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		h.errorResponse(w, r, "任职的结束时间不能早于开始时间")
		return
	}

	worker, err := h.ensureCanAssign(req.WorkerID, req.WorkplaceID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	shifts, err := parseShifts(req.Shifts)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment := &domain.Assignment{
		WorkerID:    req.WorkerID,
		WorkplaceID: req.WorkplaceID,
		Status:      domain.AssignmentActive,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Shifts:      shifts,
	}

	// 提供了班段时，任职的时间范围取班段的最早开始和最晚结束
	assignment.DeriveBoundsFromShifts()

	// 重叠上限检查和写入在同一个事务中完成
	if err := h.repository.CreateAssignment(assignment); err != nil {
		h.domainError(w, r, err)
		return
	}

	dateEnd := "长期"
	if assignment.EndsAt != nil {
		dateEnd = assignment.EndsAt.Format("2006-01-02")
	}
	go h.notifyWorkers([]int64{worker.ID}, "assignment_created", func(worker *domain.Worker) any {
		return domain.AssignmentCreatedData{
			FullName:  worker.FullName,
			DateStart: assignment.StartsAt.Format("2006-01-02"),
			DateEnd:   dateEnd,
		}
	})

	h.successResponse(w, r, "创建任职记录成功", assignment)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)
	h.successResponse(w, r, "获取任职记录成功", assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	var req struct {
		StartsAt    *time.Time      `json:"startsAt"`
		EndsAt      *time.Time      `json:"endsAt"`
		ClearEndsAt bool            `json:"clearEndsAt"` // 显式清空结束时间，使任职变为长期
		Shifts      *[]shiftRequest `json:"shifts" validate:"omitempty,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.StartsAt != nil {
		assignment.StartsAt = *req.StartsAt
	}
	if req.ClearEndsAt {
		assignment.EndsAt = nil
	} else if req.EndsAt != nil {
		assignment.EndsAt = req.EndsAt
	}

	if assignment.EndsAt != nil && assignment.EndsAt.Before(assignment.StartsAt) {
		h.errorResponse(w, r, "任职的结束时间不能早于开始时间")
		return
	}

	replaceShifts := false
	if req.Shifts != nil {
		shifts, err := parseShifts(*req.Shifts)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		assignment.Shifts = shifts
		replaceShifts = true
	}

	if !assignment.CoversShifts() {
		h.errorResponse(w, r, "班段的日期范围超出了任职的时间范围")
		return
	}

	if err := h.repository.UpdateAssignment(assignment, replaceShifts); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新任职记录失败，请重试")
		default:
			h.domainError(w, r, err)
		}
		return
	}

	go h.notifyWorkers([]int64{assignment.WorkerID}, "assignment_updated", func(worker *domain.Worker) any {
		return domain.AssignmentUpdatedData{
			FullName: worker.FullName,
			Detail:   "您的任职记录已被更新",
		}
	})

	h.successResponse(w, r, "更新任职记录成功", assignment)
}

func (h *Handler) ArchiveAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	if assignment.Status == domain.AssignmentArchived {
		h.errorResponse(w, r, "任职记录已归档")
		return
	}

	assignment.Status = domain.AssignmentArchived
	if err := h.repository.UpdateAssignment(assignment, false); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "归档任职记录失败，请重试")
		default:
			h.domainError(w, r, err)
		}
		return
	}

	go h.notifyWorkers([]int64{assignment.WorkerID}, "assignment_updated", func(worker *domain.Worker) any {
		return domain.AssignmentUpdatedData{
			FullName: worker.FullName,
			Detail:   "您的任职记录已被归档",
		}
	})

	h.successResponse(w, r, "归档任职记录成功", assignment)
}

func (h *Handler) SoftDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	if err := h.repository.SoftDeleteAssignment(assignment); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "任职记录已在回收站中")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	go h.notifyWorkers([]int64{assignment.WorkerID}, "assignment_updated", func(worker *domain.Worker) any {
		return domain.AssignmentUpdatedData{
			FullName: worker.FullName,
			Detail:   "您的任职记录已被移入回收站",
		}
	})

	h.successResponse(w, r, "任职记录已移入回收站", nil)
}

func (h *Handler) RestoreAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	if err := h.repository.RestoreAssignment(assignment); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "任职记录不在回收站中")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "恢复任职记录成功", assignment)
}

func (h *Handler) HardDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	// 只有回收站中的记录允许被彻底删除
	if err := h.repository.HardDeleteAssignment(assignment.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "只能彻底删除回收站中的任职记录")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "彻底删除任职记录成功", nil)
}

func (h *Handler) GetAssignmentRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		h.errorResponse(w, r, "查询范围的开始时间无效")
		return
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		h.errorResponse(w, r, "查询范围的结束时间无效")
		return
	}
	if to.Before(from) {
		h.errorResponse(w, r, "查询范围的结束时间不能早于开始时间")
		return
	}

	filter := &repository.AssignmentRecordFilter{From: from, To: to}

	if param := query.Get("workerID"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}
		filter.WorkerID = &id
	}
	if param := query.Get("organizationID"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "组织ID无效")
			return
		}
		filter.OrganizationID = &id
	}
	if param := query.Get("status"); param != "" {
		if param != string(domain.AssignmentActive) && param != string(domain.AssignmentArchived) {
			h.errorResponse(w, r, "任职状态无效")
			return
		}
		status := domain.AssignmentStatus(param)
		filter.Status = &status
	}

	records, err := h.repository.GetAssignmentRecords(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任职记录列表成功", records)
}
