package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
	"github.com/teamflow-dev/workforce-crm/backend/internal/repository"
	"github.com/teamflow-dev/workforce-crm/backend/internal/scheduler"
)

// ensureRangeInPlan 检查排班日期范围是否落在排班活动的时间范围内
func ensureRangeInPlan(plan *domain.Plan, dateStart, dateEnd time.Time) error {
	if dateEnd.Before(dateStart) {
		return errors.New("排班的结束日期不能早于开始日期")
	}
	if dateStart.Before(plan.StartsAt) || dateEnd.After(plan.EndsAt) {
		return errors.New("排班日期范围超出了排班活动的时间范围")
	}
	return nil
}

func (h *Handler) BulkAssignSlots(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)

	var req struct {
		Slots []struct {
			WorkerID       int64     `json:"workerID" validate:"required"`
			OrganizationID int64     `json:"organizationID" validate:"required"`
			DateStart      time.Time `json:"dateStart" validate:"required"`
			DateEnd        time.Time `json:"dateEnd" validate:"required"`
			Note           string    `json:"note"`
			ColorCode      string    `json:"colorCode"`
		} `json:"slots" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slots := make([]*domain.Slot, 0, len(req.Slots))
	workerIDs := make([]int64, 0, len(req.Slots))
	for _, s := range req.Slots {
		if err := ensureRangeInPlan(plan, s.DateStart, s.DateEnd); err != nil {
			h.badRequest(w, r, err)
			return
		}
		slots = append(slots, &domain.Slot{
			PlanID:         plan.ID,
			WorkerID:       s.WorkerID,
			OrganizationID: s.OrganizationID,
			DateStart:      s.DateStart,
			DateEnd:        s.DateEnd,
			Status:         domain.SlotPlanned,
			Note:           s.Note,
			ColorCode:      s.ColorCode,
		})
		workerIDs = append(workerIDs, s.WorkerID)
	}

	if err := h.repository.InsertSlots(slots); err != nil {
		h.domainError(w, r, err)
		return
	}

	go h.notifyWorkers(workerIDs, "assignment_created", func(worker *domain.Worker) any {
		return domain.AssignmentCreatedData{
			FullName:  worker.FullName,
			PlanName:  plan.Name,
			DateStart: plan.StartsAt.Format("2006-01-02"),
			DateEnd:   plan.EndsAt.Format("2006-01-02"),
		}
	})

	h.successResponse(w, r, "批量排班成功", slots)
}

func (h *Handler) AutoAssignSlots(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)

	var req struct {
		OrganizationID     int64     `json:"organizationID" validate:"required"`
		DateStart          time.Time `json:"dateStart" validate:"required"`
		DateEnd            time.Time `json:"dateEnd" validate:"required"`
		TeamSize           int       `json:"teamSize" validate:"required,min=1"`
		ColorCode          string    `json:"colorCode"`
		RespectConstraints *bool     `json:"respectConstraints"` // 不传时默认遵守约束
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := ensureRangeInPlan(plan, req.DateStart, req.DateEnd); err != nil {
		h.badRequest(w, r, err)
		return
	}

	org, err := h.repository.GetOrganizationByID(req.OrganizationID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "组织不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	colorCode := req.ColorCode
	if colorCode == "" {
		colorCode = strings.ToUpper(org.ShortCode)
	}

	respectConstraints := true
	if req.RespectConstraints != nil {
		respectConstraints = *req.RespectConstraints
	}

	// 同一排班活动下与请求范围重叠的已有记录既用于硬冲突检查，也用于负载统计
	existingSlots, err := h.repository.GetSlotsOverlappingRange(plan.ID, req.DateStart, req.DateEnd)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	existing := make([]scheduler.RangeSlot, 0, len(existingSlots))
	for _, s := range existingSlots {
		existing = append(existing, scheduler.RangeSlot{
			WorkerID:  s.WorkerID,
			DateStart: s.DateStart,
			DateEnd:   s.DateEnd,
		})
	}

	workers, err := h.repository.GetSchedulableWorkers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var constraints []*domain.Constraint
	if respectConstraints {
		workerIDs := make([]int64, 0, len(workers))
		for _, worker := range workers {
			workerIDs = append(workerIDs, worker.ID)
		}
		constraints, err = h.repository.GetConstraintsForScheduling(org.ID, workerIDs)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	assigner := scheduler.NewAutoAssigner(workers, existing, constraints, respectConstraints)
	slots, err := assigner.Run(&scheduler.Request{
		PlanID:         plan.ID,
		OrganizationID: org.ID,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		TeamSize:       req.TeamSize,
		ColorCode:      colorCode,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.InsertSlots(slots); err != nil {
		h.domainError(w, r, err)
		return
	}

	workerIDs := make([]int64, 0, len(slots))
	for _, s := range slots {
		workerIDs = append(workerIDs, s.WorkerID)
	}
	go h.notifyWorkers(workerIDs, "assignment_created", func(worker *domain.Worker) any {
		return domain.AssignmentCreatedData{
			FullName:  worker.FullName,
			PlanName:  plan.Name,
			DateStart: req.DateStart.Format("2006-01-02"),
			DateEnd:   req.DateEnd.Format("2006-01-02"),
		}
	})

	h.successResponse(w, r, "自动排班成功", slots)
}

func (h *Handler) BulkMoveSlots(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)

	var req struct {
		SlotIDs        []int64    `json:"slotIDs" validate:"required,min=1"`
		DateStart      *time.Time `json:"dateStart"`
		DateEnd        *time.Time `json:"dateEnd"`
		OrganizationID *int64     `json:"organizationID"`
		WorkerID       *int64     `json:"workerID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.DateStart == nil && req.DateEnd == nil && req.OrganizationID == nil && req.WorkerID == nil {
		h.errorResponse(w, r, "未指定任何要移动的字段")
		return
	}

	slots, err := h.repository.BulkMoveSlots(plan.ID, req.SlotIDs, &repository.SlotMove{
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		OrganizationID: req.OrganizationID,
		WorkerID:       req.WorkerID,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	workerIDs := make([]int64, 0, len(slots))
	for _, s := range slots {
		workerIDs = append(workerIDs, s.WorkerID)
	}
	go h.notifyWorkers(workerIDs, "assignment_updated", func(worker *domain.Worker) any {
		return domain.AssignmentUpdatedData{
			FullName: worker.FullName,
			Detail:   "您在排班活动「" + plan.Name + "」中的排班已被调整",
		}
	})

	h.successResponse(w, r, "批量移动排班成功", slots)
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)
	slot := r.Context().Value(SlotCtx).(*domain.Slot)

	var req struct {
		DateStart      *time.Time `json:"dateStart"`
		DateEnd        *time.Time `json:"dateEnd"`
		OrganizationID *int64     `json:"organizationID"`
		WorkerID       *int64     `json:"workerID"`
		Status         *string    `json:"status" validate:"omitempty,oneof=PLANNED CONFIRMED REPLACED CANCELLED"`
		Locked         *bool      `json:"locked"`
		Note           *string    `json:"note"`
		ColorCode      *string    `json:"colorCode"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 锁定的记录不允许修改日期、组织和员工，状态和备注仍然允许修改
	touchesProtected := req.DateStart != nil || req.DateEnd != nil || req.OrganizationID != nil || req.WorkerID != nil
	if slot.Locked && touchesProtected {
		h.domainError(w, r, domain.NewForbidden("排班记录已被锁定，禁止修改日期、组织和员工"))
		return
	}

	if req.DateStart != nil {
		slot.DateStart = *req.DateStart
	}
	if req.DateEnd != nil {
		slot.DateEnd = *req.DateEnd
	}
	if req.OrganizationID != nil {
		slot.OrganizationID = *req.OrganizationID
	}
	if req.WorkerID != nil {
		slot.WorkerID = *req.WorkerID
	}
	if req.Status != nil {
		slot.Status = domain.SlotStatus(*req.Status)
	}
	if req.Locked != nil {
		slot.Locked = *req.Locked
	}
	if req.Note != nil {
		slot.Note = *req.Note
	}
	if req.ColorCode != nil {
		slot.ColorCode = *req.ColorCode
	}

	if slot.DateEnd.Before(slot.DateStart) {
		h.errorResponse(w, r, "排班的结束日期不能早于开始日期")
		return
	}

	if err := h.repository.UpdateSlot(slot); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班记录失败，请重试")
		default:
			h.domainError(w, r, err)
		}
		return
	}

	go h.notifyWorkers([]int64{slot.WorkerID}, "assignment_updated", func(worker *domain.Worker) any {
		return domain.AssignmentUpdatedData{
			FullName: worker.FullName,
			Detail:   "您在排班活动「" + plan.Name + "」中的排班已被调整",
		}
	})

	h.successResponse(w, r, "更新排班记录成功", slot)
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)
	slot := r.Context().Value(SlotCtx).(*domain.Slot)

	if slot.Locked {
		h.domainError(w, r, domain.NewForbidden("排班记录已被锁定，禁止删除"))
		return
	}

	if err := h.repository.DeleteSlot(slot.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	go h.notifyWorkers([]int64{slot.WorkerID}, "assignment_updated", func(worker *domain.Worker) any {
		return domain.AssignmentUpdatedData{
			FullName: worker.FullName,
			Detail:   "您在排班活动「" + plan.Name + "」中的排班已被取消",
		}
	})

	h.successResponse(w, r, "删除排班记录成功", nil)
}
