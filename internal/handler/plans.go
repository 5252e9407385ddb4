package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (h *Handler) GetAllPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.repository.GetAllPlans()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班活动列表成功", plans)
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string    `json:"name" validate:"required"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"startsAt" validate:"required"`
		EndsAt      time.Time `json:"endsAt" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !req.EndsAt.After(req.StartsAt) {
		h.errorResponse(w, r, "排班活动的结束时间必须晚于开始时间")
		return
	}

	plan := &domain.Plan{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.PlanDraft,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	if err := h.repository.CreatePlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "plans_name_key":
			h.errorResponse(w, r, "排班活动名称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建排班活动成功", plan)
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)
	h.successResponse(w, r, "获取排班活动成功", plan)
}

func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)

	// 归档是终态，已归档的排班活动不允许再被修改
	if !plan.IsMutable() {
		h.domainError(w, r, domain.NewForbidden("排班活动已归档，不允许修改"))
		return
	}

	var req struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Status      *string    `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
		StartsAt    *time.Time `json:"startsAt"`
		EndsAt      *time.Time `json:"endsAt"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Status != nil {
		plan.Status = domain.PlanStatus(*req.Status)
	}
	if req.StartsAt != nil {
		plan.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		plan.EndsAt = *req.EndsAt
	}

	if !plan.EndsAt.After(plan.StartsAt) {
		h.errorResponse(w, r, "排班活动的结束时间必须晚于开始时间")
		return
	}

	if err := h.repository.UpdatePlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "plans_name_key":
			h.errorResponse(w, r, "排班活动名称已存在")
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班活动失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排班活动成功", plan)
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(PlanCtx).(*domain.Plan)

	// 已发布或已归档的排班活动承载着历史排班记录，不允许删除
	if plan.Status != domain.PlanDraft {
		h.errorResponse(w, r, "只能删除草稿状态的排班活动")
		return
	}

	if err := h.repository.DeletePlan(plan.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班活动成功", nil)
}
