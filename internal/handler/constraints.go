package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (h *Handler) GetAllConstraints(w http.ResponseWriter, r *http.Request) {
	constraints, err := h.repository.GetAllConstraints()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取约束规则列表成功", constraints)
}

func (h *Handler) CreateConstraint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID       *int64          `json:"workerID"`
		OrganizationID *int64          `json:"organizationID"`
		Type           string          `json:"type" validate:"required,oneof=ORG_BLACKLIST AVAILABILITY MAX_SLOTS_PER_WEEK"`
		Payload        json.RawMessage `json:"payload" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 在写入边界解析载荷，不合法的载荷不允许入库
	payload, err := domain.ParseConstraintPayload(domain.ConstraintType(req.Type), req.Payload)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	constraint := &domain.Constraint{
		WorkerID:       req.WorkerID,
		OrganizationID: req.OrganizationID,
		Type:           domain.ConstraintType(req.Type),
		Payload:        *payload,
	}

	if err := h.repository.CreateConstraint(constraint); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "constraints_worker_id_fkey":
				h.errorResponse(w, r, "员工不存在")
			case "constraints_organization_id_fkey":
				h.errorResponse(w, r, "组织不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建约束规则成功", constraint)
}

func (h *Handler) GetConstraint(w http.ResponseWriter, r *http.Request) {
	constraint := r.Context().Value(ConstraintCtx).(*domain.Constraint)
	h.successResponse(w, r, "获取约束规则成功", constraint)
}

func (h *Handler) UpdateConstraint(w http.ResponseWriter, r *http.Request) {
	constraint := r.Context().Value(ConstraintCtx).(*domain.Constraint)

	var req struct {
		WorkerID       *int64          `json:"workerID"`
		OrganizationID *int64          `json:"organizationID"`
		Payload        json.RawMessage `json:"payload"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.WorkerID != nil {
		constraint.WorkerID = req.WorkerID
	}
	if req.OrganizationID != nil {
		constraint.OrganizationID = req.OrganizationID
	}
	if req.Payload != nil {
		// 类型不允许修改，载荷按原类型重新解析
		payload, err := domain.ParseConstraintPayload(constraint.Type, req.Payload)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		constraint.Payload = *payload
	}

	if err := h.repository.UpdateConstraint(constraint); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新约束规则失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新约束规则成功", constraint)
}

func (h *Handler) DeleteConstraint(w http.ResponseWriter, r *http.Request) {
	constraint := r.Context().Value(ConstraintCtx).(*domain.Constraint)

	if err := h.repository.DeleteConstraint(constraint.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除约束规则成功", nil)
}
