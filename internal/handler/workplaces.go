package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (h *Handler) GetWorkplaces(w http.ResponseWriter, r *http.Request) {
	// 支持按组织过滤
	var organizationID *int64
	if param := r.URL.Query().Get("organizationID"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "组织ID无效")
			return
		}
		organizationID = &id
	}

	workplaces, err := h.repository.GetWorkplaces(organizationID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作场所列表成功", workplaces)
}

func (h *Handler) CreateWorkplace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationID int64  `json:"organizationID" validate:"required"`
		Code           string `json:"code" validate:"required,alphanum"`
		Name           string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	wp := &domain.Workplace{
		OrganizationID: req.OrganizationID,
		Code:           req.Code,
		Name:           req.Name,
	}

	if err := h.repository.CreateWorkplace(wp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "workplaces_code_key":
				h.errorResponse(w, r, "工作场所代码已存在")
			case "workplaces_organization_id_fkey":
				h.errorResponse(w, r, "组织不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建工作场所成功", wp)
}

func (h *Handler) GetWorkplace(w http.ResponseWriter, r *http.Request) {
	wp := r.Context().Value(WorkplaceCtx).(*domain.Workplace)
	h.successResponse(w, r, "获取工作场所信息成功", wp)
}

func (h *Handler) UpdateWorkplace(w http.ResponseWriter, r *http.Request) {
	wp := r.Context().Value(WorkplaceCtx).(*domain.Workplace)

	var req struct {
		Code *string `json:"code" validate:"omitempty,alphanum"`
		Name *string `json:"name"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Code != nil {
		wp.Code = *req.Code
	}
	if req.Name != nil {
		wp.Name = *req.Name
	}

	if err := h.repository.UpdateWorkplace(wp); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "workplaces_code_key":
			h.errorResponse(w, r, "工作场所代码已存在")
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新工作场所信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新工作场所信息成功", wp)
}

func (h *Handler) DeleteWorkplace(w http.ResponseWriter, r *http.Request) {
	wp := r.Context().Value(WorkplaceCtx).(*domain.Workplace)

	if err := h.repository.DeleteWorkplace(wp.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "assignments_workplace_id_fkey":
			h.errorResponse(w, r, "工作场所下仍有任职记录，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除工作场所成功", nil)
}
