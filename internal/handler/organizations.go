package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (h *Handler) GetAllOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.repository.GetAllOrganizations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织列表成功", orgs)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		ShortCode string `json:"shortCode" validate:"required,alphanum"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	org := &domain.Organization{
		Name:      req.Name,
		ShortCode: req.ShortCode,
	}

	if err := h.repository.CreateOrganization(org); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "organizations_name_key":
				h.errorResponse(w, r, "组织名称已存在")
			case "organizations_short_code_key":
				h.errorResponse(w, r, "组织短代码已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建组织成功", org)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)
	h.successResponse(w, r, "获取组织信息成功", org)
}

func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Name      *string `json:"name"`
		ShortCode *string `json:"shortCode" validate:"omitempty,alphanum"`
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
		org.Name = *req.Name
	}
	if req.ShortCode != nil {
		org.ShortCode = *req.ShortCode
	}

	if err := h.repository.UpdateOrganization(org); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "organizations_name_key":
				h.errorResponse(w, r, "组织名称已存在")
			case "organizations_short_code_key":
				h.errorResponse(w, r, "组织短代码已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新组织信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新组织信息成功", org)
}

func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	if err := h.repository.DeleteOrganization(org.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "workplaces_organization_id_fkey":
			h.errorResponse(w, r, "组织下仍有工作场所，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除组织成功", nil)
}
