package repository

import (
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (r *Repository) GetWorkplaceByID(id int64) (*domain.Workplace, error) {
	query := `
		SELECT organization_id, code, name, created_at, version
		FROM workplaces WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	wp := &domain.Workplace{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&wp.OrganizationID, &wp.Code, &wp.Name, &wp.CreatedAt, &wp.Version); err != nil {
		return nil, err
	}

	return wp, nil
}

// GetWorkplaces 返回范围内的工作场所，organizationID 为空表示不按组织过滤
func (r *Repository) GetWorkplaces(organizationID *int64) ([]*domain.Workplace, error) {
	query := `
		SELECT id, organization_id, code, name, created_at, version
		FROM workplaces
		WHERE $1::bigint IS NULL OR organization_id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wps := make([]*domain.Workplace, 0)
	for rows.Next() {
		wp := &domain.Workplace{}
		if err := rows.Scan(&wp.ID, &wp.OrganizationID, &wp.Code, &wp.Name, &wp.CreatedAt, &wp.Version); err != nil {
			return nil, err
		}
		wps = append(wps, wp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return wps, nil
}

func (r *Repository) CreateWorkplace(wp *domain.Workplace) error {
	query := `
		INSERT INTO workplaces (organization_id, code, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, wp.OrganizationID, wp.Code, wp.Name).Scan(&wp.ID, &wp.CreatedAt, &wp.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorkplace(wp *domain.Workplace) error {
	query := `
		UPDATE workplaces
		SET code = $1, name = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, wp.Code, wp.Name, wp.ID, wp.Version).Scan(&wp.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorkplace(id int64) error {
	query := `
		DELETE FROM workplaces WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
