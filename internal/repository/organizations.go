package repository

import (
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (r *Repository) GetOrganizationByID(id int64) (*domain.Organization, error) {
	query := `
		SELECT name, short_code, created_at, version
		FROM organizations WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	org := &domain.Organization{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&org.Name, &org.ShortCode, &org.CreatedAt, &org.Version); err != nil {
		return nil, err
	}

	return org, nil
}

func (r *Repository) GetAllOrganizations() ([]*domain.Organization, error) {
	query := `
		SELECT id, name, short_code, created_at, version FROM organizations
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		org := &domain.Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.ShortCode, &org.CreatedAt, &org.Version); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orgs, nil
}

func (r *Repository) CreateOrganization(org *domain.Organization) error {
	query := `
		INSERT INTO organizations (name, short_code)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, org.Name, org.ShortCode).Scan(&org.ID, &org.CreatedAt, &org.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateOrganization(org *domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, short_code = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, org.Name, org.ShortCode, org.ID, org.Version).Scan(&org.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteOrganization(id int64) error {
	query := `
		DELETE FROM organizations WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
