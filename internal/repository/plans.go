package repository

import (
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (r *Repository) GetAllPlans() ([]*domain.Plan, error) {
	query := `
		SELECT id, name, description, status, starts_at, ends_at, created_at, version
		FROM plans
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []*domain.Plan{}
	for rows.Next() {
		var plan domain.Plan
		dst := []any{&plan.ID, &plan.Name, &plan.Description, &plan.Status, &plan.StartsAt, &plan.EndsAt, &plan.CreatedAt, &plan.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repository) GetPlanByID(id int64) (*domain.Plan, error) {
	query := `
		SELECT name, description, status, starts_at, ends_at, created_at, version
		FROM plans WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	plan := &domain.Plan{
		ID: id,
	}

	dst := []any{&plan.Name, &plan.Description, &plan.Status, &plan.StartsAt, &plan.EndsAt, &plan.CreatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *Repository) CreatePlan(plan *domain.Plan) error {
	query := `
		INSERT INTO plans (name, description, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{plan.Name, plan.Description, plan.Status, plan.StartsAt, plan.EndsAt}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&plan.ID, &plan.CreatedAt, &plan.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdatePlan(plan *domain.Plan) error {
	query := `
		UPDATE plans
		SET
			name = $1,
			description = $2,
			status = $3,
			starts_at = $4,
			ends_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{plan.Name, plan.Description, plan.Status, plan.StartsAt, plan.EndsAt, plan.ID, plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&plan.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeletePlan(id int64) error {
	query := `
		DELETE FROM plans WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
