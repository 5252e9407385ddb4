package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func scanConstraints(rows *sql.Rows) ([]*domain.Constraint, error) {
	constraints := make([]*domain.Constraint, 0)
	for rows.Next() {
		c := &domain.Constraint{}
		var payload []byte
		dst := []any{&c.ID, &c.WorkerID, &c.OrganizationID, &c.Type, &payload, &c.CreatedAt, &c.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &c.Payload); err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return constraints, nil
}

func (r *Repository) GetConstraintByID(id int64) (*domain.Constraint, error) {
	query := `
		SELECT worker_id, organization_id, type, payload, created_at, version
		FROM constraints WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	c := &domain.Constraint{
		ID: id,
	}

	var payload []byte
	dst := []any{&c.WorkerID, &c.OrganizationID, &c.Type, &payload, &c.CreatedAt, &c.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &c.Payload); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *Repository) GetAllConstraints() ([]*domain.Constraint, error) {
	query := `
		SELECT id, worker_id, organization_id, type, payload, created_at, version
		FROM constraints
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConstraints(rows)
}

// GetConstraintsForScheduling 预加载一次自动排班所需要的全部规则：
// 全局规则、目标组织的组织级规则、以及任何候选员工的个人规则
func (r *Repository) GetConstraintsForScheduling(organizationID int64, workerIDs []int64) ([]*domain.Constraint, error) {
	query := `
		SELECT id, worker_id, organization_id, type, payload, created_at, version
		FROM constraints
		WHERE (worker_id IS NULL AND organization_id IS NULL)
			OR (worker_id IS NULL AND organization_id = $1)
			OR worker_id = ANY($2)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID, workerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConstraints(rows)
}

func (r *Repository) CreateConstraint(c *domain.Constraint) error {
	payload, err := json.Marshal(c.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO constraints (worker_id, organization_id, type, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{c.WorkerID, c.OrganizationID, c.Type, payload}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateConstraint(c *domain.Constraint) error {
	payload, err := json.Marshal(c.Payload)
	if err != nil {
		return err
	}

	query := `
		UPDATE constraints
		SET worker_id = $1, organization_id = $2, type = $3, payload = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{c.WorkerID, c.OrganizationID, c.Type, payload, c.ID, c.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&c.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteConstraint(id int64) error {
	query := `
		DELETE FROM constraints WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
