package repository

import (
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, organization_id, is_system, is_active, created_at, version
		FROM workers WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	worker := &domain.Worker{
		ID: id,
	}

	dst := []any{&worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.OrganizationID, &worker.IsSystem, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetWorkerByUsername(username string) (*domain.Worker, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, organization_id, is_system, is_active, created_at, version
		FROM workers WHERE username = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	worker := &domain.Worker{
		Username: username,
	}

	dst := []any{&worker.ID, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.OrganizationID, &worker.IsSystem, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetAllWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, organization_id, is_system, is_active, created_at, version
		FROM workers
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.OrganizationID, &worker.IsSystem, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

// GetSchedulableWorkers 返回自动排班的候选池：普通员工、非系统账号、在职
func (r *Repository) GetSchedulableWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, organization_id, is_system, is_active, created_at, version
		FROM workers
		WHERE role = $1 AND is_system = FALSE AND is_active = TRUE
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, domain.RoleWorker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.OrganizationID, &worker.IsSystem, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) GetWorkersByIDs(ids []int64) ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, organization_id, is_system, is_active, created_at, version
		FROM workers WHERE id = ANY($1)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0, len(ids))
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.OrganizationID, &worker.IsSystem, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) CreateWorker(worker *domain.Worker) error {
	query := `
		INSERT INTO workers (username, password_hash, full_name, email, role, organization_id, is_system)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{worker.Username, worker.PasswordHash, worker.FullName, worker.Email, worker.Role, worker.OrganizationID, worker.IsSystem}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.ID, &worker.IsActive, &worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorker(worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			organization_id = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{worker.PasswordHash, worker.Email, worker.Role, worker.OrganizationID, worker.IsActive, worker.ID, worker.Version}
	dst := []any{&worker.Username, &worker.FullName, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorker(id int64) error {
	query := `
		DELETE FROM workers WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM workers WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
