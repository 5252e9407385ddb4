package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// countOverlappingAssignments 统计该员工与建议时间段重叠的生效且未删除的任职数量
// excludeID 用于更新时排除记录自身，proposedEnd 为空表示建议时间段无限延伸
func (r *Repository) countOverlappingAssignments(ctx context.Context, q rowQueryer, workerID int64, proposedStart time.Time, proposedEnd *time.Time, excludeID *int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM assignments
		WHERE worker_id = $1
			AND status = $2
			AND deleted_at IS NULL
			AND ($3::bigint IS NULL OR id != $3)
			AND ($5::timestamptz IS NULL OR starts_at <= $5)
			AND (ends_at IS NULL OR ends_at >= $4)
	`

	count := 0
	args := []any{workerID, domain.AssignmentActive, excludeID, proposedStart, proposedEnd}
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// CreateAssignment 在同一个事务中完成重叠检查和写入，防止检查和提交之间插入并发的冲突写
func (r *Repository) CreateAssignment(a *domain.Assignment) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	count, err := r.countOverlappingAssignments(ctx, tx, a.WorkerID, a.StartsAt, a.EndsAt, nil)
	if err != nil {
		return err
	}
	if count >= r.cfg.Scheduling.OverlapCeiling {
		return domain.NewConflict("该员工在此时间段内的生效任职数量已达上限")
	}

	query := `
		INSERT INTO assignments (worker_id, workplace_id, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{a.WorkerID, a.WorkplaceID, a.Status, a.StartsAt, a.EndsAt}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
		return err
	}

	if err := r.insertShifts(ctx, tx, a); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateAssignment 更新任职记录，replaceShifts 为 true 时整体替换其下的班段
// 重叠检查会排除记录自身
func (r *Repository) UpdateAssignment(a *domain.Assignment, replaceShifts bool) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if a.Status == domain.AssignmentActive {
		count, err := r.countOverlappingAssignments(ctx, tx, a.WorkerID, a.StartsAt, a.EndsAt, &a.ID)
		if err != nil {
			return err
		}
		if count >= r.cfg.Scheduling.OverlapCeiling {
			return domain.NewConflict("该员工在此时间段内的生效任职数量已达上限")
		}
	}

	query := `
		UPDATE assignments
		SET
			worker_id = $1,
			workplace_id = $2,
			status = $3,
			starts_at = $4,
			ends_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	args := []any{a.WorkerID, a.WorkplaceID, a.Status, a.StartsAt, a.EndsAt, a.ID, a.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&a.Version); err != nil {
		return err
	}

	if replaceShifts {
		if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_shifts WHERE assignment_id = $1`, a.ID); err != nil {
			return err
		}
		if err := r.insertShifts(ctx, tx, a); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) insertShifts(ctx context.Context, tx *sql.Tx, a *domain.Assignment) error {
	query := `
		INSERT INTO assignment_shifts (assignment_id, starts_at, ends_at, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range a.Shifts {
		shift := &a.Shifts[i]
		shift.AssignmentID = a.ID
		if err := tx.QueryRowContext(ctx, query, a.ID, shift.StartsAt, shift.EndsAt, shift.Kind).Scan(&shift.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetAssignmentByID(id int64) (*domain.Assignment, error) {
	query := `
		SELECT worker_id, workplace_id, status, starts_at, ends_at, deleted_at, created_at, version
		FROM assignments WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	a := &domain.Assignment{
		ID: id,
	}

	dst := []any{&a.WorkerID, &a.WorkplaceID, &a.Status, &a.StartsAt, &a.EndsAt, &a.DeletedAt, &a.CreatedAt, &a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	shiftsQuery := `
		SELECT id, starts_at, ends_at, kind
		FROM assignment_shifts WHERE assignment_id = $1
		ORDER BY starts_at
	`

	rows, err := r.dbpool.QueryContext(ctx, shiftsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	a.Shifts = make([]domain.Shift, 0)
	for rows.Next() {
		shift := domain.Shift{AssignmentID: id}
		if err := rows.Scan(&shift.ID, &shift.StartsAt, &shift.EndsAt, &shift.Kind); err != nil {
			return nil, err
		}
		a.Shifts = append(a.Shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *Repository) SoftDeleteAssignment(a *domain.Assignment) error {
	query := `
		UPDATE assignments
		SET deleted_at = NOW(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL AND version = $2
		RETURNING deleted_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, a.ID, a.Version).Scan(&a.DeletedAt, &a.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) RestoreAssignment(a *domain.Assignment) error {
	query := `
		UPDATE assignments
		SET deleted_at = NULL, version = version + 1
		WHERE id = $1 AND deleted_at IS NOT NULL AND version = $2
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, a.ID, a.Version).Scan(&a.Version); err != nil {
		return err
	}

	a.DeletedAt = nil
	return nil
}

// HardDeleteAssignment 只允许删除已在回收站中的记录
func (r *Repository) HardDeleteAssignment(id int64) error {
	query := `
		DELETE FROM assignments WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var deletedID int64
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&deletedID); err != nil {
		return err
	}

	return nil
}

type AssignmentRecordFilter struct {
	From           time.Time
	To             time.Time
	WorkerID       *int64
	OrganizationID *int64
	Status         *domain.AssignmentStatus
}

// GetAssignmentRecords 返回与查询范围重叠、未被软删除的任职记录及其班段和冗余展示信息
func (r *Repository) GetAssignmentRecords(filter *AssignmentRecordFilter) ([]*domain.AssignmentRecord, error) {
	query := `
		SELECT
			a.id, a.worker_id, a.workplace_id, a.status, a.starts_at, a.ends_at, a.created_at, a.version,
			w.username, w.full_name,
			wp.code, wp.name,
			o.id, o.name
		FROM assignments a
		JOIN workers w ON w.id = a.worker_id
		JOIN workplaces wp ON wp.id = a.workplace_id
		JOIN organizations o ON o.id = wp.organization_id
		WHERE a.deleted_at IS NULL
			AND a.starts_at <= $2
			AND (a.ends_at IS NULL OR a.ends_at >= $1)
			AND ($3::bigint IS NULL OR a.worker_id = $3)
			AND ($4::bigint IS NULL OR wp.organization_id = $4)
			AND ($5::text IS NULL OR a.status = $5)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{filter.From, filter.To, filter.WorkerID, filter.OrganizationID, filter.Status}
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AssignmentRecord, 0)
	recordByID := make(map[int64]*domain.AssignmentRecord)
	ids := make([]int64, 0)

	for rows.Next() {
		rec := &domain.AssignmentRecord{}
		dst := []any{
			&rec.ID, &rec.WorkerID, &rec.WorkplaceID, &rec.Status, &rec.StartsAt, &rec.EndsAt, &rec.CreatedAt, &rec.Version,
			&rec.WorkerUsername, &rec.WorkerName,
			&rec.WorkplaceCode, &rec.WorkplaceName,
			&rec.OrganizationID, &rec.OrganizationName,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rec.Shifts = make([]domain.Shift, 0)
		records = append(records, rec)
		recordByID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return records, nil
	}

	shiftsQuery := `
		SELECT id, assignment_id, starts_at, ends_at, kind
		FROM assignment_shifts WHERE assignment_id = ANY($1)
		ORDER BY starts_at
	`

	shiftRows, err := r.dbpool.QueryContext(ctx, shiftsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer shiftRows.Close()

	for shiftRows.Next() {
		shift := domain.Shift{}
		if err := shiftRows.Scan(&shift.ID, &shift.AssignmentID, &shift.StartsAt, &shift.EndsAt, &shift.Kind); err != nil {
			return nil, err
		}
		if rec, exists := recordByID[shift.AssignmentID]; exists {
			rec.Shifts = append(rec.Shifts, shift)
		}
	}

	if err := shiftRows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
