package repository

import (
	"time"

	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func (r *Repository) GetSlotByID(planID, slotID int64) (*domain.Slot, error) {
	query := `
		SELECT worker_id, organization_id, date_start, date_end, status, locked, note, color_code, created_at, version
		FROM plan_slots WHERE id = $1 AND plan_id = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	slot := &domain.Slot{
		ID:     slotID,
		PlanID: planID,
	}

	dst := []any{&slot.WorkerID, &slot.OrganizationID, &slot.DateStart, &slot.DateEnd, &slot.Status, &slot.Locked, &slot.Note, &slot.ColorCode, &slot.CreatedAt, &slot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, slotID, planID).Scan(dst...); err != nil {
		return nil, err
	}

	return slot, nil
}

// GetSlotsOverlappingRange 返回该排班活动下与 [from, to] 重叠的所有排班记录
func (r *Repository) GetSlotsOverlappingRange(planID int64, from, to time.Time) ([]*domain.Slot, error) {
	query := `
		SELECT id, worker_id, organization_id, date_start, date_end, status, locked, note, color_code, created_at, version
		FROM plan_slots
		WHERE plan_id = $1 AND date_start <= $3 AND date_end >= $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, planID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot := &domain.Slot{PlanID: planID}
		dst := []any{&slot.ID, &slot.WorkerID, &slot.OrganizationID, &slot.DateStart, &slot.DateEnd, &slot.Status, &slot.Locked, &slot.Note, &slot.ColorCode, &slot.CreatedAt, &slot.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// InsertSlots 在一个事务中写入一批排班记录，任何一条失败都整体回滚
func (r *Repository) InsertSlots(slots []*domain.Slot) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO plan_slots (plan_id, worker_id, organization_id, date_start, date_end, status, locked, note, color_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`

	for _, slot := range slots {
		args := []any{slot.PlanID, slot.WorkerID, slot.OrganizationID, slot.DateStart, slot.DateEnd, slot.Status, slot.Locked, slot.Note, slot.ColorCode}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt, &slot.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SlotMove 描述批量移动时要修改的字段，为空的字段保持不变
type SlotMove struct {
	DateStart      *time.Time
	DateEnd        *time.Time
	OrganizationID *int64
	WorkerID       *int64
}

// BulkMoveSlots 在一个事务中移动一批排班记录
// 批次中只要有一条被锁定就整体失败，不写入任何修改
func (r *Repository) BulkMoveSlots(planID int64, slotIDs []int64, move *SlotMove) ([]*domain.Slot, error) {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT id, worker_id, organization_id, date_start, date_end, status, locked, note, color_code, created_at, version
		FROM plan_slots
		WHERE plan_id = $1 AND id = ANY($2)
		FOR UPDATE
	`

	rows, err := tx.QueryContext(ctx, query, planID, slotIDs)
	if err != nil {
		return nil, err
	}

	slots := make([]*domain.Slot, 0, len(slotIDs))
	for rows.Next() {
		slot := &domain.Slot{PlanID: planID}
		dst := []any{&slot.ID, &slot.WorkerID, &slot.OrganizationID, &slot.DateStart, &slot.DateEnd, &slot.Status, &slot.Locked, &slot.Note, &slot.ColorCode, &slot.CreatedAt, &slot.Version}
		if err := rows.Scan(dst...); err != nil {
			rows.Close()
			return nil, err
		}
		slots = append(slots, slot)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(slots) != len(slotIDs) {
		return nil, domain.NewNotFound("部分排班记录不存在")
	}

	// 先整体检查锁定状态，再写入任何修改
	for _, slot := range slots {
		if slot.Locked {
			return nil, domain.NewForbidden("批次中存在被锁定的排班记录，本次移动已整体取消")
		}
	}

	updateQuery := `
		UPDATE plan_slots
		SET
			worker_id = $1,
			organization_id = $2,
			date_start = $3,
			date_end = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	for _, slot := range slots {
		if move.DateStart != nil {
			slot.DateStart = *move.DateStart
		}
		if move.DateEnd != nil {
			slot.DateEnd = *move.DateEnd
		}
		if move.OrganizationID != nil {
			slot.OrganizationID = *move.OrganizationID
		}
		if move.WorkerID != nil {
			slot.WorkerID = *move.WorkerID
		}

		if slot.DateEnd.Before(slot.DateStart) {
			return nil, domain.NewBadRequest("排班记录的结束日期不能早于开始日期")
		}

		args := []any{slot.WorkerID, slot.OrganizationID, slot.DateStart, slot.DateEnd, slot.ID, slot.Version}
		if err := tx.QueryRowContext(ctx, updateQuery, args...).Scan(&slot.Version); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *Repository) UpdateSlot(slot *domain.Slot) error {
	query := `
		UPDATE plan_slots
		SET
			worker_id = $1,
			organization_id = $2,
			date_start = $3,
			date_end = $4,
			status = $5,
			locked = $6,
			note = $7,
			color_code = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{slot.WorkerID, slot.OrganizationID, slot.DateStart, slot.DateEnd, slot.Status, slot.Locked, slot.Note, slot.ColorCode, slot.ID, slot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&slot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSlot(id int64) error {
	query := `
		DELETE FROM plan_slots WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
