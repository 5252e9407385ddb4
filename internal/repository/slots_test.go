package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "worker_id", "organization_id", "date_start", "date_end",
		"status", "locked", "note", "color_code", "created_at", "version",
	})
}

func TestBulkMoveSlotsAbortsOnLockedSlot(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM plan_slots`).
		WillReturnRows(slotRows().
			AddRow(int64(1), int64(10), int64(20), now, now, string(domain.SlotPlanned), false, "", "HQ", now, int32(1)).
			AddRow(int64(2), int64(11), int64(20), now, now, string(domain.SlotPlanned), true, "", "HQ", now, int32(1)))
	mock.ExpectRollback()

	newStart := now.AddDate(0, 0, 1)
	slots, err := repo.BulkMoveSlots(5, []int64{1, 2}, &SlotMove{DateStart: &newStart, DateEnd: &newStart})
	require.Nil(t, slots)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, domain.ErrForbidden, domainErr.Kind)
	// 批次中有锁定记录时不能发生任何 UPDATE
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkMoveSlotsUpdatesWholeBatch(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	newStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM plan_slots`).
		WillReturnRows(slotRows().
			AddRow(int64(1), int64(10), int64(20), now, now, string(domain.SlotPlanned), false, "", "HQ", now, int32(1)).
			AddRow(int64(2), int64(11), int64(20), now, now, string(domain.SlotPlanned), false, "", "HQ", now, int32(1)))
	mock.ExpectQuery(`UPDATE plan_slots`).
		WithArgs(int64(10), int64(20), newStart, newEnd, int64(1), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int32(2)))
	mock.ExpectQuery(`UPDATE plan_slots`).
		WithArgs(int64(11), int64(20), newStart, newEnd, int64(2), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int32(2)))
	mock.ExpectCommit()

	slots, err := repo.BulkMoveSlots(5, []int64{1, 2}, &SlotMove{DateStart: &newStart, DateEnd: &newEnd})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.Equal(t, newStart, slots[0].DateStart)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkMoveSlotsRejectsInvertedDates(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM plan_slots`).
		WillReturnRows(slotRows().
			AddRow(int64(1), int64(10), int64(20), now, now, string(domain.SlotPlanned), false, "", "HQ", now, int32(1)))
	mock.ExpectRollback()

	slots, err := repo.BulkMoveSlots(5, []int64{1}, &SlotMove{DateEnd: &newEnd})
	require.Nil(t, slots)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, domain.ErrBadRequest, domainErr.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}
