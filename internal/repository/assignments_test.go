package repository

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/teamflow-dev/workforce-crm/backend/internal/config"
	"github.com/teamflow-dev/workforce-crm/backend/internal/domain"
)

// pgx 驱动支持 []int64 等切片参数，测试里放宽 sqlmock 的默认转换以对齐
type lenientConverter struct{}

func (lenientConverter) ConvertValue(v any) (driver.Value, error) {
	if converted, err := driver.DefaultParameterConverter.ConvertValue(v); err == nil {
		return converted, nil
	}
	return driver.Value(v), nil
}

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(lenientConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5
	cfg.Scheduling.OverlapCeiling = 2

	return NewRepository(cfg, db), mock
}

func TestCreateAssignmentConflictAtCeiling(t *testing.T) {
	repo, mock := newTestRepository(t)

	start := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assignments`).
		WithArgs(int64(1), string(domain.AssignmentActive), nil, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	a := &domain.Assignment{
		WorkerID:    1,
		WorkplaceID: 2,
		Status:      domain.AssignmentActive,
		StartsAt:    start,
		EndsAt:      &end,
	}

	err := repo.CreateAssignment(a)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, domain.ErrConflict, domainErr.Kind)
	// 达到上限时不允许发生任何写入
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignmentBelowCeiling(t *testing.T) {
	repo, mock := newTestRepository(t)

	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assignments`).
		WithArgs(int64(1), string(domain.AssignmentActive), nil, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO assignments`).
		WithArgs(int64(1), int64(2), string(domain.AssignmentActive), start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).AddRow(int64(7), now, int32(1)))
	mock.ExpectCommit()

	a := &domain.Assignment{
		WorkerID:    1,
		WorkplaceID: 2,
		Status:      domain.AssignmentActive,
		StartsAt:    start,
		EndsAt:      &end,
	}

	require.NoError(t, repo.CreateAssignment(a))
	require.Equal(t, int64(7), a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignmentOpenEndedOverlap(t *testing.T) {
	repo, mock := newTestRepository(t)

	start := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	// 无结束时间的建议区间以 NULL 传入，由查询按无限延伸处理
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assignments`).
		WithArgs(int64(1), string(domain.AssignmentActive), nil, start, nil).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	a := &domain.Assignment{
		WorkerID:    1,
		WorkplaceID: 2,
		Status:      domain.AssignmentActive,
		StartsAt:    start,
	}

	err := repo.CreateAssignment(a)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, domain.ErrConflict, domainErr.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}
