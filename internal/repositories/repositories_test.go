package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyos/internal/database"
	"studyos/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMock(t *testing.T) (*database.Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewManagerFromDB(db, nil, zap.NewNop()), mock
}

func TestBadgeAwardReportsOnlyNewRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBadgeRepository(db, zap.NewNop())

	mock.ExpectExec("INSERT INTO user_badges").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_badges").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.Award(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.Award(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.False(t, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudySessionCreateMapsActiveIndexViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudySessionRepository(db, zap.NewNop())

	mock.ExpectQuery("INSERT INTO study_sessions").
		WillReturnError(&pq.Error{Code: "23505", Constraint: activeSessionConstraint})

	err := repo.Create(context.Background(), &models.StudySession{UserID: 1, Subject: "Math"})
	assert.ErrorIs(t, err, ErrActiveSessionExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransactionSharesTx(t *testing.T) {
	db, mock := newMock(t)
	base := NewBaseRepository(db, zap.NewNop())
	users := NewUserRepository(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := base.WithinTransaction(context.Background(), func(ctx context.Context) error {
		u, err := users.GetByIDForUpdate(ctx, 1)
		assert.Nil(t, u)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransactionRollsBack(t *testing.T) {
	db, mock := newMock(t)
	base := NewBaseRepository(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := base.WithinTransaction(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStatsScansAggregates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudySessionRepository(db, zap.NewNop())

	end := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COALESCE\\(SUM\\(duration\\), 0\\), MAX\\(end_time\\)").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "max"}).AddRow(3, 5400, end))

	stats, err := repo.Stats(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 5400, stats.TotalSeconds)
	require.NotNil(t, stats.LastSessionEnd)
	assert.True(t, end.Equal(*stats.LastSessionEnd))
}

func TestTaskListBuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db, zap.NewNop())

	mock.ExpectQuery("WHERE user_id = \\$1 AND status = \\$2 ORDER BY created_at DESC LIMIT \\$3").
		WithArgs(int64(9), models.TaskCompleted, 200).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tasks, err := repo.List(context.Background(), 9, TaskFilter{Status: models.TaskCompleted})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
