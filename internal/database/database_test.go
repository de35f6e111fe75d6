package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateMigrationFileNumbersSequentially(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init.up.sql"), []byte("--"), 0644))

	up, down, err := CreateMigrationFile(dir, "add notes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "000002_add_notes.up.sql"), up)
	assert.Equal(t, filepath.Join(dir, "000002_add_notes.down.sql"), down)
	assert.FileExists(t, up)
	assert.FileExists(t, down)
}

func TestExecuteTransactionRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewManagerFromDB(db, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = ExecuteTransaction(context.Background(), m, func(_ *sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckHealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	m := NewManagerFromDB(db, nil, zap.NewNop())

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	status := m.Health(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Empty(t, status.Errors)
	assert.NoError(t, mock.ExpectationsWereMet())
}
