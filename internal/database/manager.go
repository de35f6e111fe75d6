package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"studyos/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Manager wraps the connection pool with query metrics, slow query logging and health checks
type Manager struct {
	db     *sql.DB
	logger *zap.Logger
	health *HealthChecker
	config *config.DatabaseConfig
	mu     sync.RWMutex
}

// NewManager opens a postgres pool and verifies it with a ping
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	configureConnectionPool(db, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("✅ Database pool ready",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
	)

	return NewManagerFromDB(db, cfg, logger), nil
}

// NewManagerFromDB wraps an already opened pool
func NewManagerFromDB(db *sql.DB, cfg *config.DatabaseConfig, logger *zap.Logger) *Manager {
	if cfg == nil {
		cfg = &config.DatabaseConfig{SlowQueryThreshold: 500 * time.Millisecond, HealthCheckInterval: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		db:     db,
		logger: logger,
		config: cfg,
	}
	m.health = NewHealthChecker(m, cfg.HealthCheckInterval, logger)
	return m
}

func configureConnectionPool(db *sql.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// DB returns the underlying pool
func (m *Manager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// ===============================
// MIGRATIONS
// ===============================

// newMigrator opens a dedicated connection so closing the migrator leaves the main pool alone
func (m *Manager) newMigrator(migrationsPath string) (*migrate.Migrate, func(), error) {
	migrationDB, err := sql.Open("postgres", m.config.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		migrationDB.Close()
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	cleanup := func() {
		migrator.Close()
		migrationDB.Close()
	}
	return migrator, cleanup, nil
}

// Migrate applies all pending up migrations
func (m *Manager) Migrate(migrationsPath string) error {
	migrator, cleanup, err := m.newMigrator(migrationsPath)
	if err != nil {
		return err
	}
	defer cleanup()

	currentVersion, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		m.logger.Warn("Database is in dirty state", zap.Uint("version", currentVersion))
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.Info("Migrations completed",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
	)
	return nil
}

// MigrateDown rolls back the given number of migrations
func (m *Manager) MigrateDown(migrationsPath string, steps int) error {
	migrator, cleanup, err := m.newMigrator(migrationsPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if steps <= 0 {
		steps = 1
	}
	if err := migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version
func (m *Manager) MigrationVersion(migrationsPath string) (uint, bool, error) {
	migrator, cleanup, err := m.newMigrator(migrationsPath)
	if err != nil {
		return 0, false, err
	}
	defer cleanup()

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// ===============================
// QUERY WRAPPERS
// ===============================

func (m *Manager) observe(op, query string, start time.Time, err error) {
	duration := time.Since(start)
	recordQuery(op, duration, err)

	if duration > m.config.SlowQueryThreshold && m.config.SlowQueryThreshold > 0 {
		m.logger.Warn("Slow query detected",
			zap.String("type", op),
			zap.Duration("duration", duration),
			zap.String("query", truncateQuery(query)),
		)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		m.logger.Error("Query execution failed",
			zap.String("type", op),
			zap.Error(err),
			zap.String("query", truncateQuery(query)),
		)
	}
}

// ExecContext executes a statement with metrics
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := m.db.ExecContext(ctx, query, args...)
	m.observe("exec", query, start, err)
	return result, err
}

// QueryContext executes a query with metrics
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := m.db.QueryContext(ctx, query, args...)
	m.observe("query", query, start, err)
	return rows, err
}

// QueryRowContext executes a single-row query with metrics
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := m.db.QueryRowContext(ctx, query, args...)
	m.observe("query_row", query, start, nil)
	return row
}

// BeginTx starts a new transaction
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := m.db.BeginTx(ctx, opts)
	m.observe("begin_tx", "BEGIN", start, err)
	return tx, err
}

// Health returns the current health status
func (m *Manager) Health(ctx context.Context) *HealthStatus {
	return m.health.Check(ctx)
}

// StartMonitoring runs periodic health checks until Close
func (m *Manager) StartMonitoring() {
	m.health.StartMonitoring()
}

// Close stops monitoring and closes the pool
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.health != nil {
		m.health.Stop()
	}
	if m.db != nil {
		m.logger.Info("Closing database connection")
		return m.db.Close()
	}
	return nil
}

// Stats returns pool statistics
func (m *Manager) Stats() sql.DBStats {
	return m.db.Stats()
}

func truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}
