package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studyos/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// InitDB creates the manager, applies migrations and waits until the database is healthy
func InitDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("🚀 Initializing database", zap.String("environment", cfg.Environment))

	var manager *Manager
	connect := func() error {
		m, err := NewManager(&cfg.Database, logger)
		if err != nil {
			return err
		}
		manager = m
		return nil
	}
	if err := retryStartup(ctx, cfg.Database.StartupTimeout, "connect", connect, logger); err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	if cfg.Database.AutoMigrate {
		migrationsPath := DetermineMigrationsPath(cfg.Database.MigrationsPath)
		logger.Info("Using migrations path", zap.String("path", migrationsPath))

		migrateOp := func() error {
			err := manager.Migrate(migrationsPath)
			if err != nil && strings.Contains(err.Error(), "dirty state") {
				return backoff.Permanent(err)
			}
			return err
		}
		if err := retryStartup(ctx, cfg.Database.StartupTimeout, "migrate", migrateOp, logger); err != nil {
			manager.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	healthy := func() error {
		status := manager.Health(ctx)
		if status.Status != StatusHealthy {
			return fmt.Errorf("database %s: %s", status.Status, strings.Join(status.Errors, "; "))
		}
		return nil
	}
	if err := retryStartup(ctx, cfg.Database.StartupTimeout, "health", healthy, logger); err != nil {
		manager.Close()
		return nil, fmt.Errorf("database failed to become healthy: %w", err)
	}

	manager.StartMonitoring()

	stats := manager.Stats()
	logger.Info("🎉 Database initialized",
		zap.Int("max_open_connections", stats.MaxOpenConnections),
		zap.Int("open_connections", stats.OpenConnections),
	)
	return manager, nil
}

// retryStartup retries op with exponential backoff until it succeeds or maxElapsed passes
func retryStartup(ctx context.Context, maxElapsed time.Duration, step string, op func() error, logger *zap.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	if maxElapsed > 0 {
		b.MaxElapsedTime = maxElapsed
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Database startup step failed, retrying",
			zap.String("step", step),
			zap.Error(err),
			zap.Duration("retry_in", wait),
		)
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

// DetermineMigrationsPath returns the first existing migrations directory
func DetermineMigrationsPath(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	paths := []string{
		"./migrations",
		"../migrations",
		"../../migrations",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return "./migrations"
}

// ExecuteTransaction runs fn inside a transaction on db, rolling back on error or panic
func ExecuteTransaction(ctx context.Context, m *Manager, fn func(*sql.Tx) error) error {
	tx, err := m.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateMigrationFile writes an empty up/down pair using the sequential naming golang-migrate expects
func CreateMigrationFile(dir, name string) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	next := 1
	matches, _ := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	for _, match := range matches {
		var n int
		if _, err := fmt.Sscanf(filepath.Base(match), "%d_", &n); err == nil && n >= next {
			next = n + 1
		}
	}

	baseName := fmt.Sprintf("%06d_%s", next, strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	upFile := filepath.Join(dir, baseName+".up.sql")
	downFile := filepath.Join(dir, baseName+".down.sql")

	created := time.Now().Format(time.RFC3339)
	if err := os.WriteFile(upFile, []byte(fmt.Sprintf("-- Migration: %s\n-- Created: %s\n", name, created)), 0644); err != nil {
		return "", "", fmt.Errorf("failed to create up migration file: %w", err)
	}
	if err := os.WriteFile(downFile, []byte(fmt.Sprintf("-- Rollback: %s\n-- Created: %s\n", name, created)), 0644); err != nil {
		return "", "", fmt.Errorf("failed to create down migration file: %w", err)
	}
	return upFile, downFile, nil
}
