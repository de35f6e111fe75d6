package database

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Health check statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the current health status of the database
type HealthStatus struct {
	Status          string        `json:"status"`
	Timestamp       time.Time     `json:"timestamp"`
	ResponseTime    time.Duration `json:"response_time"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Errors          []string      `json:"errors,omitempty"`
}

// HealthChecker pings the database on demand and on an interval
type HealthChecker struct {
	manager  *Manager
	logger   *zap.Logger
	interval time.Duration

	mu      sync.RWMutex
	last    *HealthStatus
	stopCh  chan struct{}
	stopped chan struct{}
	running bool
}

// NewHealthChecker creates a checker; monitoring starts with StartMonitoring
func NewHealthChecker(manager *Manager, interval time.Duration, logger *zap.Logger) *HealthChecker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &HealthChecker{
		manager:  manager,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Check pings the database and a trivial query
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	status := &HealthStatus{Status: StatusHealthy, Timestamp: start}

	db := h.manager.DB()
	if err := db.PingContext(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, "ping failed: "+err.Error())
	} else {
		var one int
		if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			status.Status = StatusDegraded
			status.Errors = append(status.Errors, "query failed: "+err.Error())
		}
	}

	stats := db.Stats()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.ResponseTime = time.Since(start)

	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections && status.Status == StatusHealthy {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, "connection pool exhausted")
	}

	OpenConnections.Set(float64(stats.OpenConnections))
	if status.Status == StatusHealthy {
		HealthStatusGauge.Set(1)
	} else {
		HealthStatusGauge.Set(0)
	}

	h.mu.Lock()
	h.last = status
	h.mu.Unlock()

	return status
}

// Last returns the most recent status, or nil before the first check
func (h *HealthChecker) Last() *HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// StartMonitoring launches the background loop once
func (h *HealthChecker) StartMonitoring() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go func() {
		defer close(h.stopped)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				status := h.Check(context.Background())
				if status.Status != StatusHealthy {
					h.logger.Warn("Database health degraded",
						zap.String("status", status.Status),
						zap.Strings("errors", status.Errors),
					)
				}
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop ends the monitoring loop if it is running
func (h *HealthChecker) Stop() {
	h.mu.Lock()
	running := h.running
	h.running = false
	h.mu.Unlock()

	if !running {
		return
	}
	close(h.stopCh)
	<-h.stopped
}
