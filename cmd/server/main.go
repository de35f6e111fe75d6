// @title           StudyOS API
// @version         1.0.0
// @description     REST backend for StudyOS: tasks, habits, goals, study sessions, gamification, community and AI coaching.

// @contact.name   StudyOS API Support
// @contact.email  api-support@studyos.app

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:9000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studyos/internal/config"
	"studyos/internal/database"
	"studyos/internal/monitoring"
	"studyos/internal/realtime"
	"studyos/internal/response"
	"studyos/internal/router"
	"studyos/internal/services"
	"studyos/internal/utils/appinfo"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting StudyOS",
		zap.String("version", appinfo.GetVersion()),
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Server.Port),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
	logger.Info("Application shutdown completed")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.StartupTimeout+10*time.Second)
	defer cancel()

	// Initialize database
	dbManager, err := database.InitDB(startCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	serviceCollection, err := services.NewServiceCollection(dbManager, cfg, logger)
	if err != nil {
		dbManager.Close()
		return fmt.Errorf("create services: %w", err)
	}

	abort := func(err error) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		serviceCollection.Shutdown(ctx)
		return err
	}

	// Realtime fan-out for group chat
	hub := realtime.NewHub(&realtime.Config{AllowedOrigins: cfg.Server.CORSOrigins}, logger.Named("realtime"))
	if err := hub.Subscribe(serviceCollection.EventBus); err != nil {
		return abort(fmt.Errorf("subscribe realtime hub: %w", err))
	}

	// Prometheus collectors
	metrics := monitoring.NewMetrics()
	if err := metrics.Subscribe(serviceCollection.EventBus); err != nil {
		return abort(fmt.Errorf("subscribe metrics: %w", err))
	}
	if err := metrics.RegisterCacheStats(serviceCollection.Cache); err != nil {
		logger.Warn("Cache stats unavailable", zap.Error(err))
	}
	if err := metrics.RegisterEventBusStats(serviceCollection.EventBus); err != nil {
		logger.Warn("Event bus stats unavailable", zap.Error(err))
	}

	if err := serviceCollection.Start(context.Background()); err != nil {
		return abort(fmt.Errorf("start services: %w", err))
	}

	handler := router.SetupRouter(serviceCollection, router.Options{
		Hub:             hub,
		Metrics:         metrics,
		ResponseBuilder: response.NewBuilder(response.DefaultConfig(), logger),
		Logger:          logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown setup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", server.Addr),
			zap.Bool("ai_enabled", cfg.AI.Enabled()),
			zap.Bool("google_enabled", cfg.Auth.GoogleEnabled()),
			zap.Bool("payments_enabled", cfg.Payments.StripeSecretKey != ""),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("Shutting down application...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server shutdown completed")
	}

	// websockets are hijacked and not tracked by Shutdown
	hub.Close()

	if err := serviceCollection.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown failed", zap.Error(err))
	}
	return runErr
}

// initLogger builds the zap logger from LOG_LEVEL and LOG_FORMAT
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json":
		zapConfig.Encoding = "json"
		zapConfig.EncoderConfig = zap.NewProductionEncoderConfig()
	case "console":
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.InfoLevel
	if cfg.Logging.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build(zap.Fields(zap.String("service", "studyos")))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
