// file: internal/services/service_collection.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyos/internal/ai"
	"studyos/internal/cache"
	"studyos/internal/catalog"
	"studyos/internal/config"
	"studyos/internal/database"
	"studyos/internal/events"
	"studyos/internal/payments"
	"studyos/internal/repositories"
	"studyos/internal/storage"

	"go.uber.org/zap"
)

// ServiceCollection wires every service with its dependencies
type ServiceCollection struct {
	// Core Services
	AuthService         AuthService
	TaskService         TaskService
	HabitService        HabitService
	GoalService         GoalService
	SessionService      SessionService
	GamificationService GamificationService
	AnalyticsService    AnalyticsService
	CommunityService    CommunityService
	AIService           AIService
	PaymentService      PaymentService
	QuizService         QuizService
	JobService          JobService

	// Repository Collection
	Repositories *repositories.Collection

	// Infrastructure Components
	Cache     cache.Cache
	EventBus  events.EventBus
	Catalog   *catalog.Catalog
	Tokens    *TokenManager
	Logger    *zap.Logger
	Config    *config.Config
	DBManager *database.Manager

	startTime time.Time
}

// ServiceHealth represents the health status of the service collection
type ServiceHealth struct {
	Status       string                   `json:"status"`
	Timestamp    time.Time                `json:"timestamp"`
	Uptime       string                   `json:"uptime"`
	Dependencies map[string]ServiceStatus `json:"dependencies"`
	Features     map[string]bool          `json:"features"`
	Issues       []string                 `json:"issues,omitempty"`
}

// ServiceStatus represents the status of one dependency
type ServiceStatus struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"` // healthy, unhealthy
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
}

// NewServiceCollection builds infrastructure, repositories and services in dependency order
func NewServiceCollection(
	dbManager *database.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		DBManager: dbManager,
		Config:    cfg,
		Logger:    logger,
		startTime: time.Now(),
	}

	if err := sc.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	repos, err := repositories.NewCollection(dbManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository collection: %w", err)
	}
	sc.Repositories = repos

	if err := sc.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("Service collection initialized successfully")
	return sc, nil
}

// ===============================
// INITIALIZATION METHODS
// ===============================

func (sc *ServiceCollection) initializeInfrastructure() error {
	sc.Logger.Info("Initializing infrastructure components")

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Provider = sc.Config.Cache.Provider
	cacheCfg.RedisURL = sc.Config.Cache.RedisURL
	if sc.Config.Cache.DefaultTTL > 0 {
		cacheCfg.TTL = sc.Config.Cache.DefaultTTL
	}
	c, err := cache.NewCache(cacheCfg, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	sc.Cache = c

	sc.EventBus = events.NewEventBus(events.DefaultEventBusConfig(), sc.Logger)

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	sc.Catalog = cat

	sc.Tokens = NewTokenManager(sc.Config.Auth.JWTSecret, sc.Config.Auth.JWTExpiry)

	sc.Logger.Info("Infrastructure components initialized",
		zap.String("cache_provider", cacheCfg.Provider),
		zap.Int("quizzes", len(cat.Quizzes())),
	)
	return nil
}

func (sc *ServiceCollection) initializeServices() error {
	cfg := sc.Config
	repos := sc.Repositories
	loc := cfg.App.Location

	// Optional integrations degrade to 503 responses when not configured
	var aiClient ai.Client
	if client, err := ai.NewClient(cfg.AI, sc.Logger); err == nil {
		aiClient = client
	} else if !errors.Is(err, ai.ErrDisabled) {
		return fmt.Errorf("failed to initialize AI client: %w", err)
	} else {
		sc.Logger.Warn("AI features disabled: OPENAI_API_KEY not set")
	}

	var gateway payments.Gateway
	if g, err := payments.NewStripeGateway(cfg.Payments, sc.Logger); err == nil {
		gateway = g
	} else if !errors.Is(err, payments.ErrNotConfigured) {
		return fmt.Errorf("failed to initialize payments: %w", err)
	} else {
		sc.Logger.Warn("Payments disabled: STRIPE_SECRET_KEY not set")
	}

	var avatars storage.AvatarStore
	if store, err := storage.NewCloudinaryStore(cfg.Storage, sc.Logger); err == nil {
		avatars = store
	} else if !errors.Is(err, storage.ErrNotConfigured) {
		return fmt.Errorf("failed to initialize avatar storage: %w", err)
	} else {
		sc.Logger.Warn("Avatar uploads disabled: CLOUDINARY_URL not set")
	}

	google := NewGoogleProvider(cfg.Auth)

	sc.GamificationService = NewGamificationService(GamificationDeps{
		Users:    repos.User,
		Tasks:    repos.Task,
		Sessions: repos.Session,
		Badges:   repos.Badge,
		Tx:       repos.Tx,
		Cache:    sc.Cache,
		EventBus: sc.EventBus,
	}, loc, cfg.Cache.LeaderboardTTL, sc.Logger)

	sc.AuthService = NewAuthService(AuthDeps{
		Users:    repos.User,
		Tokens:   repos.RefreshToken,
		Tx:       repos.Tx,
		JWT:      sc.Tokens,
		Google:   google,
		Avatars:  avatars,
		EventBus: sc.EventBus,
	}, cfg.Auth, sc.Logger)

	sc.TaskService = NewTaskService(repos.Task, repos.User, repos.Tx, sc.GamificationService, sc.EventBus, sc.Logger)
	sc.HabitService = NewHabitService(repos.Habit, repos.User, repos.Tx, cfg.App.FreeHabitLimit, loc, sc.Logger)
	sc.GoalService = NewGoalService(repos.Goal, sc.Logger)

	sc.SessionService = NewSessionService(SessionDeps{
		Sessions:     repos.Session,
		Users:        repos.User,
		Tasks:        repos.Task,
		Tx:           repos.Tx,
		Gamification: sc.GamificationService,
		EventBus:     sc.EventBus,
	}, loc, sc.Logger)

	sc.AnalyticsService = NewAnalyticsService(repos.Analytics, repos.Session, loc, sc.Logger)
	sc.CommunityService = NewCommunityService(repos.Community, sc.EventBus, sc.Logger)

	sc.AIService = NewAIService(AIDeps{
		Client:   aiClient,
		Users:    repos.User,
		Tasks:    repos.Task,
		Sessions: repos.Session,
		Insights: repos.Insight,
		Notes:    repos.Note,
		Catalog:  sc.Catalog,
		Cache:    sc.Cache,
	}, cfg.Cache.DefaultTTL, sc.Logger)

	sc.PaymentService = NewPaymentService(gateway, repos.User, sc.EventBus, sc.Logger)
	sc.QuizService = NewQuizService(sc.Catalog, repos.QuizAttempt, sc.GamificationService, sc.Logger)
	sc.JobService = NewJobService(sc.Catalog, sc.Logger)

	sc.Logger.Info("All services initialized",
		zap.Bool("ai_enabled", aiClient != nil),
		zap.Bool("payments_enabled", gateway != nil),
		zap.Bool("avatars_enabled", avatars != nil),
		zap.Bool("google_enabled", google != nil),
	)
	return nil
}

// ===============================
// HEALTH
// ===============================

// HealthCheck reports database and cache reachability
func (sc *ServiceCollection) HealthCheck(ctx context.Context) *ServiceHealth {
	health := &ServiceHealth{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Uptime:       time.Since(sc.startTime).Round(time.Second).String(),
		Dependencies: make(map[string]ServiceStatus),
		Features: map[string]bool{
			"ai":       sc.Config.AI.Enabled(),
			"payments": sc.Config.Payments.StripeSecretKey != "",
			"avatars":  sc.Config.Storage.CloudinaryURL != "",
			"google":   sc.Config.Auth.GoogleEnabled(),
		},
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dbStart := time.Now()
	dbHealth := sc.DBManager.Health(checkCtx)
	db := ServiceStatus{Name: "database", Status: dbHealth.Status, ResponseTime: time.Since(dbStart)}
	if dbHealth.Status != database.StatusHealthy && len(dbHealth.Errors) > 0 {
		db.Error = dbHealth.Errors[0]
	}
	health.Dependencies["database"] = db

	cacheStart := time.Now()
	cacheStatus := ServiceStatus{Name: "cache", Status: "healthy"}
	if err := sc.Cache.Health(checkCtx); err != nil {
		cacheStatus.Status = "unhealthy"
		cacheStatus.Error = err.Error()
	}
	cacheStatus.ResponseTime = time.Since(cacheStart)
	health.Dependencies["cache"] = cacheStatus

	for name, dep := range health.Dependencies {
		if dep.Status != "healthy" {
			health.Status = "unhealthy"
			health.Issues = append(health.Issues, fmt.Sprintf("%s: %s", name, dep.Error))
		}
	}
	return health
}

// ===============================
// LIFECYCLE
// ===============================

// Start launches background workers and seeds default data
func (sc *ServiceCollection) Start(ctx context.Context) error {
	sc.Logger.Info("Starting service collection")

	if err := sc.EventBus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	if err := sc.CommunityService.EnsureDefaultGroups(ctx); err != nil {
		sc.Logger.Warn("Failed to seed default groups", zap.Error(err))
	}

	sc.Logger.Info("Service collection started successfully")
	return nil
}

// Shutdown stops background workers and closes connections
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")

	var shutdownErrors []error
	if err := sc.EventBus.Stop(ctx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("event bus shutdown: %w", err))
	}
	if err := sc.Cache.Close(); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("cache close: %w", err))
	}
	if err := sc.DBManager.Close(); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
	}

	if len(shutdownErrors) > 0 {
		sc.Logger.Error("Errors occurred during shutdown",
			zap.Int("error_count", len(shutdownErrors)),
		)
		return errors.Join(shutdownErrors...)
	}

	sc.Logger.Info("Service collection shutdown completed successfully")
	return nil
}
