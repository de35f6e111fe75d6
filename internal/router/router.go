package router

import (
	"context"
	"net/http"
	"time"

	"studyos/internal/handlers/api/v1/ai"
	"studyos/internal/handlers/api/v1/analytics"
	"studyos/internal/handlers/api/v1/auth"
	"studyos/internal/handlers/api/v1/community"
	"studyos/internal/handlers/api/v1/gamification"
	"studyos/internal/handlers/api/v1/goals"
	"studyos/internal/handlers/api/v1/habits"
	"studyos/internal/handlers/api/v1/jobs"
	"studyos/internal/handlers/api/v1/payments"
	"studyos/internal/handlers/api/v1/quizzes"
	"studyos/internal/handlers/api/v1/sessions"
	"studyos/internal/handlers/api/v1/tasks"
	"studyos/internal/middleware"
	"studyos/internal/monitoring"
	"studyos/internal/realtime"
	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils/appinfo"

	_ "studyos/internal/docs" // registers the swagger spec

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 45 * time.Second

// HealthChecker reports dependency health for /health
type HealthChecker interface {
	HealthCheck(ctx context.Context) *services.ServiceHealth
}

// Options carries what the router needs besides the services
type Options struct {
	Hub             *realtime.Hub
	Metrics         *monitoring.Metrics
	ResponseBuilder *response.Builder
	Logger          *zap.Logger

	// Defaults to the service collection
	Health HealthChecker
}

// HealthResponse is the /health payload
type HealthResponse struct {
	*services.ServiceHealth
	Version string `json:"version"`
}

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(sc *services.ServiceCollection, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = sc.Logger
	}
	builder := opts.ResponseBuilder
	if builder == nil {
		builder = response.NewBuilder(response.DefaultConfig(), logger)
	}
	health := opts.Health
	if health == nil {
		health = sc
	}
	cfg := sc.Config

	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFoundHandler()
	router.MethodNotAllowedHandler = middleware.MethodNotAllowedHandler(router)
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}

	// ===============================
	// OPERATIONS
	// ===============================

	router.Handle("/health", healthHandler(health, builder)).Methods(http.MethodGet)
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	swagger := middleware.DefaultSwaggerConfig()
	swagger.Username = cfg.Server.DocsUsername
	swagger.Password = cfg.Server.DocsPassword
	router.PathPrefix("/swagger/").Handler(middleware.SwaggerHandler(swagger))

	// ===============================
	// API
	// ===============================

	authMiddleware := middleware.NewAuthMiddleware(middleware.DefaultAuthConfig(), sc.AuthService, logger)

	rateConfig := middleware.DefaultRateLimiterConfig()
	if cfg.App.RateLimitRPM > 0 {
		rateConfig.Limit = cfg.App.RateLimitRPM
	}
	rateLimit := middleware.RateLimit(middleware.NewRateLimiter(sc.Cache, rateConfig, logger))

	api := router.PathPrefix("/api").Subrouter()
	public := api.NewRoute().Subrouter()
	public.Use(rateLimit)
	protected := api.NewRoute().Subrouter()
	// user-keyed limits need the caller, so auth runs first
	protected.Use(authMiddleware.RequireAuth(), rateLimit)

	auth.NewAuthController(sc.AuthService, logger, builder, cfg.Payments.FrontendURL, cfg.IsProduction()).
		RegisterRoutes(public, protected)
	payments.NewPaymentController(sc.PaymentService, logger, builder).RegisterRoutes(public, protected)

	tasks.NewTaskController(sc.TaskService, logger, builder).RegisterRoutes(protected)
	habits.NewHabitController(sc.HabitService, logger, builder).RegisterRoutes(protected)
	goals.NewGoalController(sc.GoalService, logger, builder).RegisterRoutes(protected)
	sessions.NewSessionController(sc.SessionService, logger, builder).RegisterRoutes(protected)
	analytics.NewAnalyticsController(sc.AnalyticsService, logger, builder).RegisterRoutes(protected)
	gamification.NewGamificationController(sc.GamificationService, logger, builder).RegisterRoutes(protected)
	ai.NewAIController(sc.AIService, logger, builder).RegisterRoutes(protected)
	quizzes.NewQuizController(sc.QuizService, logger, builder).RegisterRoutes(protected)
	jobs.NewJobController(sc.JobService, logger, builder).RegisterRoutes(protected)

	var streamer community.GroupStreamer
	if opts.Hub != nil {
		streamer = opts.Hub
	}
	community.NewCommunityController(sc.CommunityService, streamer, logger, builder).RegisterRoutes(protected)

	// ===============================
	// GLOBAL MIDDLEWARE
	// ===============================

	security := middleware.DefaultSecurityConfig()
	if !cfg.IsProduction() {
		security = middleware.DevelopmentSecurityConfig()
	}
	recovery := &middleware.RecoveryConfig{ExposePanic: !cfg.IsProduction()}
	if opts.Metrics != nil {
		recovery.OnPanic = func(*http.Request) { opts.Metrics.HTTPPanics.Inc() }
	}
	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	handler := middleware.Chain(router,
		chimw.RealIP,
		chimw.Heartbeat("/ping"),
		middleware.RequestID(logger),
		middleware.StructuredLogging(middleware.DefaultLoggingConfig()),
		middleware.Recovery(recovery, logger),
		middleware.SecurityHeaders(security),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins)),
		response.Middleware(builder),
		middleware.SkipWebsocket(chimw.Compress(5)),
		middleware.SkipWebsocket(chimw.Timeout(timeout)),
		middleware.ValidateRequest(middleware.DefaultValidationConfig()),
	)

	logger.Info("Router setup completed",
		zap.Bool("realtime", opts.Hub != nil),
		zap.Bool("metrics", opts.Metrics != nil),
		zap.String("version", appinfo.GetVersion()),
	)
	return handler
}

func healthHandler(health HealthChecker, builder *response.Builder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := health.HealthCheck(r.Context())
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		builder.WriteJSON(w, r, builder.Success(r.Context(), HealthResponse{
			ServiceHealth: status,
			Version:       appinfo.GetVersion(),
		}), code)
	})
}
