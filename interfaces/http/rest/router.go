package rest

import (
	"context"
	"net/http"
	"time"

	"astroguia-backend/application/commands/bus"
	querybus "astroguia-backend/application/queries/bus"
	"astroguia-backend/interfaces/http/rest/handlers"
	"astroguia-backend/interfaces/http/rest/middleware"
	"astroguia-backend/pkg/common"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// RouterConfig holds the transport settings of the router
type RouterConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus    *bus.CommandBus
	queryBus      *querybus.QueryBus
	authenticator *middleware.Authenticator
	errorHandler  *pkgerrors.ErrorHandler
	recorder      middleware.HTTPRecorder
	metrics       http.Handler
	readiness     map[string]ReadinessCheck
	now           func() time.Time
	cfg           RouterConfig
	logger        *zap.Logger
}

// NewRouter creates a new router instance. metricsHandler may be nil
// when metrics are disabled.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	authenticator *middleware.Authenticator,
	errorHandler *pkgerrors.ErrorHandler,
	recorder middleware.HTTPRecorder,
	metricsHandler http.Handler,
	cfg RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:    commandBus,
		queryBus:      queryBus,
		authenticator: authenticator,
		errorHandler:  errorHandler,
		recorder:      recorder,
		metrics:       metricsHandler,
		readiness:     make(map[string]ReadinessCheck),
		now:           time.Now,
		cfg:           cfg,
		logger:        logger,
	}
}

// AddReadinessCheck registers a dependency checked by /ready
func (rt *Router) AddReadinessCheck(name string, check ReadinessCheck) {
	rt.readiness[name] = check
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.recorder != nil {
		router.Use(middleware.Metrics(rt.recorder))
	}
	if rt.cfg.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(rt.cfg.RequestTimeout))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authenticator.Middleware)

		r.Route("/charts", func(r chi.Router) {
			chartHandler := handlers.NewChartHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
			r.Post("/", chartHandler.GenerateChart)
			r.Get("/", chartHandler.ListCharts)
			r.Get("/{chartID}", chartHandler.GetChart)
		})

		contentHandler := handlers.NewContentHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.now, rt.logger)
		r.Get("/horoscopes/{sign}/daily", contentHandler.DailyHoroscope)
		r.Get("/moon-phase", contentHandler.MoonPhase)
		r.Get("/cosmic-events", contentHandler.CosmicEvents)
		r.Get("/compatibility", contentHandler.Compatibility)
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", contentHandler.Articles)
			r.Get("/categories", contentHandler.ArticleCategories)
			r.Get("/featured", contentHandler.FeaturedArticles)
			r.Get("/{articleID}", contentHandler.Article)
		})

		r.Route("/me", func(r chi.Router) {
			profileHandler := handlers.NewProfileHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
			r.Get("/", profileHandler.GetProfile)
			r.Put("/", profileHandler.UpdateProfile)
			r.Put("/birth-details", profileHandler.UpdateBirthDetails)
			r.Put("/preferences", profileHandler.UpdatePreferences)
			r.Get("/onboarding", profileHandler.OnboardingStatus)
			r.Post("/onboarding", profileHandler.CompleteOnboarding)
			r.Get("/favorites/{itemType}", profileHandler.ListFavorites)
			r.Put("/favorites/{itemType}/{itemID}", profileHandler.SaveFavorite)
			r.Delete("/favorites/{itemType}/{itemID}", profileHandler.RemoveFavorite)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck checks every registered dependency
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(rt.readiness))
	status := http.StatusOK
	for name, check := range rt.readiness {
		if err := check(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	common.RespondJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}
