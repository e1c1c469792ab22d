package rest

import (
	"context"
	"net/http"
	"time"

	"dreamspeak/docs"
	"dreamspeak/infrastructure/config"
	"dreamspeak/infrastructure/observability"
	"dreamspeak/interfaces/http/rest/handlers"
	"dreamspeak/interfaces/http/rest/middleware"
	"dreamspeak/pkg/auth"
	pkgerrors "dreamspeak/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Pinger reports whether the record store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router creates and configures the HTTP router
type Router struct {
	config   *config.Config
	dreams   *handlers.DreamHandler
	chat     *handlers.ChatHandler
	insights *handlers.InsightsHandler
	images   *handlers.ImageHandler
	store    Pinger
	metrics  *observability.Collector
	jwt      *auth.JWTValidator
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewRouter creates a new router instance. metrics and jwt may be nil when the
// corresponding feature is disabled.
func NewRouter(
	cfg *config.Config,
	dreams *handlers.DreamHandler,
	chat *handlers.ChatHandler,
	insights *handlers.InsightsHandler,
	images *handlers.ImageHandler,
	store Pinger,
	metrics *observability.Collector,
	jwt *auth.JWTValidator,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:   cfg,
		dreams:   dreams,
		chat:     chat,
		insights: insights,
		images:   images,
		store:    store,
		metrics:  metrics,
		jwt:      jwt,
		errors:   errorHandler,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}
	router.Get("/swagger/doc.json", rt.swaggerDoc)

	router.Route("/api", func(r chi.Router) {
		if rt.jwt != nil {
			r.Use(middleware.Authenticate(rt.jwt, rt.errors, rt.logger))
		}

		r.Route("/dreams", func(r chi.Router) {
			r.Get("/", rt.dreams.ListDreams)
			r.Post("/", rt.dreams.CreateDream)
			r.Get("/search", rt.dreams.SearchDreams)
			r.Post("/analyze", rt.dreams.AnalyzeDream)
			r.Get("/{id}", rt.dreams.GetDream)
			r.Patch("/{id}", rt.dreams.UpdateDream)
			r.Delete("/{id}", rt.dreams.DeleteDream)
			r.Post("/{dreamId}/generate-image", rt.dreams.GenerateDreamImage)
		})

		r.Post("/generate-image", rt.images.GenerateImage)

		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", rt.chat.ListMessages)
			r.Get("/recent", rt.chat.RecentMessages)
			r.Post("/message", rt.chat.PostMessage)
		})

		r.Get("/insights/{userId}", rt.insights.GetInsights)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the record store answers
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := rt.store.Ping(ctx); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		rt.errors.Handle(w, req, pkgerrors.NewUnavailableError("record store"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// swaggerDoc serves the OpenAPI document
func (rt *Router) swaggerDoc(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
}
