package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/shoecard/internal/catalog"
	custommw "finitefield.org/shoecard/internal/httpserver/middleware"
	"finitefield.org/shoecard/internal/httpserver/ui"
	"finitefield.org/shoecard/internal/platform/observability"
	"finitefield.org/shoecard/internal/shoecard"
	"finitefield.org/shoecard/public"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	handlerTimeout      = 30 * time.Second
)

// Config holds runtime options for the storefront HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Catalog       catalog.Service
	Renderer      *shoecard.Renderer
	Logger        *zap.Logger
	HTMXScriptURL string
	CardRefresh   time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(observability.RequestLoggerMiddleware())
	router.Use(observability.RecoveryMiddleware())
	router.Use(chimw.Timeout(handlerTimeout))

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("embed static", zap.Error(err))
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	router.Get("/healthz", ui.Healthz)

	handlers := ui.NewHandlers(ui.Dependencies{
		Catalog:       cfg.Catalog,
		Renderer:      cfg.Renderer,
		BasePath:      "/",
		HTMXScriptURL: cfg.HTMXScriptURL,
		CardRefresh:   cfg.CardRefresh,
	})
	mountCatalogRoutes(router, handlers)

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  durationOr(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}
}

func mountCatalogRoutes(router chi.Router, handlers *ui.Handlers) {
	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX())

		r.Get("/", handlers.CatalogPage)
		RegisterFragment(r, "/cards/{slug}", handlers.CardFragment)
	})
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
