package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"finitefield.org/shoecard/internal/catalog"
	"finitefield.org/shoecard/internal/httpserver"
	"finitefield.org/shoecard/internal/shoecard"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithCatalog wires a custom catalog service implementation.
func WithCatalog(service catalog.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Catalog = service
	}
}

// WithClock pins the renderer clock so card variants are deterministic.
func WithClock(now time.Time) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Renderer = shoecard.NewRenderer(shoecard.WithClock(func() time.Time { return now }))
	}
}

// WithRenderer overrides the card renderer.
func WithRenderer(renderer *shoecard.Renderer) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Renderer = renderer
	}
}

// WithLogger overrides the request logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// WithCardRefresh overrides how often cards poll their fragment.
func WithCardRefresh(every time.Duration) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.CardRefresh = every
	}
}

// NewServer constructs an httptest server running the storefront HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:     ":0",
		Catalog:     catalog.NewStaticService(),
		Renderer:    shoecard.NewRenderer(),
		Logger:      zap.NewNop(),
		CardRefresh: time.Minute,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
