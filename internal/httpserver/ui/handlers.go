package ui

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/shoecard/internal/catalog"
	custommw "finitefield.org/shoecard/internal/httpserver/middleware"
	"finitefield.org/shoecard/internal/platform/observability"
	"finitefield.org/shoecard/internal/shoecard"
	catalogtpl "finitefield.org/shoecard/internal/templates/catalog"
)

// DefaultHTMXScriptURL is used when no htmx source is configured.
const DefaultHTMXScriptURL = "https://unpkg.com/htmx.org@1.9.12"

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	Catalog  catalog.Service
	Renderer *shoecard.Renderer
	BasePath string
	// HTMXScriptURL is the htmx bundle loaded by the catalog page.
	HTMXScriptURL string
	// CardRefresh is how often rendered cards poll their fragment; zero
	// disables polling.
	CardRefresh time.Duration
}

// Handlers exposes HTTP handlers for the catalog page and card fragments.
type Handlers struct {
	catalog     catalog.Service
	renderer    *shoecard.Renderer
	basePath    string
	scripts     []catalogtpl.Script
	cardRefresh time.Duration
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	service := deps.Catalog
	if service == nil {
		service = catalog.NewStaticService()
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = shoecard.NewRenderer()
	}
	basePath := deps.BasePath
	if basePath == "" {
		basePath = "/"
	}
	htmxSrc := deps.HTMXScriptURL
	if htmxSrc == "" {
		htmxSrc = DefaultHTMXScriptURL
	}
	return &Handlers{
		catalog:     service,
		renderer:    renderer,
		basePath:    basePath,
		scripts:     []catalogtpl.Script{{Src: htmxSrc, Defer: true}},
		cardRefresh: deps.CardRefresh,
	}
}

// CatalogPage renders the listing grid. htmx swaps receive the grid only.
func (h *Handlers) CatalogPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	order := catalog.ParseSortOrder(r.URL.Query().Get("sort"))

	listings, err := h.catalog.List(ctx)
	if err != nil {
		observability.FromContext(ctx).Error("catalog: list listings failed", zap.Error(err))
		http.Error(w, "The catalog is unavailable right now. Please try again later.", http.StatusBadGateway)
		return
	}

	data := catalogtpl.BuildPageData(h.basePath, listings, order, h.renderer)
	data.Scripts = h.scripts
	data.CardRefresh = h.cardRefresh

	w.Header().Add("Vary", "HX-Request")
	if custommw.IsPartialRequest(ctx) {
		templ.Handler(catalogtpl.Grid(data)).ServeHTTP(w, r)
		return
	}
	templ.Handler(catalogtpl.Index(data)).ServeHTTP(w, r)
}

// CardFragment renders a single card for the slug in the route.
func (h *Handlers) CardFragment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}

	listing, err := h.catalog.Get(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrListingNotFound) {
			http.NotFound(w, r)
			return
		}
		observability.FromContext(ctx).Error("catalog: get listing failed", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "The listing is unavailable right now. Please try again later.", http.StatusBadGateway)
		return
	}

	templ.Handler(h.renderer.Component(listing)).ServeHTTP(w, r)
}

// Healthz answers liveness probes.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
