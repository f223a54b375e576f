package api

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/citation"
	"github.com/platinummonkey/kgsearch/pkg/facets"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/search"
	"github.com/platinummonkey/kgsearch/pkg/sitemap"
	"github.com/platinummonkey/kgsearch/pkg/translate"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

// Searcher answers searches, document reads and file listings
type Searcher interface {
	Catalogue() *facets.Catalogue
	Search(ctx context.Context, stage model.Stage, req search.Request) (*search.Response, error)
	Document(ctx context.Context, stage model.Stage, id string) (*search.Document, error)
	Files(ctx context.Context, stage model.Stage, repositoryID, format, groupingType string) (*search.FileList, error)
	FilesPage(ctx context.Context, stage model.Stage, repositoryID, searchAfter string, size int, format, groupingType string) (*search.FileList, error)
	FileFormats(ctx context.Context, stage model.Stage, repositoryID string) (*search.ValueList, error)
	GroupingTypes(ctx context.Context, stage model.Stage, repositoryID string) (*search.ValueList, error)
}

// KnowledgeGraph is the part of the KG client called on behalf of users
type KnowledgeGraph interface {
	TypesOfInstance(ctx context.Context, id string, stage model.Stage, asServiceAccount bool) ([]string, error)
	AuthEndpoint(ctx context.Context) string
	Invitations(ctx context.Context) ([]string, error)
	AddBookmark(ctx context.Context, instanceID string) error
	DeleteBookmark(ctx context.Context, bookmarkID string) error
	BookmarkIDsOf(ctx context.Context, instanceID string) ([]string, error)
}

// Previewer translates single instances for live previews
type Previewer interface {
	TranslateOneForPreview(ctx context.Context, runner translate.Runner, queryID string, stage model.Stage, id string, checkReferences bool) (translation.Lookup, error)
}

// Citations formats and caches DOI citations
type Citations interface {
	Citation(ctx context.Context, doi, style, contentType string) string
	Refresh(ctx context.Context, doi, style, contentType string) string
	EvictAll(ctx context.Context) error
	Stats() citation.CacheStats
}

// Sitemaps serves the cached sitemap
type Sitemaps interface {
	Sitemap(ctx context.Context) (*sitemap.URLSet, error)
}

// Dependencies are the collaborators of the server. Verifier, Health,
// Metrics and Registry are optional.
type Dependencies struct {
	Search    Searcher
	KG        KnowledgeGraph
	Previews  Previewer
	Registry  *translate.Registry
	Citations Citations
	Sitemap   Sitemaps
	Verifier  auth.TokenVerifier
	Health    *observability.HealthChecker
	Metrics   *observability.Metrics
	// Prometheus backs the /metrics endpoint
	Prometheus *prometheus.Registry
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCORSOrigins allows browsers of the given origins to call the API
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithMaxBodyBytes limits the size of request bodies
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// Server is the REST layer of the search service
type Server struct {
	deps         Dependencies
	router       *mux.Router
	logger       *observability.Logger
	corsOrigins  []string
	maxBodyBytes int64
}

// NewServer creates the server and its routes
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		router:       mux.NewRouter(),
		logger:       observability.NewLogger(observability.InfoLevel, os.Stdout),
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(httputil.RequestIDMiddleware(s.logger), httputil.RecoveryMiddleware, httputil.LoggingMiddleware)
	if s.deps.Metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.deps.Metrics))
	}
	if s.deps.Verifier != nil {
		s.router.Use(auth.Middleware(s.deps.Verifier, s.logger))
	}

	if s.deps.Health != nil {
		s.router.HandleFunc("/health/live", s.deps.Health.Liveness).Methods(http.MethodGet)
		s.router.HandleFunc("/health/ready", s.deps.Health.Readiness).Methods(http.MethodGet)
	}
	if s.deps.Prometheus != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(s.deps.Prometheus)).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/settings", s.settings).Methods(http.MethodGet)
	api.HandleFunc("/auth/endpoint", s.authEndpoint).Methods(http.MethodGet)
	api.HandleFunc("/groups", s.groups).Methods(http.MethodGet)
	api.HandleFunc("/sitemap", s.sitemap).Methods(http.MethodGet)

	api.HandleFunc("/citation", s.citation).Methods(http.MethodGet)
	api.HandleFunc("/citation/cache", s.citationCacheStats).Methods(http.MethodGet)
	api.HandleFunc("/citation/cache", s.refreshCitation).Methods(http.MethodPut)
	api.HandleFunc("/citation/cache", s.evictCitations).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{group}/search", s.search).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/groups/{group}/documents/{id}", s.document).Methods(http.MethodGet)
	api.HandleFunc("/groups/{group}/documents/{type}/{id}", s.document).Methods(http.MethodGet)
	api.HandleFunc("/groups/{group}/repositories/{id}/files", s.files).Methods(http.MethodGet)
	api.HandleFunc("/groups/{group}/repositories/{id}/files/formats", s.fileFormats).Methods(http.MethodGet)
	api.HandleFunc("/groups/{group}/repositories/{id}/files/groupingTypes", s.groupingTypes).Methods(http.MethodGet)

	api.HandleFunc("/{id}/live", s.liveDocument).Methods(http.MethodGet)
	api.HandleFunc("/{org}/{domain}/{schema}/{version}/{id}/live", s.legacyLiveDocument).Methods(http.MethodGet)

	api.HandleFunc("/{id}/bookmark", s.addBookmark).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc("/{id}/bookmark", s.deleteBookmark).Methods(http.MethodDelete)
}

// Handler returns the root handler of the server
func (s *Server) Handler() http.Handler {
	return httputil.Chain(
		httputil.CORSMiddleware(s.corsOrigins),
		httputil.MaxBytesMiddleware(s.maxBodyBytes),
	)(s.router)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}
