package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Translation metrics
	TranslatedDocuments *prometheus.CounterVec
	KGRetriesTotal      *prometheus.CounterVec

	// Search metrics
	SearchDuration *prometheus.HistogramVec

	// Citation cache metrics
	CitationCacheHits   *prometheus.CounterVec
	CitationCacheMisses *prometheus.CounterVec

	// Indexing metrics
	IndexedDocuments *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgsearch_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgsearch_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgsearch_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgsearch_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		// Translation metrics
		TranslatedDocuments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgsearch_translated_documents_total",
				Help: "Total number of source instances per translator and outcome",
			},
			[]string{"translator", "outcome"},
		),
		KGRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgsearch_kg_retries_total",
				Help: "Total number of failed KG indexing calls",
			},
			[]string{"query_id"},
		),

		// Search metrics
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kgsearch_search_duration_seconds",
				Help:    "Search request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),

		// Citation cache metrics
		CitationCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgsearch_citation_cache_hits_total",
				Help: "Total number of citation cache hits",
			},
			[]string{"level"},
		),
		CitationCacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgsearch_citation_cache_misses_total",
				Help: "Total number of citation cache misses",
			},
			[]string{"level"},
		),

		// Indexing metrics
		IndexedDocuments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgsearch_indexed_documents_total",
				Help: "Total number of documents written to the search indices",
			},
			[]string{"type", "index"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.TranslatedDocuments,
		m.KGRetriesTotal,
		m.SearchDuration,
		m.CitationCacheHits,
		m.CitationCacheMisses,
		m.IndexedDocuments,
	)

	return m
}

// ObserveTranslation counts translated, failed or skipped instances
func (m *Metrics) ObserveTranslation(translator, outcome string, n int) {
	m.TranslatedDocuments.WithLabelValues(translator, outcome).Add(float64(n))
}

// ObserveKGRetry counts a failed KG indexing call
func (m *Metrics) ObserveKGRetry(queryID string, _ int) {
	m.KGRetriesTotal.WithLabelValues(queryID).Inc()
}

// ObserveSearch records the duration of a search
func (m *Metrics) ObserveSearch(docType string, d time.Duration) {
	m.SearchDuration.WithLabelValues(docType).Observe(d.Seconds())
}

// ObserveCitationCache records a citation cache lookup
func (m *Metrics) ObserveCitationCache(level string, hit bool) {
	if hit {
		m.CitationCacheHits.WithLabelValues(level).Inc()
		return
	}
	m.CitationCacheMisses.WithLabelValues(level).Inc()
}

// ObserveIndexed counts documents written to an index
func (m *Metrics) ObserveIndexed(docType, index string, n int) {
	m.IndexedDocuments.WithLabelValues(docType, index).Add(float64(n))
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// routePath labels a request with its route template, so that document
// ids do not end up in label values
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// It must run inside the router so the matched route is known.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status and size
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := routePath(r)
			if r.ContentLength > 0 {
				metrics.HTTPRequestSize.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
			}
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.bytesWritten))
		})
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
