package citation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/kgsearch/pkg/observability"
)

var tracer = otel.Tracer("kgsearch/citation")

const (
	doiResolverPrefix = "https://doi.org/"
	ebrainsDOIPrefix  = "https://doi.org/10.25493/"
)

// Config holds the settings of the citation formatter
type Config struct {
	// ResolveDOIs switches outbound resolution on. When off every
	// citation is empty.
	ResolveDOIs bool
	// DataCiteURL is the base url of the DataCite API
	DataCiteURL string
	// DOIResolverURL is the base url of the DOI content negotiation resolver
	DOIResolverURL string
	CacheSize      int
	CacheTTL       time.Duration
	Timeout        time.Duration
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		ResolveDOIs:    true,
		DataCiteURL:    "https://api.datacite.org",
		DOIResolverURL: "https://doi.org",
		CacheSize:      10000,
		CacheTTL:       24 * time.Hour,
		Timeout:        30 * time.Second,
	}
}

// Option configures a Formatter
type Option func(*Formatter)

// WithHTTPClient replaces the outbound HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Formatter) { f.client = hc }
}

// WithStore adds a shared second level cache
func WithStore(s Store) Option {
	return func(f *Formatter) { f.store = s }
}

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(f *Formatter) { f.logger = l }
}

// WithCacheObserver registers a callback invoked on every cache lookup
func WithCacheObserver(fn func(level string, hit bool)) Option {
	return func(f *Formatter) { f.observe = fn }
}

// Formatter resolves DOIs into formatted citations
type Formatter struct {
	config   Config
	client   *http.Client
	cache    *Cache
	store    Store
	observe  func(level string, hit bool)
	logger   *observability.Logger
	datacite *gobreaker.CircuitBreaker
	resolver *gobreaker.CircuitBreaker
}

// New creates a citation formatter
func New(config Config, opts ...Option) *Formatter {
	defaults := DefaultConfig()
	if config.DataCiteURL == "" {
		config.DataCiteURL = defaults.DataCiteURL
	}
	if config.DOIResolverURL == "" {
		config.DOIResolverURL = defaults.DOIResolverURL
	}
	if config.CacheSize <= 0 {
		config.CacheSize = defaults.CacheSize
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	f := &Formatter{
		config: config,
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: config.Timeout},
		logger: observability.NewLogger(observability.InfoLevel, os.Stdout),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.cache = NewCache(config.CacheSize, config.CacheTTL, f.store, f.logger)
	f.cache.observe = f.observe
	f.datacite = f.breaker("datacite")
	f.resolver = f.breaker("doi-resolver")
	return f
}

func (f *Formatter) breaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.logger.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Citation circuit breaker changed state")
		},
	})
}

// Citation returns the citation of the DOI in the given style, or an empty
// string when it cannot be resolved. Only non empty results are cached.
func (f *Formatter) Citation(ctx context.Context, doi, style, contentType string) string {
	if !f.config.ResolveDOIs {
		return ""
	}
	key := cacheKey(doi, style, contentType)
	if v, ok := f.cache.Get(ctx, key); ok {
		return v
	}
	v := f.resolve(ctx, doi, style, contentType)
	if v != "" {
		f.cache.Set(ctx, key, v)
	}
	return v
}

// Refresh resolves the DOI again and replaces the cached citation
func (f *Formatter) Refresh(ctx context.Context, doi, style, contentType string) string {
	if !f.config.ResolveDOIs {
		return ""
	}
	v := f.resolve(ctx, doi, style, contentType)
	if v != "" {
		f.cache.Set(ctx, cacheKey(doi, style, contentType), v)
	}
	return v
}

// EvictAll drops every cached citation
func (f *Formatter) EvictAll(ctx context.Context) error {
	f.logger.Info("Evicting all citations")
	return f.cache.Clear(ctx)
}

// Stats returns the statistics of the in-memory cache
func (f *Formatter) Stats() CacheStats {
	return f.cache.Stats()
}

func cacheKey(doi, style, contentType string) string {
	return fmt.Sprintf("%s-%s-%s", doi, style, contentType)
}

func (f *Formatter) resolve(ctx context.Context, doi, style, contentType string) string {
	ctx, span := tracer.Start(ctx, "ResolveCitation",
		trace.WithAttributes(
			attribute.String("doi", doi),
			attribute.String("style", style),
		),
	)
	defer span.End()

	if strings.HasPrefix(doi, ebrainsDOIPrefix) {
		doiOnly := strings.TrimPrefix(doi, doiResolverPrefix)
		u := fmt.Sprintf("%s/dois/%s?style=%s", strings.TrimSuffix(f.config.DataCiteURL, "/"), doiOnly, url.QueryEscape(style))
		v, err := f.fetch(ctx, f.datacite, u, contentType)
		if err == nil && v != "" {
			return v
		}
		if err != nil {
			f.logger.WithError(err).WithField("doi", doi).Warn("Could not resolve citation through DataCite")
		}
	}

	v, err := f.fetch(ctx, f.resolver, f.resolverURL(doi), fmt.Sprintf("%s; style=%s", contentType, style))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "citation not resolved")
		f.logger.WithError(err).WithField("doi", doi).Warn("Could not resolve citation")
		return ""
	}
	return v
}

func (f *Formatter) resolverURL(doi string) string {
	base := strings.TrimSuffix(f.config.DOIResolverURL, "/")
	if strings.HasPrefix(doi, doiResolverPrefix) {
		return base + "/" + strings.TrimPrefix(doi, doiResolverPrefix)
	}
	if strings.HasPrefix(doi, "http") {
		return doi
	}
	return base + "/" + doi
}

func (f *Formatter) fetch(ctx context.Context, cb *gobreaker.CircuitBreaker, u, accept string) (string, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Accept", accept)
		resp, err := f.client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("%s responded %d", u, resp.StatusCode)
		}
		return strings.TrimSpace(string(body)), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%s: %w", cb.Name(), err)
		}
		return "", err
	}
	return result.(string), nil
}
