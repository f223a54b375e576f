package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

var tracer = otel.Tracer("kgsearch/sitemap")

// Namespace is the XML namespace of the sitemap protocol
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DefaultSchedule refreshes the sitemap every night
const DefaultSchedule = "0 2 * * *"

const cacheKey = "sitemap"

// ErrEmpty is returned when no released document qualifies
var ErrEmpty = errors.New("sitemap is empty")

// URLSet is the sitemap document
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one entry of the sitemap
type URL struct {
	Loc string `xml:"loc"`
}

// Source lists the released documents of some types
type Source interface {
	SitemapDocumentIDs(ctx context.Context, index string, types []string) ([]string, error)
}

// Config holds the sitemap settings
type Config struct {
	// BaseURL is the public url of the search UI
	BaseURL string
	// Types lists the document types published in the sitemap
	Types []string
	// Schedule is the cron expression of the refresh
	Schedule string
	// TTL bounds how long a sitemap is served without refresh
	TTL time.Duration
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// Generator builds and caches the sitemap
type Generator struct {
	config Config
	source Source
	cache  *lru.LRU[string, *URLSet]
	cron   *cron.Cron
	logger *observability.Logger
}

// New creates a sitemap generator
func New(config Config, source Source, opts ...Option) (*Generator, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultSchedule
	}
	if config.TTL <= 0 {
		config.TTL = 48 * time.Hour
	}
	g := &Generator{
		config: config,
		source: source,
		cache:  lru.NewLRU[string, *URLSet](1, nil, config.TTL),
		cron:   cron.New(),
		logger: observability.NewLogger(observability.InfoLevel, os.Stdout),
	}
	for _, opt := range opts {
		opt(g)
	}
	if _, err := g.cron.AddFunc(config.Schedule, func() { g.refreshLogged(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid sitemap schedule %q: %w", config.Schedule, err)
	}
	return g, nil
}

// Sitemap returns the cached sitemap, generating it on a miss
func (g *Generator) Sitemap(ctx context.Context) (*URLSet, error) {
	if s, ok := g.cache.Get(cacheKey); ok {
		return s, nil
	}
	return g.Refresh(ctx)
}

// Refresh generates the sitemap and replaces the cached one. The previous
// sitemap stays cached when the new one is empty or fails.
func (g *Generator) Refresh(ctx context.Context) (*URLSet, error) {
	ctx, span := tracer.Start(ctx, "GenerateSitemap")
	defer span.End()

	ids, err := g.source.SitemapDocumentIDs(ctx, elastic.SearchIndexPattern(model.StageReleased), g.config.Types)
	if err != nil && !errors.Is(err, elastic.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sitemap not generated")
		return nil, fmt.Errorf("failed to list released documents: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmpty
	}
	span.SetAttributes(attribute.Int("urls", len(ids)))

	base := strings.TrimSuffix(g.config.BaseURL, "/")
	set := &URLSet{Xmlns: Namespace, URLs: make([]URL, 0, len(ids))}
	for _, id := range ids {
		set.URLs = append(set.URLs, URL{Loc: fmt.Sprintf("%s/instances/%s?noSilentSSO=true", base, id)})
	}
	g.cache.Add(cacheKey, set)
	return set, nil
}

func (g *Generator) refreshLogged(ctx context.Context) {
	set, err := g.Refresh(ctx)
	if err != nil {
		g.logger.WithError(err).Warn("Sitemap was not refreshed")
		return
	}
	g.logger.Infof("Sitemap refreshed with %d urls", len(set.URLs))
}

// Start starts the daily refresh in the background
func (g *Generator) Start() {
	g.cron.Start()
}

// Stop stops the refresh schedule
func (g *Generator) Stop(ctx context.Context) error {
	done := g.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Marshal renders the sitemap as an XML document
func (s *URLSet) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
