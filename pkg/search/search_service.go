package search

import (
	"context"
	"errors"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/facets"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

var searchTracer = otel.Tracer("kgsearch/search")

// ErrNotFound is returned when no document has the requested id
var ErrNotFound = errors.New("document not found")

// Engine is the part of the search engine client the service reads with
type Engine interface {
	Search(ctx context.Context, index string, payload interface{}) (*elastic.SearchResult, error)
	DocumentByIdentifier(ctx context.Context, index, identifier string) (*elastic.Document, error)
	FilesFromRepository(ctx context.Context, index string, q elastic.FileQuery) (*elastic.SearchResult, error)
	FileAggregations(ctx context.Context, index, repositoryID string, aggs map[string]string) (*elastic.SearchResult, error)
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithCatalogue replaces the embedded facet catalogue
func WithCatalogue(c *facets.Catalogue) Option {
	return func(s *Service) { s.catalogue = c }
}

// WithLatencyObserver registers a callback invoked after every search
func WithLatencyObserver(fn func(docType string, d time.Duration)) Option {
	return func(s *Service) { s.observe = fn }
}

// Service answers searches and document reads from the search indices
type Service struct {
	engine    Engine
	catalogue *facets.Catalogue
	logger    *observability.Logger
	observe   func(docType string, d time.Duration)
	now       func() time.Time
}

// NewService creates a search service
func NewService(engine Engine, opts ...Option) *Service {
	s := &Service{
		engine:    engine,
		catalogue: facets.Default(),
		logger:    observability.NewLogger(observability.InfoLevel, os.Stdout),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalogue returns the facet catalogue searches run with
func (s *Service) Catalogue() *facets.Catalogue {
	return s.catalogue
}

// Search runs a faceted full text search over the documents of one stage
func (s *Service) Search(ctx context.Context, stage model.Stage, req Request) (*Response, error) {
	ctx, span := searchTracer.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("stage", string(stage)),
			attribute.String("type", req.Type),
			attribute.Int("from", req.From),
			attribute.Int("size", req.Size),
		),
	)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := s.now()
	tokens := Sanitize(req.Query)
	payload := Payload(s.catalogue, req, tokens)

	result, err := s.engine.Search(ctx, elastic.SearchIndexPattern(stage), payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}
	if s.observe != nil {
		s.observe(req.Type, s.now().Sub(start))
	}

	total := result.Hits.TotalValue()
	span.SetAttributes(attribute.Int("total", total))
	return &Response{
		Total:        total,
		Hits:         Hits(s.catalogue, result, req.Type, stage),
		Aggregations: FacetResults(s.catalogue.Facets(req.Type), result.Aggregations, req.Selections),
		Types:        Types(result.Aggregations),
		Suggestions:  s.Suggestions(ctx, stage, req.Type, tokens),
	}, nil
}

// Document reads the document with the given id or alias identifier
func (s *Service) Document(ctx context.Context, stage model.Stage, id string) (*Document, error) {
	ctx, span := searchTracer.Start(ctx, "Document",
		trace.WithAttributes(
			attribute.String("stage", string(stage)),
			attribute.String("id", id),
		),
	)
	defer span.End()

	doc, err := s.engine.DocumentByIdentifier(ctx, elastic.DocumentIndexPattern(stage), id)
	if errors.Is(err, elastic.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "document read failed")
		return nil, err
	}
	if doc.Source == nil {
		return nil, ErrNotFound
	}
	return RenderDocument(s.catalogue, doc.Source, stage), nil
}
