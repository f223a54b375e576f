package translation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/kgsearch/pkg/kgclient"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/references"
	"github.com/platinummonkey/kgsearch/pkg/translate"
)

var tracer = otel.Tracer("kgsearch/translation")

// QueryExecutor reads stored query results from the KG
type QueryExecutor interface {
	ExecuteQueryForIndexing(ctx context.Context, queryID string, stage model.Stage, from, size int) ([]byte, bool)
	ExecuteQueryForInstance(ctx context.Context, queryID string, stage model.Stage, id string, asServiceAccount bool) ([]byte, error)
}

// BatchResult is the outcome of translating one page for indexing
type BatchResult struct {
	Instances []model.TargetInstance
	Errors    model.ErrorReport
	// Failed lists the identifiers of the instances which could not be translated
	Failed []string
	// Skipped counts instances the translator chose not to index
	Skipped int
	From    int
	Size    int
	Total   int
	// Absent is set when the page could not be read from the KG
	Absent bool
}

// LookupKind tells how many instances a preview query returned
type LookupKind int

const (
	NotFound LookupKind = iota
	ExactlyOne
	AmbiguousMultiple
)

func (k LookupKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case ExactlyOne:
		return "exactly one"
	case AmbiguousMultiple:
		return "ambiguous"
	}
	return "unknown"
}

// Lookup is the outcome of a preview translation
type Lookup struct {
	Kind   LookupKind
	Target model.TargetInstance
	// Count is the number of instances returned for an ambiguous lookup
	Count int
}

// AmbiguousError reports a preview query returning more than one instance
type AmbiguousError struct {
	Count      int
	QueryID    string
	ID         string
	TargetType string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("Too many (%d) results when querying query id %s for id %s of type %s", e.Count, e.QueryID, e.ID, e.TargetType)
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithResultObserver registers a callback invoked after every translated page
// with the number of documents per outcome
func WithResultObserver(fn func(translator, outcome string, n int)) Option {
	return func(c *Controller) { c.observe = fn }
}

// Controller drives translators over the pages and instances read from the KG
type Controller struct {
	kg      QueryExecutor
	env     *translate.Env
	live    *references.Live
	logger  *observability.Logger
	observe func(translator, outcome string, n int)
}

// NewController creates a translation controller. Previews check their
// references against the graph using types and registry.
func NewController(kg QueryExecutor, types references.TypeLookup, registry *translate.Registry, env *translate.Env, opts ...Option) *Controller {
	if env == nil {
		env = &translate.Env{}
	}
	c := &Controller{
		kg:     kg,
		env:    env,
		logger: observability.NewLogger(observability.InfoLevel, os.Stdout),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.live = references.NewLive(types, registry, c, c.logger)
	return c
}

// WithTrendingThreshold returns a controller sharing c's collaborators whose
// translations flag documents viewed at least threshold times as trending
func (c *Controller) WithTrendingThreshold(threshold int) *Controller {
	env := *c.env
	env.TrendingThreshold = threshold
	clone := *c
	clone.env = &env
	return &clone
}

// TranslateBatch reads one page of the query and translates it. A page the KG
// could not deliver yields an empty, absent result keeping from and size.
func (c *Controller) TranslateBatch(ctx context.Context, runner translate.Runner, queryID string, stage model.Stage, from, size int) (*BatchResult, error) {
	meta := runner.Meta()
	ctx, span := tracer.Start(ctx, "TranslateBatch",
		trace.WithAttributes(
			attribute.String("translator", meta.Name),
			attribute.String("query_id", queryID),
			attribute.String("stage", string(stage)),
			attribute.Int("from", from),
			attribute.Int("size", size),
		),
	)
	defer span.End()

	logger := c.logger.WithFields(map[string]interface{}{"translator": meta.Name, "query_id": queryID})
	logger.Infof("Starting to query %d %s from %d", size, meta.Name, from)

	body, ok := c.kg.ExecuteQueryForIndexing(ctx, queryID, stage, from, size)
	if !ok {
		logger.Infof("Was not able to read results for %s from index %d of size %d", meta.Name, from, size)
		span.SetAttributes(attribute.Bool("absent", true))
		return &BatchResult{Errors: model.ErrorReport{}, From: from, Size: size, Absent: true}, nil
	}

	page, err := runner.TranslatePage(ctx, body, stage, false, c.env)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "page not translated")
		return nil, fmt.Errorf("failed to translate %s page from %d: %w", meta.Name, from, err)
	}
	logger.Infof("Queried %d %s (%s)", page.Input(), meta.Name, translate.Stats(page.From, page.Input(), page.Total))
	if len(page.Failed) > 0 {
		logger.Warnf("Failed to translate %d %s instances", len(page.Failed), meta.Name)
	}
	c.record(meta.Name, "translated", len(page.Instances))
	c.record(meta.Name, "failed", len(page.Failed))
	c.record(meta.Name, "skipped", page.Skipped)

	span.SetAttributes(
		attribute.Int("translated", len(page.Instances)),
		attribute.Int("failed", len(page.Failed)),
	)
	return &BatchResult{
		Instances: page.Instances,
		Errors:    page.Errors,
		Failed:    page.Failed,
		Skipped:   page.Skipped,
		From:      page.From,
		Size:      page.Size,
		Total:     page.Total,
	}, nil
}

// TranslateOneForPreview translates a single instance on behalf of the
// caller. With checkReferences, references the caller cannot resolve right
// now are cleared.
func (c *Controller) TranslateOneForPreview(ctx context.Context, runner translate.Runner, queryID string, stage model.Stage, id string, checkReferences bool) (Lookup, error) {
	meta := runner.Meta()
	ctx, span := tracer.Start(ctx, "TranslateOneForPreview",
		trace.WithAttributes(
			attribute.String("translator", meta.Name),
			attribute.String("id", id),
			attribute.Bool("check_references", checkReferences),
		),
	)
	defer span.End()

	logger := c.logger.WithFields(map[string]interface{}{"translator": meta.Name, "id": id})
	logger.Infof("Starting to query id %s from %s for live mode", id, meta.Name)

	body, err := c.kg.ExecuteQueryForInstance(ctx, queryID, stage, id, false)
	if errors.Is(err, kgclient.ErrNotFound) {
		return Lookup{Kind: NotFound}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return Lookup{}, err
	}

	// previews never carry the trending badge
	env := *c.env
	env.TrendingThreshold = 0
	page, err := runner.TranslatePage(ctx, body, stage, true, &env)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation failed")
		return Lookup{}, fmt.Errorf("unexpected response when querying query id %s for id %s of type %s: %w", queryID, id, meta.TargetType, err)
	}
	logger.Infof("Done querying id %s from %s for live mode", id, meta.Name)

	switch n := page.Input(); {
	case n == 0:
		return Lookup{Kind: NotFound}, nil
	case n > 1:
		return Lookup{Kind: AmbiguousMultiple, Count: n}, &AmbiguousError{Count: n, QueryID: queryID, ID: id, TargetType: meta.TargetType}
	}
	if len(page.Failed) == 1 {
		failed := page.Failed[0]
		err := model.NewTranslationError(failed, "%s", strings.Join(page.Errors[failed], "; "))
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation failed")
		return Lookup{}, err
	}
	if len(page.Instances) == 0 {
		return Lookup{Kind: NotFound}, nil
	}

	target := page.Instances[0]
	if checkReferences {
		if cleared := c.live.Check(ctx, target, stage); cleared > 0 {
			logger.Infof("Cleared %d unresolvable references", cleared)
		}
	}
	return Lookup{Kind: ExactlyOne, Target: target}, nil
}

// TranslateReference translates a referenced instance without checking its
// own references. An ambiguous lookup is an error, a missing one is nil.
func (c *Controller) TranslateReference(ctx context.Context, runner translate.Runner, queryID string, stage model.Stage, id string) (model.TargetInstance, error) {
	lookup, err := c.TranslateOneForPreview(ctx, runner, queryID, stage, id, false)
	if err != nil {
		return nil, err
	}
	return lookup.Target, nil
}

func (c *Controller) record(translator, outcome string, n int) {
	if c.observe != nil && n > 0 {
		c.observe(translator, outcome, n)
	}
}
