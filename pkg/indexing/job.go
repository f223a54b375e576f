package indexing

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/references"
	"github.com/platinummonkey/kgsearch/pkg/translate"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

var tracer = otel.Tracer("kgsearch/indexing")

// DefaultPageSize is the number of instances read from the KG per page
const DefaultPageSize = 1000

// Store is the part of the search engine the job writes to
type Store interface {
	RecreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error
	IndexDocuments(ctx context.Context, index string, docs []model.TargetInstance) (*elastic.BulkResult, error)
	RemoveDeprecated(ctx context.Context, index, docType string, keep map[string]struct{}) (*elastic.BulkResult, error)
	PromoteTemporary(ctx context.Context, temporary, target string) error
	MostViewed(ctx context.Context, index string, size int) ([]int, error)
}

// Config holds the settings of the indexing job
type Config struct {
	// PageSize is the number of instances read per page
	PageSize int
	// AutoReleased lists the types whose documents are indexed without
	// being searchable
	AutoReleased []string
	// Parallelism bounds the types indexed concurrently
	Parallelism int
}

// Option configures a Job
type Option func(*Job)

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(j *Job) { j.logger = l }
}

// WithIndexedObserver registers a callback invoked with the number of
// documents written to an index
func WithIndexedObserver(fn func(docType, index string, n int)) Option {
	return func(j *Job) { j.observe = fn }
}

// Report summarizes the indexing of one type
type Report struct {
	Type     string            `json:"type"`
	Stage    model.Stage       `json:"stage"`
	Indexed  int               `json:"indexed"`
	Failed   int               `json:"failed"`
	Skipped  int               `json:"skipped"`
	Cleared  int               `json:"clearedReferences"`
	Removed  int               `json:"removed"`
	Absent   int               `json:"absentPages"`
	Errors   model.ErrorReport `json:"errors,omitempty"`
	Duration time.Duration     `json:"duration"`
}

// Job populates the search indices from the KG
type Job struct {
	config       Config
	store        Store
	translations *translation.Controller
	resolver     *references.Resolver
	registry     *translate.Registry
	autoReleased map[string]bool
	logger       *observability.Logger
	observe      func(docType, index string, n int)
}

// NewJob creates an indexing job
func NewJob(config Config, store Store, translations *translation.Controller, resolver *references.Resolver, registry *translate.Registry, opts ...Option) *Job {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 1
	}
	j := &Job{
		config:       config,
		store:        store,
		translations: translations,
		resolver:     resolver,
		registry:     registry,
		autoReleased: map[string]bool{},
		logger:       observability.NewLogger(observability.InfoLevel, os.Stdout),
	}
	for _, t := range config.AutoReleased {
		j.autoReleased[t] = true
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Types lists the target types the registry can index, sorted
func (j *Job) Types() []string {
	seen := map[string]bool{}
	var types []string
	for _, r := range j.registry.List() {
		t := r.Meta().TargetType
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

// RunAll indexes several types concurrently. The reports of the types which
// were indexed are returned along with the first error.
func (j *Job) RunAll(ctx context.Context, stage model.Stage, types []string, temporary bool) ([]*Report, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Parallelism)

	var mu sync.Mutex
	var reports []*Report
	for _, docType := range types {
		docType := docType
		g.Go(func() error {
			report, err := j.Run(ctx, stage, docType, temporary)
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	sort.Slice(reports, func(a, b int) bool { return reports[a].Type < reports[b].Type })
	return reports, err
}

// Run indexes every instance of one target type. With temporary, the
// documents are written to temporary indices promoted once complete, so the
// live indices are never partially filled.
func (j *Job) Run(ctx context.Context, stage model.Stage, docType string, temporary bool) (*Report, error) {
	ctx, span := tracer.Start(ctx, "IndexType",
		trace.WithAttributes(
			attribute.String("type", docType),
			attribute.String("stage", string(stage)),
			attribute.Bool("temporary", temporary),
		),
	)
	defer span.End()

	start := time.Now()
	logger := j.logger.WithFields(map[string]interface{}{"type": docType, "stage": string(stage)})
	runners := j.registry.ForTargetType(docType)
	if len(runners) == 0 {
		return nil, fmt.Errorf("no translator produces %s", docType)
	}
	report := &Report{Type: docType, Stage: stage, Errors: model.ErrorReport{}}

	autoReleased := j.autoReleased[docType]
	target := elastic.SearchIndex(stage, docType, temporary)
	if autoReleased {
		target = elastic.AutoReleasedIndex(stage, docType, temporary)
	}
	if temporary {
		if err := j.store.RecreateIndex(ctx, target, nil); err != nil {
			return j.fail(span, err)
		}
	}

	threshold := 0
	if !autoReleased {
		views, err := j.store.MostViewed(ctx, elastic.SearchIndex(stage, docType, false), MaxTrendingInstances+1)
		if err != nil {
			logger.WithError(err).Warn("Could not read view counts, nothing is trending")
		}
		threshold = TrendThreshold(views)
	}
	translations := j.translations
	if threshold > 0 {
		translations = j.translations.WithTrendingThreshold(threshold)
	}

	snapshot, err := j.resolver.LoadExistingIdentifiers(ctx, stage)
	if err != nil {
		return j.fail(span, err)
	}

	handled := map[string]struct{}{}
	searchable := map[string]struct{}{}
	for _, runner := range runners {
		meta := runner.Meta()
		for _, semanticType := range meta.SemanticTypes {
			queryID := meta.QueryIDFor(semanticType)
			if queryID == "" {
				continue
			}
			if err := j.indexQuery(ctx, translations, runner, queryID, stage, target, autoReleased, snapshot, handled, searchable, report); err != nil {
				return j.fail(span, err)
			}
		}
	}

	removed, err := j.removeDeprecated(ctx, stage, docType, target, autoReleased, handled, searchable)
	if err != nil {
		return j.fail(span, err)
	}
	report.Removed = removed

	if temporary {
		final := elastic.SearchIndex(stage, docType, false)
		if autoReleased {
			final = elastic.AutoReleasedIndex(stage, docType, false)
		}
		if err := j.store.RecreateIndex(ctx, final, nil); err != nil {
			return j.fail(span, err)
		}
		if err := j.store.PromoteTemporary(ctx, target, final); err != nil {
			return j.fail(span, err)
		}
	}

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("indexed", report.Indexed),
		attribute.Int("failed", report.Failed),
	)
	logger.WithFields(map[string]interface{}{
		"indexed":  report.Indexed,
		"failed":   report.Failed,
		"cleared":  report.Cleared,
		"removed":  report.Removed,
		"duration": report.Duration.String(),
	}).Info("Indexing done")
	return report, nil
}

func (j *Job) indexQuery(ctx context.Context, translations *translation.Controller, runner translate.Runner, queryID string, stage model.Stage, target string, autoReleased bool, snapshot references.Snapshot, handled, searchable map[string]struct{}, report *Report) error {
	docType := runner.Meta().TargetType
	from, total := 0, 0
	for {
		batch, err := translations.TranslateBatch(ctx, runner, queryID, stage, from, j.config.PageSize)
		if err != nil {
			return err
		}
		report.Errors.Merge(batch.Errors)
		report.Failed += len(batch.Failed)
		report.Skipped += batch.Skipped
		if batch.Absent {
			report.Absent++
		}

		// an instance already indexed by a previous translator wins
		var fresh []model.TargetInstance
		for _, instance := range batch.Instances {
			if _, ok := handled[instance.DocumentID()]; !ok {
				fresh = append(fresh, instance)
			}
		}
		report.Cleared += references.ClearNonResolvable(fresh, snapshot)

		var listed, hidden []model.TargetInstance
		for _, instance := range fresh {
			handled[instance.DocumentID()] = struct{}{}
			for _, id := range instance.DocumentIdentifiers() {
				handled[id] = struct{}{}
			}
			if s, ok := instance.(model.Searchable); ok && !s.IsSearchable() {
				hidden = append(hidden, instance)
				continue
			}
			searchable[instance.DocumentID()] = struct{}{}
			listed = append(listed, instance)
		}

		if autoReleased {
			if err := j.write(ctx, docType, target, fresh, report); err != nil {
				return err
			}
		} else {
			if err := j.write(ctx, docType, target, listed, report); err != nil {
				return err
			}
			if err := j.write(ctx, docType, elastic.IdentifiersIndex(stage), fresh, nil); err != nil {
				return err
			}
			report.Indexed += len(hidden)
		}

		if batch.Total > 0 {
			total = batch.Total
		}
		size := batch.Size
		if size <= 0 {
			size = j.config.PageSize
		}
		from = batch.From + size
		if from >= total {
			return nil
		}
	}
}

func (j *Job) write(ctx context.Context, docType, index string, docs []model.TargetInstance, report *Report) error {
	if len(docs) == 0 {
		return nil
	}
	result, err := j.store.IndexDocuments(ctx, index, docs)
	if err != nil {
		return err
	}
	written := result.Items - result.Failed
	if report != nil {
		report.Indexed += written
		report.Failed += result.Failed
	}
	if j.observe != nil {
		j.observe(docType, index, written)
	}
	return nil
}

// removeDeprecated deletes the documents of the type which were not indexed
// by this run
func (j *Job) removeDeprecated(ctx context.Context, stage model.Stage, docType, target string, autoReleased bool, handled, searchable map[string]struct{}) (int, error) {
	if autoReleased {
		result, err := j.store.RemoveDeprecated(ctx, target, docType, handled)
		if err != nil {
			return 0, err
		}
		return result.Items, nil
	}
	fromSearch, err := j.store.RemoveDeprecated(ctx, target, docType, searchable)
	if err != nil {
		return 0, err
	}
	fromIdentifiers, err := j.store.RemoveDeprecated(ctx, elastic.IdentifiersIndex(stage), docType, handled)
	if err != nil {
		return 0, err
	}
	return fromSearch.Items + fromIdentifiers.Items, nil
}

func (j *Job) fail(span trace.Span, err error) (*Report, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "indexing failed")
	return nil, err
}
