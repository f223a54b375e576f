package translate

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// Generation is the schema generation of the graph data a translator reads
type Generation string

const (
	GenerationV1V2 Generation = "v2"
	GenerationV3   Generation = "v3"
)

// Meta describes a translator: what it reads and what it produces
type Meta struct {
	// Name identifies the translator in logs and metrics
	Name string
	// TargetType is the document type produced ("Dataset", "Contributor"...)
	TargetType string
	// Generation is the schema generation of the source instances
	Generation Generation
	// SemanticTypes are the source types handled by the translator
	SemanticTypes []string
	// QueryIDs maps semantic types to the stored query returning their instances
	QueryIDs map[string]string
	// TemplateQueryID derives a query id for every semantic type not in QueryIDs
	TemplateQueryID string
}

// QueryIDFor returns the query fetching instances of one semantic type
func (m Meta) QueryIDFor(semanticType string) string {
	if id, ok := m.QueryIDs[semanticType]; ok {
		return id
	}
	if m.TemplateQueryID != "" {
		return model.TemplateQueryID(m.TemplateQueryID, semanticType)
	}
	return ""
}

// Queries lists the query id of every semantic type, keyed by type
func (m Meta) Queries() map[string]string {
	result := make(map[string]string, len(m.SemanticTypes))
	for _, t := range m.SemanticTypes {
		result[t] = m.QueryIDFor(t)
	}
	return result
}

// Translator converts one kind of source instance into target documents. A nil
// target with a nil error means the instance must not be indexed.
type Translator[S model.Source] interface {
	Meta() Meta
	Translate(ctx context.Context, src S, stage model.Stage, liveMode bool, u *Utils) (model.TargetInstance, error)
}

// Env holds the services and settings shared by all translations
type Env struct {
	Citations         CitationFormatter
	TrendingThreshold int
	Now               func() time.Time
	// Parallelism bounds the instances of one page translated concurrently
	Parallelism int
}

func (e *Env) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// CitationFormatter renders the citation of a DOI. It returns an empty string
// when no citation can be produced.
type CitationFormatter interface {
	Citation(ctx context.Context, doi, style, contentType string) string
}

// Utils gives a translation access to the shared environment and collects the
// non fatal problems found in the instance
type Utils struct {
	env    *Env
	errors []string
}

// NewUtils creates the utils of one instance translation
func NewUtils(env *Env) *Utils {
	if env == nil {
		env = &Env{}
	}
	return &Utils{env: env}
}

// AddError records a problem found in the instance
func (u *Utils) AddError(format string, args ...interface{}) {
	u.errors = append(u.errors, fmt.Sprintf(format, args...))
}

// Errors returns the recorded problems
func (u *Utils) Errors() []string { return u.errors }

// Now returns the current time of the environment
func (u *Utils) Now() time.Time { return u.env.now() }

// Citation renders a citation, empty without a formatter
func (u *Utils) Citation(ctx context.Context, doi, style, contentType string) string {
	if u.env.Citations == nil {
		return ""
	}
	return u.env.Citations.Citation(ctx, doi, style, contentType)
}

// TrendingThreshold is the view count above which a dataset is trending. Zero
// disables the badge.
func (u *Utils) TrendingThreshold() int { return u.env.TrendingThreshold }

// PageResult is the outcome of translating one page of source instances
type PageResult struct {
	// Instances holds the translated documents in source order
	Instances []model.TargetInstance
	// Errors holds failures and warnings per source identifier
	Errors model.ErrorReport
	// Failed lists the identifiers of instances which could not be translated
	Failed []string
	// Skipped counts instances the translator chose not to index
	Skipped int
	Total   int
	From    int
	Size    int
}

// Input returns the number of source instances of the page
func (r *PageResult) Input() int {
	return len(r.Instances) + len(r.Failed) + r.Skipped
}

// Runner translates raw pages without knowing the source type
type Runner interface {
	Meta() Meta
	TranslatePage(ctx context.Context, body []byte, stage model.Stage, liveMode bool, env *Env) (*PageResult, error)
}

type runner[S model.Source] struct {
	t Translator[S]
}

// Erase wraps a typed translator into a Runner
func Erase[S model.Source](t Translator[S]) Runner {
	return &runner[S]{t: t}
}

func (r *runner[S]) Meta() Meta { return r.t.Meta() }

type outcome struct {
	target   model.TargetInstance
	err      error
	warnings []string
}

func (r *runner[S]) TranslatePage(ctx context.Context, body []byte, stage model.Stage, liveMode bool, env *Env) (*PageResult, error) {
	page, err := model.DecodePage[S](body)
	if err != nil {
		return nil, err
	}
	result := &PageResult{
		Errors: page.Errors,
		Total:  page.Total,
		From:   page.From,
		Size:   page.Size,
	}
	for i := 0; i < page.Undecodable; i++ {
		result.Failed = append(result.Failed, "unknown")
	}

	outcomes := make([]outcome, len(page.Data))
	g, gctx := errgroup.WithContext(ctx)
	limit := 8
	if env != nil && env.Parallelism > 0 {
		limit = env.Parallelism
	}
	g.SetLimit(limit)
	for i := range page.Data {
		i := i
		g.Go(func() error {
			outcomes[i] = r.translateOne(gctx, page.Data[i], stage, liveMode, env)
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		id := page.Data[i].SourceID()
		if id == "" {
			id = "unknown"
		}
		for _, w := range o.warnings {
			result.Errors.Add(id, w)
		}
		switch {
		case o.err != nil:
			result.Errors.Add(id, o.err.Error())
			result.Failed = append(result.Failed, id)
		case o.target == nil:
			result.Skipped++
		default:
			result.Instances = append(result.Instances, o.target)
		}
	}
	return result, nil
}

// translateOne isolates the translation of one instance, turning panics into errors
func (r *runner[S]) translateOne(ctx context.Context, src S, stage model.Stage, liveMode bool, env *Env) (o outcome) {
	u := NewUtils(env)
	defer func() {
		if rec := recover(); rec != nil {
			o = outcome{err: fmt.Errorf("panic during translation: %v\n%s", rec, debug.Stack()), warnings: u.Errors()}
		}
	}()
	target, err := r.t.Translate(ctx, src, stage, liveMode, u)
	return outcome{target: target, err: err, warnings: u.Errors()}
}
