package references

import (
	"context"
	"errors"

	"github.com/platinummonkey/kgsearch/pkg/kgclient"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/translate"
)

// TypeLookup finds the semantic types of an instance
type TypeLookup interface {
	TypesOfInstance(ctx context.Context, id string, stage model.Stage, asServiceAccount bool) ([]string, error)
}

// ReferenceTranslator translates a single referenced instance without
// checking its own references. A nil document means the instance is absent
// or must not be shown.
type ReferenceTranslator interface {
	TranslateReference(ctx context.Context, runner translate.Runner, queryID string, stage model.Stage, id string) (model.TargetInstance, error)
}

// Live checks the references of a previewed document against the graph: a
// reference is kept only if its target can be translated right now.
type Live struct {
	types      TypeLookup
	registry   *translate.Registry
	translator ReferenceTranslator
	logger     *observability.Logger
}

// NewLive creates a live reference checker
func NewLive(types TypeLookup, registry *translate.Registry, translator ReferenceTranslator, logger *observability.Logger) *Live {
	return &Live{types: types, registry: registry, translator: translator, logger: logger}
}

// Check clears the references of the instance which cannot be resolved. The
// outcome of every target is cached for the duration of the call. Transport
// failures leave the reference untouched. It returns the number of
// references cleared.
func (l *Live) Check(ctx context.Context, instance model.TargetInstance, stage model.Stage) int {
	if instance == nil {
		return 0
	}
	unresolvable := map[string]bool{}
	cleared := 0
	for _, ref := range instance.InternalReferences() {
		if ref == nil || ref.Reference == "" {
			continue
		}
		reset, cached := unresolvable[ref.Reference]
		if !cached {
			var err error
			reset, err = l.unresolvable(ctx, ref.Reference, stage)
			if err != nil {
				l.logger.WithError(err).WithField("reference", ref.Reference).Error("A web client exception occurred - ignoring")
				continue
			}
			unresolvable[ref.Reference] = reset
		}
		if reset {
			ref.Clear()
			cleared++
		}
	}
	return cleared
}

func (l *Live) unresolvable(ctx context.Context, id string, stage model.Stage) (bool, error) {
	types, err := l.types.TypesOfInstance(ctx, id, model.StageInProgress, false)
	if errors.Is(err, kgclient.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	runner, queryID := l.v3Runner(types)
	if runner == nil || queryID == "" {
		return true, nil
	}
	target, err := l.translator.TranslateReference(ctx, runner, queryID, stage, id)
	if err != nil {
		var statusErr *kgclient.StatusError
		if errors.As(err, &statusErr) {
			return false, err
		}
		l.logger.WithError(err).WithField("reference", id).Error("A translation exception occurred - ignoring")
		return true, nil
	}
	return target == nil, nil
}

// v3Runner finds the translator of the first handled type and the query of
// the first type it declares one for
func (l *Live) v3Runner(types []string) (translate.Runner, string) {
	var runner translate.Runner
	for _, t := range types {
		if r, ok := l.registry.ForType(t); ok && r.Meta().Generation == translate.GenerationV3 {
			runner = r
			break
		}
	}
	if runner == nil {
		return nil, ""
	}
	for _, t := range types {
		if q := runner.Meta().QueryIDFor(t); q != "" {
			return runner, q
		}
	}
	return runner, ""
}
