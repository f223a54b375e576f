package references

import (
	"context"
	"fmt"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

// Snapshot is the set of identifiers known to the index when a batch starts.
// It is read once and never updated while the batch runs.
type Snapshot map[string]struct{}

// Contains reports whether the identifier exists
func (s Snapshot) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IdentifierSource lists the identifiers stored in an index
type IdentifierSource interface {
	Identifiers(ctx context.Context, index string) (map[string]struct{}, error)
}

// Resolver prunes references to documents missing from the index
type Resolver struct {
	source IdentifierSource
	logger *observability.Logger
}

// NewResolver creates a batch resolver
func NewResolver(source IdentifierSource, logger *observability.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// LoadExistingIdentifiers reads every identifier of the stage's identifiers index
func (r *Resolver) LoadExistingIdentifiers(ctx context.Context, stage model.Stage) (Snapshot, error) {
	index := elastic.IdentifiersIndex(stage)
	ids, err := r.source.Identifiers(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("failed to load identifiers from %s: %w", index, err)
	}
	r.logger.WithFields(map[string]interface{}{
		"index":       index,
		"identifiers": len(ids),
	}).Info("Loaded existing identifiers")
	return Snapshot(ids), nil
}

// ClearNonResolvable empties every reference of the instances whose target is
// not in the snapshot. Labels are kept. It returns the number of references
// cleared.
func ClearNonResolvable(instances []model.TargetInstance, existing Snapshot) int {
	cleared := 0
	for _, instance := range instances {
		if instance == nil {
			continue
		}
		for _, ref := range instance.InternalReferences() {
			if ref == nil || ref.Reference == "" {
				continue
			}
			if !existing.Contains(ref.Reference) {
				ref.Clear()
				cleared++
			}
		}
	}
	return cleared
}
