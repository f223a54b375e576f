package translate

import (
	"fmt"
	"sort"
	"sync"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// Registry maps semantic types to the runner translating them
type Registry struct {
	mu      sync.RWMutex
	byType  map[string]Runner
	runners []Runner
}

// NewRegistry creates a registry holding runners
func NewRegistry(runners ...Runner) (*Registry, error) {
	r := &Registry{byType: make(map[string]Runner)}
	for _, runner := range runners {
		if err := r.Register(runner); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a runner for all its semantic types
func (r *Registry) Register(runner Runner) error {
	if runner == nil {
		return fmt.Errorf("cannot register nil translator")
	}
	meta := runner.Meta()
	if len(meta.SemanticTypes) == 0 {
		return fmt.Errorf("translator %s declares no semantic type", meta.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range meta.SemanticTypes {
		if existing, ok := r.byType[t]; ok {
			return fmt.Errorf("semantic type %s already handled by %s", t, existing.Meta().Name)
		}
	}
	for _, t := range meta.SemanticTypes {
		r.byType[t] = runner
	}
	r.runners = append(r.runners, runner)
	return nil
}

// ForType returns the runner translating a semantic type
func (r *Registry) ForType(semanticType string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runner, ok := r.byType[semanticType]
	return runner, ok
}

// ForTypes returns the runner of the first handled type
func (r *Registry) ForTypes(semanticTypes []string) (Runner, bool) {
	for _, t := range semanticTypes {
		if runner, ok := r.ForType(t); ok {
			return runner, true
		}
	}
	return nil, false
}

// ForTargetType returns the runners producing documents of a target type
func (r *Registry) ForTargetType(targetType string) []Runner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Runner
	for _, runner := range r.runners {
		if runner.Meta().TargetType == targetType {
			result = append(result, runner)
		}
	}
	return result
}

// ByName returns the runner with the given name
func (r *Registry) ByName(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, runner := range r.runners {
		if runner.Meta().Name == name {
			return runner, true
		}
	}
	return nil, false
}

// List returns all runners in registration order
func (r *Registry) List() []Runner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Runner(nil), r.runners...)
}

// SemanticTypes returns the handled types sorted
func (r *Registry) SemanticTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byType))
	for t := range r.byType {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// Default returns the registry of every built-in translator
func Default() *Registry {
	r, err := NewRegistry(
		Erase[model.DatasetVersionV3](DatasetVersionTranslator{}),
		Erase[model.DatasetV3](DatasetTranslator{}),
		Erase[model.ModelVersionV3](ModelVersionTranslator{}),
		Erase[model.ModelV3](ModelTranslator{}),
		Erase[model.SoftwareVersionV3](SoftwareVersionTranslator{}),
		Erase[model.SoftwareV3](SoftwareTranslator{}),
		Erase[model.ProjectV3](ProjectTranslator{}),
		Erase[model.ProtocolV3](ProtocolTranslator{}),
		Erase[model.BehavioralProtocolV3](BehavioralProtocolTranslator{}),
		Erase[model.PersonOrOrganizationV3](ContributorTranslator{}),
		Erase[model.PersonV2](PersonV2Translator{}),
		Erase[model.SubjectV1](SubjectV1Translator{}),
		Erase[model.ControlledTermV3](ControlledTermTranslator{}),
		Erase[model.FileV3](FileTranslator{}),
	)
	if err != nil {
		panic(err)
	}
	return r
}
