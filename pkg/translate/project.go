package translate

import (
	"context"
	"sort"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// ProjectType is the semantic type of openMINDS projects
	ProjectType = model.OpenMINDSRoot + "core/Project"

	projectQueryID = "cc5324d5-eec8-4925-aa3e-221d44b8e965"
)

// ProjectTranslator produces the "Project" documents
type ProjectTranslator struct{}

// Meta implements Translator
func (ProjectTranslator) Meta() Meta {
	return Meta{
		Name:          "project",
		TargetType:    model.TypeProject,
		Generation:    GenerationV3,
		SemanticTypes: []string{ProjectType},
		QueryIDs:      map[string]string{ProjectType: projectQueryID},
	}
}

// Translate implements Translator
func (ProjectTranslator) Translate(ctx context.Context, src model.ProjectV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := src.UUID()
	p := &model.Project{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeProject),
			Category:       model.NewValue("Project"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(src.Title),
			AllIdentifiers: src.Identifier,
			Identifier:     model.Distinct(model.IdentifiersWithPrefix("Project", src.Identifier)),
		},
		Description:    value(src.Description),
		Dataset:        groupedVersionRefs(src.Datasets),
		Models:         groupedVersionRefs(src.Models),
		Software:       groupedVersionRefs(src.Software),
		MetaDataModels: groupedVersionRefs(src.MetaDataModels),
		Publications:   publications(ctx, u, src.Publications),
	}
	p.QueryBuilderText = queryBuilderText(src.PrimaryType(), id)
	return p, nil
}

// groupedVersionRefs lists the ungrouped products first, then every group
// under an unlinked heading. Groups are separated by an empty entry.
func groupedVersionRefs(items []model.ResearchProductVersionRef) []*model.InternalReference {
	var ungrouped []model.ResearchProductVersionRef
	groups := map[string][]model.ResearchProductVersionRef{}
	for _, i := range items {
		if i.Grouping == "" {
			ungrouped = append(ungrouped, i)
		} else {
			groups[i.Grouping] = append(groups[i.Grouping], i)
		}
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := versionRefs(ungrouped, true)
	for _, name := range names {
		if len(result) > 0 {
			result = append(result, model.NewReference("", ""))
		}
		result = append(result, model.NewReference("", name))
		result = append(result, versionRefs(groups[name], true)...)
	}
	return result
}
