package translate

import (
	"context"
	"fmt"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// PersonV2Type is the path of V2 persons, used as their semantic type
	PersonV2Type = "uniminds/core/person/v1.0.0"
	// PersonV1Type is the path of V1 persons which share the V2 shape
	PersonV1Type = "minds/core/person/v1.0.0"
)

// PersonV2Translator produces "Contributor" documents of the V1/V2 schema
// generations
type PersonV2Translator struct{}

// Meta implements Translator
func (PersonV2Translator) Meta() Meta {
	return Meta{
		Name:          "personV2",
		TargetType:    model.TypeContributor,
		Generation:    GenerationV1V2,
		SemanticTypes: []string{PersonV2Type, PersonV1Type},
		QueryIDs:      map[string]string{PersonV2Type: PersonV2Type, PersonV1Type: PersonV1Type},
	}
}

// Translate implements Translator
func (PersonV2Translator) Translate(_ context.Context, p model.PersonV2, stage model.Stage, liveMode bool, _ *Utils) (model.TargetInstance, error) {
	c := &model.Contributor{
		TargetBase: model.TargetBase{
			ID:             p.Identifier,
			Type:           model.NewValue(model.TypeContributor),
			Category:       model.NewValue("Contributor"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(p.Title),
			FirstRelease:   dateValue(p.FirstReleaseAt),
			LastRelease:    dateValue(p.LastReleaseAt),
			AllIdentifiers: p.SourceIdentifiers(),
			Identifier:     model.Distinct([]string{p.Identifier, fmt.Sprintf("Contributor/%s", p.Identifier)}),
		},
		DatasetContributions: sourceRefs(p.Contributions, "Dataset", liveMode),
		CustodianOfDataset:   sourceRefs(p.CustodianOf, "Dataset", liveMode),
		CustodianOfModel:     sourceRefs(p.CustodianOfModel, "Model", liveMode),
		ModelContributions:   sourceRefs(p.ModelContributions, "Model", liveMode),
	}
	if stage == model.StageInProgress {
		c.EditorID = value(p.EditorID)
	}
	return c, nil
}

// sourceRefs references V1/V2 instances. Live previews point at the relative
// url of the instance, indexed documents at "<type>/<identifier>".
func sourceRefs(items []model.SourceReference, typeName string, liveMode bool) []*model.InternalReference {
	if len(items) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(items))
	for _, i := range items {
		reference := fmt.Sprintf("%s/%s", typeName, i.Identifier)
		if liveMode {
			reference = i.RelativeURL
		}
		result = append(result, model.NewReference(reference, i.Name))
	}
	return result
}
