package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// SubjectV1Type is the path of V1 subjects, used as their semantic type
const SubjectV1Type = "minds/experiment/subject/v1.0.0"

// SubjectV1Translator produces the "Subject" documents of the V1 schema generation
type SubjectV1Translator struct{}

// Meta implements Translator
func (SubjectV1Translator) Meta() Meta {
	return Meta{
		Name:          "subjectV1",
		TargetType:    model.TypeSubject,
		Generation:    GenerationV1V2,
		SemanticTypes: []string{SubjectV1Type},
		QueryIDs:      map[string]string{SubjectV1Type: SubjectV1Type},
	}
}

// Translate implements Translator
func (SubjectV1Translator) Translate(_ context.Context, s model.SubjectV1, stage model.Stage, liveMode bool, _ *Utils) (model.TargetInstance, error) {
	d := &model.Subject{
		TargetBase: model.TargetBase{
			ID:             s.Identifier,
			Type:           model.NewValue(model.TypeSubject),
			Category:       model.NewValue("Subject"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(s.Title),
			FirstRelease:   dateValue(s.FirstReleaseAt),
			LastRelease:    dateValue(s.LastReleaseAt),
			AllIdentifiers: s.SourceIdentifiers(),
			Identifier:     model.Distinct([]string{s.Identifier, fmt.Sprintf("Subject/%s", s.Identifier)}),
		},
		Age:         value(s.Age),
		AgeCategory: values(s.AgeCategory),
		Genotype:    value(s.Genotype),
		Sex:         values(s.Sex),
		Species:     values(s.Species),
		Weight:      value(s.Weight),
		Samples:     sourceRefs(s.Samples, "Sample", liveMode),
	}
	if stage == model.StageInProgress {
		d.EditorID = value(s.EditorID)
	}
	if !blank(s.Strain) {
		d.Strain = model.NewValue(s.Strain)
	} else {
		d.Strain = value(strings.Join(s.Strains, ", "))
	}

	for _, ds := range s.Datasets {
		if len(ds.ComponentName) == 0 && len(ds.Instances) == 0 {
			continue
		}
		entry := model.SubjectDataset{
			Component: values(ds.ComponentName),
			Name:      sourceRefs(ds.Instances, "Dataset", liveMode),
		}
		d.Datasets = append(d.Datasets, model.Children[model.SubjectDataset]{Children: entry})
	}
	d.DatasetExists = len(d.Datasets) > 0
	return d, nil
}
