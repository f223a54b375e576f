package translate

import (
	"context"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// ModelType is the semantic type of the version independent model concept
	ModelType = model.OpenMINDSRoot + "core/Model"

	modelQueryID      = "493c0895-9f9a-4eb1-9f24-8d4227daa87c"
	modelCitationHint = "Using this citation allows you to reference all versions of this model with one citation.\nUsage of version specific models and metadata should be acknowledged by citing the individual model version."
)

// ModelTranslator produces the version overview of models
type ModelTranslator struct{}

// Meta implements Translator
func (ModelTranslator) Meta() Meta {
	return Meta{
		Name:          "model",
		TargetType:    model.TypeModelVersions,
		Generation:    GenerationV3,
		SemanticTypes: []string{ModelType},
		QueryIDs:      map[string]string{ModelType: modelQueryID},
	}
}

// Translate implements Translator
func (ModelTranslator) Translate(_ context.Context, src model.ModelV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := src.UUID()
	m := &model.ModelOverview{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeModelVersions),
			Category:       model.NewValue("Model Overview"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(src.Title),
			AllIdentifiers: src.Identifier,
			Identifier:     model.Distinct(model.UUIDsOf(src.Identifier)),
		},
		Description:      value(src.Description),
		StudyTarget:      fullNameRefs(src.StudyTarget),
		Scope:            model.RefOf(src.Scope),
		AbstractionLevel: model.RefOf(src.AbstractionLevel),
		Contributors:     personRefs(src.Developer),
		Custodians:       personRefs(src.Custodian),
		Models:           versionEntries(src.Versions, u),
	}
	if !blank(src.Homepage) {
		m.Homepage = model.NewLink(src.Homepage, src.Homepage)
	}

	c := HandleCitation(src.DOI, src.HowToCite)
	m.Citation, m.CustomCitation, m.DOI = c.Citation, c.CustomCitation, c.DOI
	if m.Citation != nil {
		m.CitationHint = model.NewValue(modelCitationHint)
	}
	m.QueryBuilderText = queryBuilderText(src.PrimaryType(), id)
	return m, nil
}
