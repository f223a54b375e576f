package translate

import (
	"context"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// SoftwareType is the semantic type of the version independent software concept
	SoftwareType = model.OpenMINDSRoot + "core/Software"

	softwareQueryID      = "d149f504-9086-4f0e-bd1d-55fd4355bca0"
	softwareCitationHint = "Using this citation allows you to reference all versions of this software with one citation.\nUsage of version specific software and metadata should be acknowledged by citing the individual software version."
)

// SoftwareTranslator produces the version overview of software
type SoftwareTranslator struct{}

// Meta implements Translator
func (SoftwareTranslator) Meta() Meta {
	return Meta{
		Name:          "software",
		TargetType:    model.TypeSoftwareVersions,
		Generation:    GenerationV3,
		SemanticTypes: []string{SoftwareType},
		QueryIDs:      map[string]string{SoftwareType: softwareQueryID},
	}
}

// Translate implements Translator
func (SoftwareTranslator) Translate(_ context.Context, src model.SoftwareV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := src.UUID()
	s := &model.SoftwareOverview{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeSoftwareVersions),
			Category:       model.NewValue("Software Overview"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(src.Title),
			AllIdentifiers: src.Identifier,
			Identifier:     model.Distinct(model.IdentifiersWithPrefix("Software", src.Identifier)),
		},
		Description:      value(src.Description),
		Developers:       personRefs(src.Developer),
		Custodians:       personRefs(src.Custodian),
		SoftwareVersions: versionEntries(src.Versions, u),
	}

	c := HandleCitation(src.DOI, src.HowToCite)
	s.Citation, s.CustomCitation, s.DOI = c.Citation, c.CustomCitation, c.DOI
	if s.Citation != nil {
		s.CitationHint = model.NewValue(softwareCitationHint)
	}
	s.QueryBuilderText = queryBuilderText(src.PrimaryType(), id)
	return s, nil
}
