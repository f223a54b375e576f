package translate

import (
	"context"
	"strings"
	"unicode"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	controlledTermNamespace  = model.OpenMINDSRoot + "controlledTerms/"
	controlledTermQueryID    = "42405db5-6f86-4dea-baba-95a94105e74e"
	controlledTermCategory   = "Controlled Term"
	controlledTermDisclaimer = "Not correct? The openMINDS terminologies are community-driven. Please get in touch with the openMINDS development team [openMINDS@ebrains.eu](mailto:openMINDS@ebrains.eu) or raise an issue on the openMINDS GitHub if you'd like to correct a term or want to add more information to a term."
)

var controlledTermNames = []string{
	"ActionStatusType", "AgeCategory", "AnatomicalAxesOrientation", "AtlasType", "BiologicalOrder",
	"BiologicalSex", "BreedingType", "CellType", "ContributionType", "CriteriaQualityType",
	"DataType", "DeviceType", "Disease", "DiseaseModel", "EthicsAssessment",
	"ExperimentalApproach", "FileBundleGrouping", "FileRepositoryType", "FileUsageRole", "GeneticStrainType",
	"Handedness", "Language", "Laterality", "MetaDataModelType", "ModelAbstractionLevel",
	"ModelScope", "MolecularEntity", "OperatingDevice", "OperatingSystem", "Organ",
	"Phenotype", "PreparationType", "ProductAccessibility", "ProgrammingLanguage", "QualitativeOverlap",
	"SemanticDataType", "Service", "SoftwareApplicationCategory", "SoftwareFeature", "Species",
	"StimulationApproach", "StimulusType", "Strain", "SubjectAttribute", "Technique",
	"TermSuggestion", "Terminology", "TissueSampleType", "TypeOfUncertainty", "UBERONParcellation",
	"UnitOfMeasurement",
}

// ControlledTermTypes lists the semantic types of all openMINDS terminologies
func ControlledTermTypes() []string {
	result := make([]string, 0, len(controlledTermNames))
	for _, n := range controlledTermNames {
		result = append(result, controlledTermNamespace+n)
	}
	return result
}

// ControlledTermTranslator produces the "Controlled term" documents of terms
// carrying a definition or an external reference
type ControlledTermTranslator struct{}

// Meta implements Translator
func (ControlledTermTranslator) Meta() Meta {
	return Meta{
		Name:            "controlledTerm",
		TargetType:      model.TypeControlledTerm,
		Generation:      GenerationV3,
		SemanticTypes:   ControlledTermTypes(),
		TemplateQueryID: controlledTermQueryID,
	}
}

// Translate implements Translator
func (ControlledTermTranslator) Translate(_ context.Context, term model.ControlledTermV3, _ model.Stage, _ bool, _ *Utils) (model.TargetInstance, error) {
	if blank(term.Definition) && blank(term.Description) && blank(term.KnowledgeSpaceLink) &&
		blank(term.InterlexIdentifier) && blank(term.PreferredOntologyIdentifier) {
		return nil, nil
	}
	t := &model.ControlledTerm{
		TargetBase: model.TargetBase{
			ID:             term.UUID(),
			Type:           model.NewValue(model.TypeControlledTerm),
			Category:       model.NewValue(controlledTermCategoryOf(term.PrimaryType())),
			Disclaimer:     model.NewValue(controlledTermDisclaimer),
			Title:          value(term.Name),
			AllIdentifiers: term.Identifier,
			Identifier:     model.Distinct(model.UUIDsOf(term.Identifier)),
		},
		Description:        value(term.Description),
		Definition:         value(term.Definition),
		Synonyms:           values(term.Synonym),
		OntologyIdentifier: value(term.PreferredOntologyIdentifier),
	}
	if term.InterlexIdentifier != "" {
		t.ExternalDefinitions = append(t.ExternalDefinitions, model.NewLink(term.InterlexIdentifier, "Interlex"))
	}
	if term.KnowledgeSpaceLink != "" {
		t.ExternalDefinitions = append(t.ExternalDefinitions, model.NewLink(term.KnowledgeSpaceLink, "Knowledge Space"))
	}
	return t, nil
}

// controlledTermCategoryOf splits the terminology name into words:
// "UBERONParcellation" becomes "UBERON Parcellation"
func controlledTermCategoryOf(semanticType string) string {
	if semanticType == "" {
		return controlledTermCategory
	}
	name := []rune(strings.TrimPrefix(semanticType, controlledTermNamespace))
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i+1 < len(name) && unicode.IsLower(name[i+1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
