package translate

import (
	"context"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// ModelVersionType is the semantic type of openMINDS model versions
	ModelVersionType = model.OpenMINDSRoot + "core/ModelVersion"

	modelVersionQueryID = "87858583-1462-4952-9e71-90b159a7a1ed"
)

// embeddableModelSources are the hosts whose model pages can be shown inline
var embeddableModelSources = []string{
	"https://modeldb.science/",
	"https://www.opensourcebrain.org/",
}

var modelBrainStructureTargets = []string{model.OpenMINDSRoot + "controlledTerms/UBERONParcellation"}

// ModelVersionTranslator produces the "Model" documents
type ModelVersionTranslator struct{}

// Meta implements Translator
func (ModelVersionTranslator) Meta() Meta {
	return Meta{
		Name:          "modelVersion",
		TargetType:    model.TypeModel,
		Generation:    GenerationV3,
		SemanticTypes: []string{ModelVersionType},
		QueryIDs:      map[string]string{ModelVersionType: modelVersionQueryID},
	}
}

// Translate implements Translator
func (t ModelVersionTranslator) Translate(ctx context.Context, mv model.ModelVersionV3, stage model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := mv.UUID()
	m := &model.ModelVersion{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeModel),
			Category:       model.NewValue("Model"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			AllIdentifiers: mv.Identifier,
			Identifier:     model.Distinct(model.IdentifiersWithPrefix("Model", mv.Identifier)),
		},
		Last30DaysViews: mv.Last30DaysViews,
	}

	releaseDate := effectiveReleaseDate(u, mv.ReleaseDate, mv.FirstReleasedAt)
	m.FirstRelease = dateValue(releaseDate)
	m.LastRelease = dateValue(mv.LastReleasedAt)
	m.ReleasedAt = value(mv.IssueDate)
	m.ReleasedDateForSorting = value(releasedDateForSorting(mv.IssueDate, releaseDate))

	parent := mv.Model
	multipleVersions := parent != nil && len(parent.Versions) > 1
	if multipleVersions {
		m.Version = mv.Version
		versions, sorted, ok := siblingVersions(parent.ID, parent.Versions, u)
		m.Versions = versions
		m.AllVersionRef = overviewRef(parent.ID)
		m.Searchable = !ok || sorted[0].ID == mv.ID
	} else {
		m.Searchable = true
	}

	fallback := ""
	if parent != nil {
		fallback = parent.FullName
	}
	m.Title = value(versionedTitle(mv.FullName, fallback, mv.Version, multipleVersions))

	switch {
	case !blank(mv.Description):
		m.Description = model.NewValue(mv.Description)
	case parent != nil:
		m.Description = value(parent.Description)
	}
	if !blank(mv.VersionInnovation) && !isDefaultVersionInnovation(mv.VersionInnovation) {
		m.NewInThisVersion = model.NewValue(mv.VersionInnovation)
	}
	if !blank(mv.Homepage) {
		m.Homepage = model.NewLink(mv.Homepage, mv.Homepage)
	}

	developers, custodians, projects := mv.Developer, mv.Custodian, mv.Projects
	if parent != nil {
		if len(developers) == 0 {
			developers = parent.Developer
		}
		if len(custodians) == 0 {
			custodians = parent.Custodian
		}
		projects = distinctFullNameRefs(append(append([]model.FullNameRef(nil), projects...), parent.Projects...))
	}
	m.Contributors = personRefs(developers)
	m.Custodians = personRefs(custodians)
	m.Projects = fullNameRefs(projects)

	t.accessibility(&mv, m, stage)

	c := HandleCitation(mv.DOI, mv.HowToCite)
	m.Citation, m.CustomCitation, m.DOI = c.Citation, c.CustomCitation, c.DOI
	m.LicenseInfo = links(mv.License)
	m.Publications = publications(ctx, u, mv.RelatedPublications)
	m.Keywords = sortedValues(mv.Keyword)
	m.ModelFormat = fullNameRefs(mv.ModelFormat)

	if parent != nil {
		m.AbstractionLevel = refList(parent.AbstractionLevel)
		m.ModelScope = refList(parent.Scope)
		for _, st := range parent.StudyTarget {
			if anyOf(st.StudyTargetType, modelBrainStructureTargets) {
				m.BrainStructures = append(m.BrainStructures, st.Ref())
			} else {
				m.StudyTargets = append(m.StudyTargets, st.VersionedRef())
			}
		}
	}

	var inputs, outputs researchProducts
	for _, doi := range mv.InputDOIs {
		if doi.ResearchProduct != nil {
			inputs.add("", *doi.ResearchProduct)
		}
	}
	inputs.add("", mv.InputFromFiles...)
	inputs.add("", mv.InputFromFileBundles...)
	inputs.add("", mv.InputFromReverseOutputDOIs...)
	inputs.add("", mv.InputFromReverseOutputFiles...)
	inputs.add("", mv.InputFromReverseOutputFileBundles...)
	outputs.add("", mv.OutputFromReverseInputDOIs...)
	outputs.add("", mv.OutputFromReverseInputFiles...)
	outputs.add("", mv.OutputFromReverseInputFileBundles...)
	for _, doi := range mv.OutputDOIs {
		if doi.ResearchProduct != nil {
			outputs.add("", *doi.ResearchProduct)
		}
	}
	outputs.add("", mv.OutputFromOutputFiles...)
	outputs.add("", mv.OutputFromOutputFileBundles...)
	m.InputData = versionRefs(inputs.list, true)
	m.OutputData = versionRefs(outputs.list, true)
	m.ExternalInputData = externalLinks(mv.InputDOIs, mv.InputURLs)
	m.ExternalOutputData = externalLinks(mv.OutputDOIs, mv.OutputURLs)

	m.Badges, m.Trending = badges(u, badgeInput{
		issueDate:         mv.IssueDate,
		firstRelease:      releaseDate,
		last30DaysViews:   mv.Last30DaysViews,
		learningResources: len(mv.LearningResources) > 0,
		livePapers:        len(mv.LivePapers) > 0,
		usedByOthers:      len(m.OutputData) > 0,
		usingOthers:       len(m.InputData) > 0,
	})
	m.LearningResources = links(mv.LearningResources)
	m.LivePapers = links(mv.LivePapers)
	m.QueryBuilderText = queryBuilderText(mv.PrimaryType(), id)
	return m, nil
}

// accessibility decides where the model can be obtained. Embargoed models
// only carry the embargo notice.
func (ModelVersionTranslator) accessibility(mv *model.ModelVersionV3, m *model.ModelVersion, stage model.Stage) {
	if mv.Accessibility != nil {
		m.Accessibility = value(mv.Accessibility.Name)
		if accessibilityOf(mv.Accessibility.Identifier) == underEmbargo {
			m.Embargo = value(EmbargoMessage(stage, "model", mv.FileRepository))
			return
		}
	}
	repo := mv.FileRepository
	if repo == nil || blank(repo.IRI) {
		return
	}
	switch {
	case embeddable(repo.IRI):
		m.EmbeddedModelSource = link(repo.IRI, repo.FullName)
	case isExternalRepository(repo):
		m.ExternalDownload = link(repo.IRI, repo.FullName)
	default:
		m.FileRepositoryID = model.UUIDOf(repo.ID)
	}
}

func embeddable(iri string) bool {
	for _, prefix := range embeddableModelSources {
		if strings.HasPrefix(iri, prefix) {
			return true
		}
	}
	return false
}

// publications renders the related publications, dropping unknown identifier kinds
func publications(ctx context.Context, u *Utils, related []model.RelatedPublication) []*model.Value[string] {
	var result []*model.Value[string]
	for _, p := range related {
		if formatted := FormattedDigitalIdentifier(ctx, u, p.Identifier, p.ResolvedType()); formatted != "" {
			result = append(result, model.NewValue(formatted))
		}
	}
	return result
}

func refList(r *model.FullNameRef) []*model.InternalReference {
	if ref := model.RefOf(r); ref != nil {
		return []*model.InternalReference{ref}
	}
	return nil
}
