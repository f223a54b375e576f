package translate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/specimen"
)

const (
	// DatasetVersionType is the semantic type of openMINDS dataset versions
	DatasetVersionType = model.OpenMINDSRoot + "core/DatasetVersion"

	datasetVersionQueryID = "e09b4984-5272-431e-8d3b-7d498328d8ee"
	maxTagsPerKind        = 5
	versionOverviewLabel  = "version overview"
)

const (
	accessibilityPrefix = model.OpenMINDSInstances + "/productAccessibility/"
	freeAccess          = accessibilityPrefix + "freeAccess"
	controlledAccess    = accessibilityPrefix + "controlledAccess"
	restrictedAccess    = accessibilityPrefix + "restrictedAccess"
	underEmbargo        = accessibilityPrefix + "underEmbargo"
)

const (
	fileRoleDataDescriptor = model.OpenMINDSInstances + "/fileUsageRole/dataDescriptor"
	fileRolePreview        = model.OpenMINDSInstances + "/fileUsageRole/preview"
	fileRoleScreenshot     = model.OpenMINDSInstances + "/fileUsageRole/screenshot"
)

var brainRegionStudyTargets = []string{
	model.OpenMINDSRoot + "controlledTerms/UBERONParcellation",
	model.OpenMINDSRoot + "sands/ParcellationEntityVersion",
	model.OpenMINDSRoot + "sands/ParcellationEntity",
	model.OpenMINDSRoot + "sands/CustomAnatomicalEntity",
}

var (
	videoExtensions = []string{".mp4"}
	imageExtensions = []string{".gif", ".jpg", ".jpeg", ".png"}
)

// DatasetVersionTranslator produces the "Dataset" documents
type DatasetVersionTranslator struct{}

// Meta implements Translator
func (DatasetVersionTranslator) Meta() Meta {
	return Meta{
		Name:          "datasetVersion",
		TargetType:    model.TypeDataset,
		Generation:    GenerationV3,
		SemanticTypes: []string{DatasetVersionType},
		QueryIDs:      map[string]string{DatasetVersionType: datasetVersionQueryID},
	}
}

// Translate implements Translator
func (t DatasetVersionTranslator) Translate(ctx context.Context, dv model.DatasetVersionV3, stage model.Stage, liveMode bool, u *Utils) (model.TargetInstance, error) {
	id := dv.UUID()
	d := &model.DatasetVersion{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeDataset),
			Category:       model.NewValue("Dataset"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			AllIdentifiers: dv.Identifier,
			Identifier:     model.Distinct(model.IdentifiersWithPrefix("Dataset", dv.Identifier)),
		},
		Last30DaysViews: dv.Last30DaysViews,
	}

	releaseDate := effectiveReleaseDate(u, dv.ReleaseDate, dv.FirstReleasedAt)
	d.Tags = datasetTags(&dv)
	d.FirstRelease = dateValue(releaseDate)
	d.LastRelease = dateValue(dv.LastReleasedAt)
	if sortDate := releasedDateForSorting(dv.IssueDate, releaseDate); sortDate != "" {
		d.ReleasedAt = model.NewValue(model.DatePart(sortDate))
		d.ReleasedDateForSorting = model.NewValue(sortDate)
	}

	dataset := dv.Dataset
	multipleVersions := dataset != nil && len(dataset.Versions) > 1
	if multipleVersions {
		d.Version = dv.Version
		versions, sorted, ok := siblingVersions(dataset.ID, dataset.Versions, u)
		d.Versions = versions
		d.AllVersionRef = overviewRef(dataset.ID)
		d.Searchable = !ok || sorted[0].ID == dv.ID
	} else {
		d.Searchable = true
	}

	title := datasetVersionTitle(&dv, multipleVersions)
	d.Title = value(title)

	t.accessibility(&dv, d, stage, title)

	d.ExperimentalApproach = fullNameRefs(dv.ExperimentalApproach)
	d.ExperimentalApproachForFilter = values(fullNames(dv.ExperimentalApproach))
	d.BehavioralProtocols = fullNameRefs(dv.BehavioralProtocol)
	d.Preparation = fullNameRefs(dv.PreparationDesign)
	d.Technique = fullNameRefs(dv.Technique)
	d.TechniquesForFilter = values(fullNames(dv.Technique))

	if !blank(dv.Description) {
		d.Description = model.NewValue(dv.Description)
	} else if dataset != nil {
		d.Description = value(dataset.Description)
	}
	if !blank(dv.VersionInnovation) && !isDefaultVersionInnovation(dv.VersionInnovation) {
		d.NewInThisVersion = model.NewValue(dv.VersionInnovation)
	}

	switch {
	case len(dv.Author) > 0:
		d.Contributors = personRefs(dv.Author)
	case dataset != nil:
		d.Contributors = personRefs(dataset.Author)
	}

	c := HandleCitation(dv.DOI, dv.HowToCite)
	d.Citation, d.CustomCitation, d.DOI = c.Citation, c.CustomCitation, c.DOI

	if dv.License != nil {
		d.LicenseInfo = link(dv.License.URL, dv.License.Label)
	}

	projects := dv.Projects
	if dataset != nil {
		projects = distinctFullNameRefs(append(append([]model.FullNameRef(nil), dv.Projects...), dataset.Projects...))
	}
	d.Projects = fullNameRefs(projects)

	custodians := dv.Custodians
	if len(custodians) == 0 && dataset != nil {
		custodians = dataset.Custodians
	}
	d.Custodians = personRefs(custodians)

	d.Publications = publications(ctx, u, dv.RelatedPublications)

	d.Keywords = sortedValues(dv.Keyword)
	d.EthicsAssessment = value(ethicsAssessment(dv.EthicsAssessment))
	d.DataDescriptor = dataDescriptor(&dv, u)
	d.PreviewObjects = previews(&dv)
	d.ViewData = viewData(&dv, u)

	var brainRegions, otherTargets []model.StudyTarget
	for _, st := range dv.StudyTarget {
		if anyOf(st.StudyTargetType, brainRegionStudyTargets) {
			brainRegions = append(brainRegions, st)
		} else {
			otherTargets = append(otherTargets, st)
		}
	}
	for _, st := range otherTargets {
		d.StudyTargets = append(d.StudyTargets, st.VersionedRef())
	}
	for _, st := range brainRegions {
		d.StudiedBrainRegion = append(d.StudiedBrainRegion, st.Ref())
	}
	d.ContentTypes = values(dv.ContentTypes)

	if !blank(dv.Homepage) {
		d.Homepage = model.NewLink(dv.Homepage, dv.Homepage)
	}
	for _, channel := range dv.SupportChannels {
		if l := supportChannel(channel); l != nil {
			d.SupportChannels = append(d.SupportChannels, l)
		}
	}

	hierarchy, overview := specimen.Build(dv.ID, dv.StudiedSpecimen, func(msg string) { u.AddError("%s", msg) })
	if hierarchy != nil {
		d.SpecimenIDs = overview.AllSpecimenIDs()
		var species []string
		for _, s := range overview.Species {
			if s != nil {
				species = append(species, s.Value)
			}
		}
		d.SpeciesFilter = values(model.Distinct(species))
		d.AnatomicalLocationOfTissueSamples = overview.AnatomicalLocationsOfTissueSamples()
		d.SpecimenBySubject = hierarchy
	}

	d.InputData = versionRefs(inputResearchProducts(&dv), true)
	d.ExternalInputData = externalInputData(&dv)
	d.OutputData = versionRefs(outputResearchProducts(&dv), true)

	d.Meta = datasetSchemaOrg(&dv)
	d.Badges, d.Trending = badges(u, badgeInput{
		issueDate:         dv.IssueDate,
		firstRelease:      releaseDate,
		last30DaysViews:   dv.Last30DaysViews,
		learningResources: len(dv.LearningResources) > 0,
		services:          services(&dv),
		contentTypes:      dv.ContentTypes,
		livePapers:        len(dv.LivePapers) > 0,
		usedByOthers:      len(d.OutputData) > 0,
		usingOthers:       len(d.InputData) > 0,
	})
	d.LearningResources = links(dv.LearningResources)
	d.LivePapers = links(dv.LivePapers)
	d.QueryBuilderText = queryBuilderText(dv.PrimaryType(), id)
	return d, nil
}

// accessibility decides how the data of the version can be reached
func (DatasetVersionTranslator) accessibility(dv *model.DatasetVersionV3, d *model.DatasetVersion, stage model.Stage, title string) {
	if dv.Accessibility == nil {
		return
	}
	repo := dv.FileRepository
	containerURL := ""
	if repo != nil {
		containerURL = repo.IRI
	}
	switch accessibilityOf(dv.Accessibility.Identifier) {
	case "":
		return
	case controlledAccess:
		d.Embargo = value(ControlledAccessMessage(d.ID, containerURL))
	case underEmbargo:
		message := value(EmbargoMessage(stage, "dataset", repo))
		if stage == model.StageInProgress && containerURL != "" {
			d.EmbargoRestrictedAccess = message
		} else {
			d.Embargo = message
		}
	case restrictedAccess:
		d.Embargo = value(RestrictedAccessMessage(title, d.ID))
	default:
		switch {
		case repo == nil:
		case isExternalRepository(repo):
			d.ExternalDatalink = []*model.ExternalReference{model.NewLink(repo.IRI, repo.IRI)}
		case repo.FirstFile == "":
			// not indexed yet, the data proxy lists the bucket
			d.DataProxyLink = model.NewLink(fmt.Sprintf("%sdatasets/%s", dataProxyURL, d.ID), "Browse files")
		default:
			d.FileRepositoryID = model.UUIDOf(repo.ID)
		}
	}
	d.DataAccessibility = value(dv.Accessibility.Name)
}

// accessibilityOf maps an accessibility identifier to one of the known levels
func accessibilityOf(identifier string) string {
	for _, level := range []string{freeAccess, controlledAccess, restrictedAccess, underEmbargo} {
		if strings.Contains(identifier, level) {
			return level
		}
	}
	return ""
}

func isExternalRepository(repo *model.FileRepository) bool {
	return repo.IRI != "" && !strings.Contains(repo.IRI, "object.cscs.ch") && !strings.Contains(repo.IRI, "data-proxy.ebrains.eu")
}

func datasetVersionTitle(dv *model.DatasetVersionV3, multipleVersions bool) string {
	fallback := ""
	if dv.Dataset != nil {
		fallback = dv.Dataset.FullName
	}
	return versionedTitle(dv.FullName, fallback, dv.Version, multipleVersions)
}

// datasetTags lists the first keywords, study targets and techniques
func datasetTags(dv *model.DatasetVersionV3) *model.Tags {
	var tags []string
	total := 0
	add := func(names []string) {
		total += len(names)
		if len(names) > maxTagsPerKind {
			names = names[:maxTagsPerKind]
		}
		tags = append(tags, names...)
	}
	add(dv.Keyword)
	targets := make([]string, 0, len(dv.StudyTarget))
	for _, st := range dv.StudyTarget {
		targets = append(targets, st.FullName)
	}
	add(targets)
	techniques := make([]string, 0, len(dv.Technique))
	for _, tq := range dv.Technique {
		techniques = append(techniques, tq.FullName)
	}
	add(techniques)
	if len(tags) == 0 {
		return nil
	}
	sort.SliceStable(tags, func(i, j int) bool { return strings.ToLower(tags[i]) < strings.ToLower(tags[j]) })
	return &model.Tags{Data: tags, Total: total, Size: len(tags)}
}

func fullNames(items []model.FullNameRef) []string {
	var result []string
	for _, i := range items {
		if i.FullName != "" {
			result = append(result, i.FullName)
		}
	}
	return result
}

func distinctFullNameRefs(items []model.FullNameRef) []model.FullNameRef {
	seen := map[model.FullNameRef]struct{}{}
	var result []model.FullNameRef
	for _, i := range items {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		result = append(result, i)
	}
	return result
}

func ethicsAssessment(assessments []string) string {
	has := func(name string) bool {
		for _, a := range assessments {
			if a == model.OpenMINDSInstances+"/ethicsAssessment/"+name {
				return true
			}
		}
		return false
	}
	switch {
	case has("notRequired"):
		return "not-required"
	case has("EUCompliantNonSensitive"), has("EUCompliantSensitive"):
		return "EU-compliant"
	}
	return ""
}

// dataDescriptor picks the document describing the data. A file flagged as
// data descriptor wins unless a distinct full documentation is declared.
func dataDescriptor(dv *model.DatasetVersionV3, u *Utils) *model.ExternalReference {
	var descriptors []model.File
	for _, f := range dv.SpecialFiles {
		if contains(f.Roles, fileRoleDataDescriptor) {
			descriptors = append(descriptors, f)
		}
	}
	doc := dv.FullDocumentationFile
	if len(descriptors) == 0 {
		switch {
		case doc != nil:
			return model.NewLink(doc.IRI, doc.Name)
		case dv.FullDocumentationURL != "":
			return model.NewLink(dv.FullDocumentationURL, dv.FullDocumentationURL)
		case dv.FullDocumentationDOI != "":
			return model.NewLink(dv.FullDocumentationDOI, dv.FullDocumentationDOI)
		}
		return nil
	}

	first := descriptors[0]
	if len(descriptors) > 1 {
		iris := make([]string, 0, len(descriptors))
		for _, f := range descriptors {
			iris = append(iris, f.IRI)
		}
		u.AddError("The dataset version contains multiple data descriptors: %s - picking the first one", strings.Join(iris, ", "))
		return model.NewLink(first.IRI, first.Name)
	}
	switch {
	case doc != nil && first.IRI != doc.IRI:
		u.AddError("The dataset has a file (%s) flagged with the role data descriptor and another one (%s) for the full documentation. Falling back to the full documentation file!", first.IRI, doc.IRI)
		return model.NewLink(doc.IRI, doc.Name)
	case dv.FullDocumentationDOI != "":
		u.AddError("The dataset has a file (%s) flagged with the role data descriptor and a DOI (%s) for the full documentation. Falling back to the full documentation DOI!", first.IRI, dv.FullDocumentationDOI)
		return model.NewLink(dv.FullDocumentationDOI, dv.FullDocumentationDOI)
	case dv.FullDocumentationURL != "":
		u.AddError("The dataset has a file (%s) flagged with the role data descriptor and a URL (%s) for the full documentation. Falling back to the full documentation URL!", first.IRI, dv.FullDocumentationURL)
		return model.NewLink(dv.FullDocumentationURL, dv.FullDocumentationURL)
	}
	return model.NewLink(first.IRI, first.Name)
}

// previews builds the preview gallery: videos with their still image first,
// then service links illustrated by an image, then the remaining images
func previews(dv *model.DatasetVersionV3) []*model.PreviewObject {
	var files, images []model.File
	for _, f := range dv.SpecialFiles {
		if contains(f.Roles, fileRolePreview) || contains(f.Roles, fileRoleScreenshot) {
			files = append(files, f)
			if hasExtension(f.IRI, imageExtensions) {
				images = append(images, f)
			}
		}
	}
	imageByName := map[string]int{}
	for i, img := range images {
		if _, ok := imageByName[stripExtension(img.IRI)]; !ok {
			imageByName[stripExtension(img.IRI)] = i
		}
	}
	used := map[int]struct{}{}
	stillFor := func(iri string) (model.File, bool) {
		i, ok := imageByName[stripExtension(iri)]
		if !ok {
			return model.File{}, false
		}
		used[i] = struct{}{}
		return images[i], true
	}

	var result []*model.PreviewObject
	for _, f := range files {
		if !hasExtension(f.IRI, videoExtensions) {
			continue
		}
		o := &model.PreviewObject{VideoURL: f.IRI, Description: strings.TrimSpace(f.ContentDescription)}
		if still, ok := stillFor(f.IRI); ok {
			o.ImageURL = still.IRI
		}
		result = append(result, o)
	}
	for _, l := range allServiceLinks(dv) {
		if l.File == nil {
			continue
		}
		still, ok := stillFor(l.File.IRI)
		if !ok {
			continue
		}
		o := &model.PreviewObject{ImageURL: still.IRI, Description: l.Label}
		if l.URL != "" {
			o.Link = model.NewLink(l.URL, l.DisplayLabel())
		}
		result = append(result, o)
	}
	for i, img := range images {
		if _, ok := used[i]; ok {
			continue
		}
		result = append(result, &model.PreviewObject{ImageURL: img.IRI, Description: strings.TrimSpace(img.ContentDescription)})
	}
	return result
}

// viewData groups the service links by service
func viewData(dv *model.DatasetVersionV3, u *Utils) map[string][]*model.ExternalReference {
	all := allServiceLinks(dv)
	if len(all) == 0 {
		return nil
	}
	result := map[string][]*model.ExternalReference{}
	for _, l := range all {
		label := l.Label
		if blank(label) {
			u.AddError("Service link %s is missing the label!", l.URL)
			label = l.URL
		}
		result[l.Service] = append(result[l.Service], model.NewLink(l.URL, label))
	}
	for _, refs := range result {
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].Value < refs[j].Value })
	}
	return result
}

func allServiceLinks(dv *model.DatasetVersionV3) []model.ServiceLink {
	return append(append([]model.ServiceLink(nil), dv.ServiceLinks...), dv.ServiceLinksFromFiles...)
}

func services(dv *model.DatasetVersionV3) []string {
	var result []string
	for _, l := range allServiceLinks(dv) {
		result = append(result, l.Service)
	}
	return result
}

// inputResearchProducts merges the products the version was derived from,
// the first occurrence of a product wins
func inputResearchProducts(dv *model.DatasetVersionV3) []model.ResearchProductVersionRef {
	var products researchProducts
	for _, doi := range dv.InputDOIs {
		if doi.ResearchProduct != nil {
			products.add("", *doi.ResearchProduct)
		}
	}
	products.add("", dv.InputFromFiles...)
	products.add("", dv.InputFromFileBundles...)
	products.add("", dv.InputFromReverseOutputDOIs...)
	products.add("", dv.InputFromReverseOutputFiles...)
	products.add("", dv.InputFromReverseOutputFileBundles...)
	products.add("Versions", dv.InputFromBrainAtlasVersions...)
	return products.list
}

func outputResearchProducts(dv *model.DatasetVersionV3) []model.ResearchProductVersionRef {
	var products researchProducts
	products.add("", dv.OutputFromReverseInputDOIs...)
	products.add("", dv.OutputFromReverseInputFiles...)
	products.add("", dv.OutputFromReverseInputFileBundles...)
	return products.list
}

type researchProducts struct {
	seen map[string]struct{}
	list []model.ResearchProductVersionRef
}

func (p *researchProducts) add(tab string, refs ...model.ResearchProductVersionRef) {
	if p.seen == nil {
		p.seen = map[string]struct{}{}
	}
	for _, r := range refs {
		if _, ok := p.seen[r.ID]; ok {
			continue
		}
		p.seen[r.ID] = struct{}{}
		if tab != "" {
			r.Tab = tab
		}
		p.list = append(p.list, r)
	}
}

// externalInputData links input DOIs unknown to the graph and input URLs
func externalInputData(dv *model.DatasetVersionV3) []*model.ExternalReference {
	return externalLinks(dv.InputDOIs, dv.InputURLs)
}

// externalLinks links the DOIs unknown to the graph and the plain URLs
func externalLinks(dois []model.DOI, urls []string) []*model.ExternalReference {
	seen := map[string]struct{}{}
	var result []*model.ExternalReference
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		result = append(result, model.NewLink(u, u))
	}
	for _, doi := range dois {
		if doi.ResearchProduct == nil {
			add(doi.Identifier)
		}
	}
	for _, u := range urls {
		add(u)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result
}

func hasExtension(iri string, extensions []string) bool {
	lower := strings.ToLower(iri)
	for _, e := range extensions {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

func stripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
