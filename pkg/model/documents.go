package model

// Target type names
const (
	TypeDataset            = "Dataset"
	TypeDatasetVersions    = "DatasetVersions"
	TypeModel              = "Model"
	TypeModelVersions      = "ModelVersions"
	TypeSoftware           = "Software"
	TypeSoftwareVersions   = "SoftwareVersions"
	TypeProject            = "Project"
	TypeBehavioralProtocol = "BehavioralProtocol"
	TypeProtocol           = "Protocol"
	TypeContributor        = "Contributor"
	TypeSubject            = "Subject"
	TypeControlledTerm     = "Controlled term"
	TypeFile               = "File"
)

// DatasetVersion is the search document of one dataset version
type DatasetVersion struct {
	TargetBase
	Badges                            []string                        `json:"badges,omitempty"`
	Tags                              *Tags                           `json:"tags,omitempty"`
	SpecimenIDs                       []string                        `json:"specimenIds,omitempty"`
	Meta                              *SchemaOrg                      `json:"meta,omitempty"`
	Trending                          bool                            `json:"trending"`
	Last30DaysViews                   int                             `json:"last30DaysViews"`
	Version                           string                          `json:"version,omitempty"`
	AllVersionRef                     *InternalReference              `json:"allVersionRef,omitempty"`
	Versions                          []*InternalReference            `json:"versions,omitempty"`
	Searchable                        bool                            `json:"-"`
	ReleasedAt                        *Value[string]                  `json:"releasedAt,omitempty"`
	ReleasedDateForSorting            *Value[string]                  `json:"releasedDateForSorting,omitempty"`
	Contributors                      []*InternalReference            `json:"contributors,omitempty"`
	DOI                               *Value[string]                  `json:"doi,omitempty"`
	LicenseInfo                       *ExternalReference              `json:"license_info,omitempty"`
	EthicsAssessment                  *Value[string]                  `json:"ethicsAssessment,omitempty"`
	Projects                          []*InternalReference            `json:"projects,omitempty"`
	Custodians                        []*InternalReference            `json:"custodians,omitempty"`
	Description                       *Value[string]                  `json:"description,omitempty"`
	Homepage                          *ExternalReference              `json:"homepage,omitempty"`
	SupportChannels                   []*ExternalReference            `json:"supportChannels,omitempty"`
	NewInThisVersion                  *Value[string]                  `json:"newInThisVersion,omitempty"`
	PreviewObjects                    []*PreviewObject                `json:"previewObjects,omitempty"`
	ViewData                          map[string][]*ExternalReference `json:"viewData,omitempty"`
	DataAccessibility                 *Value[string]                  `json:"dataAccessibility,omitempty"`
	SpeciesFilter                     []*Value[string]                `json:"speciesFilter,omitempty"`
	ExperimentalApproachForFilter     []*Value[string]                `json:"experimentalApproachForFilter,omitempty"`
	StudiedBrainRegion                []*InternalReference            `json:"studiedBrainRegion,omitempty"`
	StudyTargets                      []*InternalReference            `json:"studyTargets,omitempty"`
	AnatomicalLocationOfTissueSamples []*InternalReference            `json:"anatomicalLocationOfTissueSamples,omitempty"`
	BehavioralProtocols               []*InternalReference            `json:"behavioralProtocols,omitempty"`
	Preparation                       []*InternalReference            `json:"preparation,omitempty"`
	ExperimentalApproach              []*InternalReference            `json:"experimentalApproach,omitempty"`
	Technique                         []*InternalReference            `json:"technique,omitempty"`
	DataDescriptor                    *ExternalReference              `json:"dataDescriptor,omitempty"`
	Citation                          *Value[string]                  `json:"citation,omitempty"`
	CustomCitation                    *Value[string]                  `json:"customCitation,omitempty"`
	EmbargoRestrictedAccess           *Value[string]                  `json:"embargoRestrictedAccess,omitempty"`
	Embargo                           *Value[string]                  `json:"embargo,omitempty"`
	FileRepositoryID                  string                          `json:"fileRepositoryId,omitempty"`
	DataProxyLink                     *ExternalReference              `json:"dataProxyLink,omitempty"`
	ExternalDatalink                  []*ExternalReference            `json:"external_datalink,omitempty"`
	Publications                      []*Value[string]                `json:"publications,omitempty"`
	TechniquesForFilter               []*Value[string]                `json:"techniquesForFilter,omitempty"`
	Keywords                          []*Value[string]                `json:"keywords,omitempty"`
	SpecimenBySubject                 *HierarchyElement               `json:"specimenBySubject,omitempty"`
	ContentTypes                      []*Value[string]                `json:"contentTypes,omitempty"`
	InputData                         []*InternalReference            `json:"inputData,omitempty"`
	ExternalInputData                 []*ExternalReference            `json:"externalInputData,omitempty"`
	OutputData                        []*InternalReference            `json:"outputData,omitempty"`
	LearningResources                 []*ExternalReference            `json:"learningResources,omitempty"`
	LivePapers                        []*ExternalReference            `json:"livePapers,omitempty"`
	QueryBuilderText                  *Value[string]                  `json:"queryBuilderText,omitempty"`
}

// IsSearchable reports whether the version is the one listed in search results
func (d *DatasetVersion) IsSearchable() bool { return d.Searchable }

// InternalReferences implements TargetInstance
func (d *DatasetVersion) InternalReferences() []*InternalReference {
	return refs(
		one(d.AllVersionRef),
		d.Versions,
		d.Contributors,
		d.Projects,
		d.Custodians,
		d.StudiedBrainRegion,
		d.StudyTargets,
		d.AnatomicalLocationOfTissueSamples,
		d.BehavioralProtocols,
		d.Preparation,
		d.ExperimentalApproach,
		d.Technique,
		d.SpecimenBySubject.InternalReferences(),
		d.InputData,
		d.OutputData,
	)
}

// VersionEntry is one version listed by a version overview
type VersionEntry struct {
	Version    *InternalReference `json:"version"`
	Innovation *Value[string]     `json:"innovation,omitempty"`
}

// DatasetOverview is the version independent document of a dataset having several versions
type DatasetOverview struct {
	TargetBase
	EditorID         *Value[string]           `json:"editorId,omitempty"`
	Authors          []*InternalReference     `json:"authors,omitempty"`
	Custodians       []*InternalReference     `json:"custodians,omitempty"`
	Citation         *Value[string]           `json:"citation,omitempty"`
	CustomCitation   *Value[string]           `json:"customCitation,omitempty"`
	CitationHint     *Value[string]           `json:"citationHint,omitempty"`
	DOI              *Value[string]           `json:"doi,omitempty"`
	Homepage         *ExternalReference       `json:"homepage,omitempty"`
	Description      *Value[string]           `json:"description,omitempty"`
	Datasets         []Children[VersionEntry] `json:"datasets,omitempty"`
	QueryBuilderText *Value[string]           `json:"queryBuilderText,omitempty"`
}

// InternalReferences implements TargetInstance
func (d *DatasetOverview) InternalReferences() []*InternalReference {
	return refs(d.Authors, d.Custodians, entryRefs(d.Datasets))
}

// Citation is a citable research product a contributor worked on
type Citation struct {
	ID       string `json:"id"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	DOI      string `json:"doi,omitempty"`
	Citation string `json:"citation,omitempty"`
}

// Contributor is the search document of a person or an organization
type Contributor struct {
	TargetBase
	Meta                       *SchemaOrg           `json:"meta,omitempty"`
	Trending                   bool                 `json:"trending"`
	EditorID                   *Value[string]       `json:"editorId,omitempty"`
	CustodianOfDataset         []*InternalReference `json:"custodianOfDataset,omitempty"`
	CustodianOfModel           []*InternalReference `json:"custodianOfModel,omitempty"`
	CustodianOfSoftware        []*InternalReference `json:"custodianOfSoftware,omitempty"`
	CustodianOfMetaDataModels  []*InternalReference `json:"custodianOfMetaDataModels,omitempty"`
	DatasetContributions       []*InternalReference `json:"datasetContributions,omitempty"`
	ModelContributions         []*InternalReference `json:"modelContributions,omitempty"`
	SoftwareContributions      []*InternalReference `json:"softwareContributions,omitempty"`
	MetaDataModelContributions []*InternalReference `json:"metaDataModelContributions,omitempty"`
	DatasetCitations           []Citation           `json:"datasetCitations,omitempty"`
	ModelCitations             []Citation           `json:"modelCitations,omitempty"`
	SoftwareCitations          []Citation           `json:"softwareCitations,omitempty"`
	MetaDataModelCitations     []Citation           `json:"metaDataModelCitations,omitempty"`
}

// InternalReferences implements TargetInstance
func (c *Contributor) InternalReferences() []*InternalReference {
	return refs(
		c.CustodianOfDataset,
		c.CustodianOfModel,
		c.CustodianOfSoftware,
		c.CustodianOfMetaDataModels,
		c.DatasetContributions,
		c.ModelContributions,
		c.SoftwareContributions,
		c.MetaDataModelContributions,
	)
}

// SubjectDataset is a dataset component a V1 subject was used in
type SubjectDataset struct {
	Component []*Value[string]     `json:"component,omitempty"`
	Name      []*InternalReference `json:"name,omitempty"`
}

// Subject is the search document of a V1 subject
type Subject struct {
	TargetBase
	EditorID      *Value[string]             `json:"editorId,omitempty"`
	Species       []*Value[string]           `json:"species,omitempty"`
	Sex           []*Value[string]           `json:"sex,omitempty"`
	Age           *Value[string]             `json:"age,omitempty"`
	AgeCategory   []*Value[string]           `json:"agecategory,omitempty"`
	Weight        *Value[string]             `json:"weight,omitempty"`
	Strain        *Value[string]             `json:"strain,omitempty"`
	Genotype      *Value[string]             `json:"genotype,omitempty"`
	Samples       []*InternalReference       `json:"samples,omitempty"`
	Datasets      []Children[SubjectDataset] `json:"datasets,omitempty"`
	DatasetExists bool                       `json:"datasetExists"`
}

// InternalReferences implements TargetInstance
func (s *Subject) InternalReferences() []*InternalReference {
	result := refs(s.Samples)
	for _, d := range s.Datasets {
		result = append(result, refs(d.Children.Name)...)
	}
	return result
}

// ControlledTerm is the search document of an openMINDS terminology term
type ControlledTerm struct {
	TargetBase
	OntologyIdentifier  *Value[string]       `json:"ontologyIdentifier,omitempty"`
	ExternalDefinitions []*ExternalReference `json:"externalDefinitions,omitempty"`
	Synonyms            []*Value[string]     `json:"synonyms,omitempty"`
	Description         *Value[string]       `json:"description,omitempty"`
	Definition          *Value[string]       `json:"definition,omitempty"`
}

// InternalReferences implements TargetInstance
func (t *ControlledTerm) InternalReferences() []*InternalReference { return nil }

// GroupingType lists the bundles of one grouping a file belongs to
type GroupingType struct {
	Name        string               `json:"name"`
	FileBundles []*InternalReference `json:"fileBundles,omitempty"`
}

// FileDocument is the search document of a file of a file repository
type FileDocument struct {
	TargetBase
	IRI                    *ExternalReference   `json:"iri,omitempty"`
	FileRepository         string               `json:"fileRepository,omitempty"`
	Size                   *Value[string]       `json:"size,omitempty"`
	Format                 *InternalReference   `json:"format,omitempty"`
	Viewer                 []*ExternalReference `json:"viewer,omitempty"`
	GroupingTypes          []GroupingType       `json:"groupingTypes,omitempty"`
	UsedInResearchProducts []*InternalReference `json:"usedInResearchProducts,omitempty"`
}

// IsSearchable reports false: files are only listed per repository
func (f *FileDocument) IsSearchable() bool { return false }

// InternalReferences implements TargetInstance
func (f *FileDocument) InternalReferences() []*InternalReference {
	result := refs(one(f.Format), f.UsedInResearchProducts)
	for _, g := range f.GroupingTypes {
		result = append(result, refs(g.FileBundles)...)
	}
	return result
}
