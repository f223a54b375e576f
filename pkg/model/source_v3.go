package model

import "time"

// DatasetVersionV3 is an openMINDS dataset version
type DatasetVersionV3 struct {
	InstanceV3
	ReleaseInfo
	DOI                   string                    `json:"doi,omitempty"`
	HowToCite             string                    `json:"howToCite,omitempty"`
	Description           string                    `json:"description,omitempty"`
	FullName              string                    `json:"fullName,omitempty"`
	Homepage              string                    `json:"homepage,omitempty"`
	SupportChannels       []string                  `json:"supportChannels,omitempty"`
	Keyword               StringList                `json:"keyword,omitempty"`
	EthicsAssessment      []string                  `json:"ethicsAssessment,omitempty"`
	Version               string                    `json:"version,omitempty"`
	VersionInnovation     string                    `json:"versionInnovation,omitempty"`
	IssueDate             string                    `json:"issueDate,omitempty"`
	ReleaseDate           *time.Time                `json:"releaseDate,omitempty"`
	RelatedPublications   []RelatedPublication      `json:"relatedPublications,omitempty"`
	License               *ExternalRef              `json:"license,omitempty"`
	Author                []PersonOrOrganizationRef `json:"author,omitempty"`
	Projects              []FullNameRef             `json:"projects,omitempty"`
	Custodians            []PersonOrOrganizationRef `json:"custodians,omitempty"`
	Dataset               *DatasetVersions          `json:"dataset,omitempty"`
	FullDocumentationURL  string                    `json:"fullDocumentationUrl,omitempty"`
	FullDocumentationDOI  string                    `json:"fullDocumentationDOI,omitempty"`
	FullDocumentationFile *File                     `json:"fullDocumentationFile,omitempty"`
	ExperimentalApproach  []FullNameRef             `json:"experimentalApproach,omitempty"`
	Technique             []FullNameRef             `json:"technique,omitempty"`
	Accessibility         *NameWithIdentifier       `json:"accessibility,omitempty"`
	FileRepository        *FileRepository           `json:"fileRepository,omitempty"`
	SpecialFiles          []File                    `json:"specialFiles,omitempty"`
	BehavioralProtocol    []FullNameRef             `json:"behavioralProtocol,omitempty"`
	ContentTypes          []string                  `json:"contentTypes,omitempty"`
	StudyTarget           []StudyTarget             `json:"studyTarget,omitempty"`
	PreparationDesign     []FullNameRef             `json:"preparationDesign,omitempty"`
	ServiceLinks          []ServiceLink             `json:"serviceLinks,omitempty"`
	ServiceLinksFromFiles []ServiceLink             `json:"serviceLinksFromFiles,omitempty"`
	StudiedSpecimen       []StudiedSpecimen         `json:"studiedSpecimen,omitempty"`
	Last30DaysViews       int                       `json:"last30DaysViews,omitempty"`
	LearningResources     []ExternalRef             `json:"learningResource,omitempty"`
	LivePapers            []ExternalRef             `json:"livePapers,omitempty"`

	InputDOIs                         []DOI                       `json:"inputDOIs,omitempty"`
	InputURLs                         []string                    `json:"inputURLs,omitempty"`
	InputFromFiles                    []ResearchProductVersionRef `json:"inputResearchProductsFromInputFiles,omitempty"`
	InputFromFileBundles              []ResearchProductVersionRef `json:"inputResearchProductsFromInputFileBundles,omitempty"`
	InputFromReverseOutputDOIs        []ResearchProductVersionRef `json:"inputResearchProductsFromReverseOutputDOIs,omitempty"`
	InputFromReverseOutputFiles       []ResearchProductVersionRef `json:"inputResearchProductsFromReverseOutputFiles,omitempty"`
	InputFromReverseOutputFileBundles []ResearchProductVersionRef `json:"inputResearchProductsFromReverseOutputFileBundles,omitempty"`
	InputFromBrainAtlasVersions       []ResearchProductVersionRef `json:"inputResearchProductsFromInputBrainAtlasVersions,omitempty"`
	OutputFromReverseInputDOIs        []ResearchProductVersionRef `json:"outputResearchProductsFromReverseInputDOIs,omitempty"`
	OutputFromReverseInputFiles       []ResearchProductVersionRef `json:"outputResearchProductsFromReverseInputFiles,omitempty"`
	OutputFromReverseInputFileBundles []ResearchProductVersionRef `json:"outputResearchProductsFromReverseInputFileBundles,omitempty"`
}

// DatasetVersions is the dataset a version belongs to, with its version chain
type DatasetVersions struct {
	ID          string                    `json:"id"`
	FullName    string                    `json:"fullName,omitempty"`
	Description string                    `json:"description,omitempty"`
	Versions    []Version                 `json:"versions,omitempty"`
	Author      []PersonOrOrganizationRef `json:"datasetAuthor,omitempty"`
	Custodians  []PersonOrOrganizationRef `json:"datasetCustodian,omitempty"`
	Projects    []FullNameRef             `json:"datasetProjects,omitempty"`
}

// QuantitativeValueOrRange is a measured value or a min/max range with units
type QuantitativeValueOrRange struct {
	Value        *float64     `json:"value,omitempty"`
	Unit         *FullNameRef `json:"unit,omitempty"`
	MinValue     *float64     `json:"minValue,omitempty"`
	MaxValue     *float64     `json:"maxValue,omitempty"`
	MinValueUnit *FullNameRef `json:"minValueUnit,omitempty"`
	MaxValueUnit *FullNameRef `json:"maxValueUnit,omitempty"`
}

// SpeciesOrStrain is a species, or a strain pointing at its species
type SpeciesOrStrain struct {
	FullNameRef
	Species           *FullNameRef `json:"species,omitempty"`
	GeneticStrainType *FullNameRef `json:"geneticStrainType,omitempty"`
}

// SpecimenServiceLink opens a specimen file in an external viewer
type SpecimenServiceLink struct {
	OpenDataIn string `json:"openDataIn"`
	Service    string `json:"service,omitempty"`
	Name       string `json:"name,omitempty"`
}

// SpecimenServiceLinkCollection groups the service links of files and bundles
type SpecimenServiceLinkCollection struct {
	FromFileBundle []SpecimenServiceLink `json:"fromFileBundle,omitempty"`
	FromFile       []SpecimenServiceLink `json:"fromFile,omitempty"`
}

// RelatedProduct is another dataset a specimen was used in
type RelatedProduct struct {
	ID                                          string   `json:"id"`
	DOI                                         string   `json:"doi,omitempty"`
	GroupsWithIndividualSubElementSpecification []string `json:"groupsWithIndividualSubElementSpecification,omitempty"`
}

// StudiedSpecimen is a subject, subject group, tissue sample or tissue sample collection
type StudiedSpecimen struct {
	ID                    string                          `json:"id"`
	InternalIdentifier    string                          `json:"internalIdentifier,omitempty"`
	LookupLabel           string                          `json:"lookupLabel,omitempty"`
	NumberOfSubjects      *int64                          `json:"numberOfSubjects,omitempty"`
	NumberOfTissueSamples *int64                          `json:"numberOfTissueSamples,omitempty"`
	AdditionalRemarks     string                          `json:"additionalRemarks,omitempty"`
	Origin                *FullNameRef                    `json:"origin,omitempty"`
	Species               []SpeciesOrStrain               `json:"species,omitempty"`
	AnatomicalLocation    []AnatomicalLocation            `json:"anatomicalLocation,omitempty"`
	BiologicalSex         []FullNameRef                   `json:"biologicalSex,omitempty"`
	Laterality            []FullNameRef                   `json:"laterality,omitempty"`
	TissueSampleType      *FullNameRef                    `json:"tissueSampleType,omitempty"`
	StudiedState          []*StudiedState                 `json:"studiedState,omitempty"`
	IsPartOf              []string                        `json:"isPartOf,omitempty"`
	Type                  []string                        `json:"type,omitempty"`
	SubElements           []*StudiedSpecimen              `json:"subElements,omitempty"`
	ServiceLinks          []SpecimenServiceLinkCollection `json:"serviceLinks,omitempty"`
	UsedInDatasets        []RelatedProduct                `json:"usedInDatasets,omitempty"`
}

// StudiedState is a time bound snapshot of a specimen
type StudiedState struct {
	ID                string                          `json:"id"`
	DescendedFrom     []string                        `json:"descendedFrom,omitempty"`
	Type              []string                        `json:"type,omitempty"`
	AdditionalRemarks string                          `json:"additionalRemarks,omitempty"`
	Age               *QuantitativeValueOrRange       `json:"age,omitempty"`
	AgeCategory       []*FullNameRef                  `json:"ageCategory,omitempty"`
	Attribute         []FullNameRef                   `json:"attribute,omitempty"`
	Handedness        *FullNameRef                    `json:"handedness,omitempty"`
	Pathology         []FullNameRef                   `json:"pathology,omitempty"`
	Weight            *QuantitativeValueOrRange       `json:"weight,omitempty"`
	LookupLabel       string                          `json:"lookupLabel,omitempty"`
	ServiceLinks      []SpecimenServiceLinkCollection `json:"serviceLinks,omitempty"`
}

// DatasetV3 is the version-independent dataset concept
type DatasetV3 struct {
	InstanceV3
	DOI         string                    `json:"doi,omitempty"`
	HowToCite   string                    `json:"howToCite,omitempty"`
	Description string                    `json:"description,omitempty"`
	FullName    string                    `json:"fullName,omitempty"`
	Homepage    string                    `json:"homepage,omitempty"`
	Authors     []PersonOrOrganizationRef `json:"author,omitempty"`
	Custodians  []PersonOrOrganizationRef `json:"custodians,omitempty"`
	Versions    []Version                 `json:"versions,omitempty"`
}

// FileBundleRef is a bundle a file is grouped into
type FileBundleRef struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName,omitempty"`
	GroupingTypeLabel string `json:"groupingTypeLabel,omitempty"`
}

// FileSize is a storage size with its unit
type FileSize struct {
	Value int64  `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// FileV3 is a file of a file repository
type FileV3 struct {
	InstanceV3
	IRI                    string                      `json:"iri,omitempty"`
	Name                   string                      `json:"name,omitempty"`
	FileRepository         string                      `json:"fileRepository,omitempty"`
	Format                 *FullNameRef                `json:"format,omitempty"`
	Size                   *FileSize                   `json:"size,omitempty"`
	FileBundles            []FileBundleRef             `json:"fileBundles,omitempty"`
	ServiceLinks           []ServiceLink               `json:"serviceLinks,omitempty"`
	UsedInResearchProducts []ResearchProductVersionRef `json:"usedInResearchProducts,omitempty"`
}

// PersonOrOrganizationV3 is a person or organization with its contributions
type PersonOrOrganizationV3 struct {
	InstanceV3
	FullName                   string                        `json:"fullName,omitempty"`
	FamilyName                 string                        `json:"familyName,omitempty"`
	GivenName                  string                        `json:"givenName,omitempty"`
	CustodianOfDataset         []ResearchProductContribution `json:"custodianOfDataset,omitempty"`
	CustodianOfModel           []ResearchProductContribution `json:"custodianOfModel,omitempty"`
	CustodianOfSoftware        []ResearchProductContribution `json:"custodianOfSoftware,omitempty"`
	CustodianOfMetaDataModel   []ResearchProductContribution `json:"custodianOfMetaDataModel,omitempty"`
	DatasetContributions       []ResearchProductContribution `json:"datasetContributions,omitempty"`
	ModelContributions         []ResearchProductContribution `json:"modelContributions,omitempty"`
	SoftwareContributions      []ResearchProductContribution `json:"softwareContributions,omitempty"`
	MetaDataModelContributions []ResearchProductContribution `json:"metaDataModelContributions,omitempty"`
}

// ControlledTermV3 is a term of an openMINDS terminology
type ControlledTermV3 struct {
	InstanceV3
	Name                        string   `json:"name,omitempty"`
	Definition                  string   `json:"definition,omitempty"`
	Description                 string   `json:"description,omitempty"`
	Synonym                     []string `json:"synonym,omitempty"`
	KnowledgeSpaceLink          string   `json:"knowledgeSpaceLink,omitempty"`
	InterlexIdentifier          string   `json:"interlexIdentifier,omitempty"`
	PreferredOntologyIdentifier string   `json:"preferredOntologyIdentifier,omitempty"`
}
