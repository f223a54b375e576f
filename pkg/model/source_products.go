package model

import "time"

// ProductVersion carries what every openMINDS research product version shares
type ProductVersion struct {
	InstanceV3
	ReleaseInfo
	FullName            string                    `json:"fullName,omitempty"`
	DOI                 string                    `json:"doi,omitempty"`
	HowToCite           string                    `json:"howToCite,omitempty"`
	Description         string                    `json:"description,omitempty"`
	Homepage            string                    `json:"homepage,omitempty"`
	Version             string                    `json:"version,omitempty"`
	VersionInnovation   string                    `json:"versionInnovation,omitempty"`
	IssueDate           string                    `json:"issueDate,omitempty"`
	ReleaseDate         *time.Time                `json:"releaseDate,omitempty"`
	Developer           []PersonOrOrganizationRef `json:"developer,omitempty"`
	Custodian           []PersonOrOrganizationRef `json:"custodian,omitempty"`
	Projects            []FullNameRef             `json:"projects,omitempty"`
	RelatedPublications []RelatedPublication      `json:"relatedPublications,omitempty"`
	Last30DaysViews     int                       `json:"last30DaysViews,omitempty"`
}

// ProductVersions is the version independent product a version belongs to
type ProductVersions struct {
	ID          string                    `json:"id"`
	FullName    string                    `json:"fullName,omitempty"`
	Description string                    `json:"description,omitempty"`
	Homepage    string                    `json:"homepage,omitempty"`
	Versions    []Version                 `json:"versions,omitempty"`
	Developer   []PersonOrOrganizationRef `json:"developer,omitempty"`
	Custodian   []PersonOrOrganizationRef `json:"custodian,omitempty"`
	Projects    []FullNameRef             `json:"projects,omitempty"`
}

// ModelVersionV3 is an openMINDS model version
type ModelVersionV3 struct {
	ProductVersion
	Keyword           StringList          `json:"keyword,omitempty"`
	License           []ExternalRef       `json:"license,omitempty"`
	Accessibility     *NameWithIdentifier `json:"accessibility,omitempty"`
	FileRepository    *FileRepository     `json:"fileRepository,omitempty"`
	ModelFormat       []FullNameRef       `json:"modelFormat,omitempty"`
	Model             *ModelVersions      `json:"model,omitempty"`
	LearningResources []ExternalRef       `json:"learningResource,omitempty"`
	LivePapers        []ExternalRef       `json:"livePapers,omitempty"`

	InputDOIs                         []DOI                       `json:"inputDOIs,omitempty"`
	InputURLs                         []string                    `json:"inputURLs,omitempty"`
	InputFromFiles                    []ResearchProductVersionRef `json:"inputResearchProductsFromInputFiles,omitempty"`
	InputFromFileBundles              []ResearchProductVersionRef `json:"inputResearchProductsFromInputFileBundles,omitempty"`
	InputFromReverseOutputDOIs        []ResearchProductVersionRef `json:"inputResearchProductsFromReverseOutputDOIs,omitempty"`
	InputFromReverseOutputFiles       []ResearchProductVersionRef `json:"inputResearchProductsFromReverseOutputFiles,omitempty"`
	InputFromReverseOutputFileBundles []ResearchProductVersionRef `json:"inputResearchProductsFromReverseOutputFileBundles,omitempty"`
	OutputDOIs                        []DOI                       `json:"outputDOIs,omitempty"`
	OutputURLs                        []string                    `json:"outputURLs,omitempty"`
	OutputFromReverseInputDOIs        []ResearchProductVersionRef `json:"outputResearchProductsFromReverseInputDOIs,omitempty"`
	OutputFromReverseInputFiles       []ResearchProductVersionRef `json:"outputResearchProductsFromReverseInputFiles,omitempty"`
	OutputFromReverseInputFileBundles []ResearchProductVersionRef `json:"outputResearchProductsFromReverseInputFileBundles,omitempty"`
	OutputFromOutputFiles             []ResearchProductVersionRef `json:"outputResearchProductsFromOutputFiles,omitempty"`
	OutputFromOutputFileBundles       []ResearchProductVersionRef `json:"outputResearchProductsFromOutputFileBundles,omitempty"`
}

// ModelVersions is the model a version belongs to
type ModelVersions struct {
	ProductVersions
	StudyTarget      []StudyTarget `json:"studyTarget,omitempty"`
	AbstractionLevel *FullNameRef  `json:"abstractionLevel,omitempty"`
	Scope            *FullNameRef  `json:"modelScope,omitempty"`
}

// ModelV3 is the version independent model concept
type ModelV3 struct {
	InstanceV3
	Title            string                    `json:"title,omitempty"`
	Description      string                    `json:"description,omitempty"`
	Homepage         string                    `json:"homepage,omitempty"`
	DOI              string                    `json:"doi,omitempty"`
	HowToCite        string                    `json:"howToCite,omitempty"`
	Developer        []PersonOrOrganizationRef `json:"developer,omitempty"`
	Custodian        []PersonOrOrganizationRef `json:"custodian,omitempty"`
	StudyTarget      []FullNameRef             `json:"studyTarget,omitempty"`
	AbstractionLevel *FullNameRef              `json:"abstractionLevel,omitempty"`
	Scope            *FullNameRef              `json:"modelScope,omitempty"`
	Versions         []Version                 `json:"versions,omitempty"`
}

// License is a license with the short name used for filtering
type License struct {
	ExternalRef
	ShortName string `json:"shortName,omitempty"`
}

// Copyright names the holders of a copyright and its year
type Copyright struct {
	Year   string                    `json:"year,omitempty"`
	Holder []PersonOrOrganizationRef `json:"holder,omitempty"`
}

// FileFormat is a content type a software reads or writes
type FileFormat struct {
	ID               string   `json:"id"`
	FullName         string   `json:"fullName,omitempty"`
	FileExtensions   []string `json:"fileExtensions,omitempty"`
	RelatedMediaType string   `json:"relatedMediaType,omitempty"`
}

// SoftwareComponent is another software version a software is built from
type SoftwareComponent struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName,omitempty"`
	FallbackFullName  string `json:"fallbackFullName,omitempty"`
	VersionIdentifier string `json:"versionIdentifier,omitempty"`
}

// SoftwareVersionV3 is an openMINDS software version
type SoftwareVersionV3 struct {
	ProductVersion
	Swhid                    string              `json:"swhid,omitempty"`
	License                  []License           `json:"license,omitempty"`
	Copyright                *Copyright          `json:"copyright,omitempty"`
	ApplicationCategory      []FullNameRef       `json:"applicationCategory,omitempty"`
	OperatingSystem          []FullNameRef       `json:"operatingSystem,omitempty"`
	Device                   []FullNameRef       `json:"device,omitempty"`
	ProgrammingLanguage      []FullNameRef       `json:"programmingLanguage,omitempty"`
	Requirement              []string            `json:"requirement,omitempty"`
	Feature                  []FullNameRef       `json:"feature,omitempty"`
	Language                 []FullNameRef       `json:"language,omitempty"`
	Repository               string              `json:"repository,omitempty"`
	DocumentationDOI         string              `json:"documentationDOI,omitempty"`
	DocumentationURL         string              `json:"documentationURL,omitempty"`
	DocumentationWebResource string              `json:"documentationWebResource,omitempty"`
	DocumentationFile        string              `json:"documentationFile,omitempty"`
	SupportChannel           []string            `json:"supportChannel,omitempty"`
	InputFormat              []FileFormat        `json:"inputFormat,omitempty"`
	OutputFormat             []FileFormat        `json:"outputFormat,omitempty"`
	Components               []SoftwareComponent `json:"components,omitempty"`
	Software                 *ProductVersions    `json:"software,omitempty"`
}

// SoftwareV3 is the version independent software concept
type SoftwareV3 struct {
	InstanceV3
	Title       string                    `json:"title,omitempty"`
	Description string                    `json:"description,omitempty"`
	DOI         string                    `json:"doi,omitempty"`
	HowToCite   string                    `json:"howToCite,omitempty"`
	Developer   []PersonOrOrganizationRef `json:"developer,omitempty"`
	Custodian   []PersonOrOrganizationRef `json:"custodian,omitempty"`
	Versions    []Version                 `json:"versions,omitempty"`
}

// ProjectV3 is an openMINDS project with the research products it produced
type ProjectV3 struct {
	InstanceV3
	Title          string                      `json:"title,omitempty"`
	Description    string                      `json:"description,omitempty"`
	Datasets       []ResearchProductVersionRef `json:"datasets,omitempty"`
	Models         []ResearchProductVersionRef `json:"models,omitempty"`
	Software       []ResearchProductVersionRef `json:"software,omitempty"`
	MetaDataModels []ResearchProductVersionRef `json:"metaDataModels,omitempty"`
	Publications   []RelatedPublication        `json:"publications,omitempty"`
}

// DescribedIn is where a protocol is documented: a DOI, a file or a URL
type DescribedIn struct {
	DescribedInDOI  string `json:"describedInDOI,omitempty"`
	DescribedInFile *File  `json:"describedInFile,omitempty"`
	DescribedInURL  string `json:"describedInUrl,omitempty"`
}

// BehavioralProtocolV3 is an openMINDS behavioral protocol
type BehavioralProtocolV3 struct {
	InstanceV3
	DescribedIn
	Name               string `json:"name,omitempty"`
	InternalIdentifier string `json:"internalIdentifier,omitempty"`
	Description        string `json:"description,omitempty"`
}

// ProtocolV3 is an openMINDS protocol with the datasets applying it
type ProtocolV3 struct {
	InstanceV3
	DescribedIn
	Name                string                      `json:"name,omitempty"`
	Description         string                      `json:"description,omitempty"`
	Technique           []FullNameRef               `json:"technique,omitempty"`
	StimulusType        []FullNameRef               `json:"stimulusType,omitempty"`
	DatasetsDirect      []ResearchProductVersionRef `json:"datasetsDirect,omitempty"`
	DatasetsByExecution []ResearchProductVersionRef `json:"datasetsByExecution,omitempty"`
}
