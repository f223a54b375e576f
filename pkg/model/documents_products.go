package model

// entryRefs lists the versions of an overview
func entryRefs(entries []Children[VersionEntry]) []*InternalReference {
	result := make([]*InternalReference, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Children.Version)
	}
	return result
}

// ModelVersion is the search document of one model version
type ModelVersion struct {
	TargetBase
	Badges                 []string             `json:"badges,omitempty"`
	Trending               bool                 `json:"trending"`
	Last30DaysViews        int                  `json:"last30DaysViews"`
	Version                string               `json:"version,omitempty"`
	AllVersionRef          *InternalReference   `json:"allVersionRef,omitempty"`
	Versions               []*InternalReference `json:"versions,omitempty"`
	Searchable             bool                 `json:"-"`
	ReleasedAt             *Value[string]       `json:"releasedAt,omitempty"`
	ReleasedDateForSorting *Value[string]       `json:"releasedDateForSorting,omitempty"`
	Contributors           []*InternalReference `json:"contributors,omitempty"`
	DOI                    *Value[string]       `json:"doi,omitempty"`
	LicenseInfo            []*ExternalReference `json:"license_info,omitempty"`
	Projects               []*InternalReference `json:"projects,omitempty"`
	Custodians             []*InternalReference `json:"custodians,omitempty"`
	Homepage               *ExternalReference   `json:"homepage,omitempty"`
	Description            *Value[string]       `json:"description,omitempty"`
	NewInThisVersion       *Value[string]       `json:"newInThisVersion,omitempty"`
	StudyTargets           []*InternalReference `json:"studyTargets,omitempty"`
	BrainStructures        []*InternalReference `json:"brainStructures,omitempty"`
	Citation               *Value[string]       `json:"citation,omitempty"`
	CustomCitation         *Value[string]       `json:"customCitation,omitempty"`
	EmbeddedModelSource    *ExternalReference   `json:"embeddedModelSource,omitempty"`
	ExternalDownload       *ExternalReference   `json:"externalDownload,omitempty"`
	FileRepositoryID       string               `json:"fileRepositoryId,omitempty"`
	Embargo                *Value[string]       `json:"embargo,omitempty"`
	Accessibility          *Value[string]       `json:"accessibility,omitempty"`
	Publications           []*Value[string]     `json:"publications,omitempty"`
	Keywords               []*Value[string]     `json:"keywords,omitempty"`
	ModelFormat            []*InternalReference `json:"modelFormat,omitempty"`
	ModelScope             []*InternalReference `json:"modelScope,omitempty"`
	AbstractionLevel       []*InternalReference `json:"abstractionLevel,omitempty"`
	InputData              []*InternalReference `json:"inputData,omitempty"`
	ExternalInputData      []*ExternalReference `json:"externalInputData,omitempty"`
	OutputData             []*InternalReference `json:"outputData,omitempty"`
	ExternalOutputData     []*ExternalReference `json:"externalOutputData,omitempty"`
	LearningResources      []*ExternalReference `json:"learningResources,omitempty"`
	LivePapers             []*ExternalReference `json:"livePapers,omitempty"`
	QueryBuilderText       *Value[string]       `json:"queryBuilderText,omitempty"`
}

// IsSearchable reports whether the version is the one listed in search results
func (m *ModelVersion) IsSearchable() bool { return m.Searchable }

// InternalReferences implements TargetInstance
func (m *ModelVersion) InternalReferences() []*InternalReference {
	return refs(
		one(m.AllVersionRef),
		m.Versions,
		m.Contributors,
		m.Projects,
		m.Custodians,
		m.StudyTargets,
		m.BrainStructures,
		m.ModelFormat,
		m.ModelScope,
		m.AbstractionLevel,
		m.InputData,
		m.OutputData,
	)
}

// ModelOverview is the version independent document of a model
type ModelOverview struct {
	TargetBase
	Contributors     []*InternalReference     `json:"contributors,omitempty"`
	Custodians       []*InternalReference     `json:"custodians,omitempty"`
	Citation         *Value[string]           `json:"citation,omitempty"`
	CustomCitation   *Value[string]           `json:"customCitation,omitempty"`
	CitationHint     *Value[string]           `json:"citationHint,omitempty"`
	DOI              *Value[string]           `json:"doi,omitempty"`
	Homepage         *ExternalReference       `json:"homepage,omitempty"`
	Description      *Value[string]           `json:"description,omitempty"`
	StudyTarget      []*InternalReference     `json:"studyTarget,omitempty"`
	Scope            *InternalReference       `json:"scope,omitempty"`
	AbstractionLevel *InternalReference       `json:"abstractionLevel,omitempty"`
	Models           []Children[VersionEntry] `json:"models,omitempty"`
	QueryBuilderText *Value[string]           `json:"queryBuilderText,omitempty"`
}

// InternalReferences implements TargetInstance
func (m *ModelOverview) InternalReferences() []*InternalReference {
	return refs(m.Contributors, m.Custodians, m.StudyTarget, one(m.Scope, m.AbstractionLevel), entryRefs(m.Models))
}

// FileFormatEntry is a file format a software reads or writes
type FileFormatEntry struct {
	Name             *InternalReference `json:"name"`
	FileExtensions   []*Value[string]   `json:"fileExtensions,omitempty"`
	RelatedMediaType *ExternalReference `json:"relatedMediaType,omitempty"`
}

// SoftwareVersion is the search document of one software version
type SoftwareVersion struct {
	TargetBase
	Badges                 []string                    `json:"badges,omitempty"`
	Trending               bool                        `json:"trending"`
	Last30DaysViews        int                         `json:"last30DaysViews"`
	Version                string                      `json:"version,omitempty"`
	Versions               []*InternalReference        `json:"versions,omitempty"`
	Searchable             bool                        `json:"-"`
	ReleasedAt             *Value[string]              `json:"releasedAt,omitempty"`
	ReleasedDateForSorting *Value[string]              `json:"releasedDateForSorting,omitempty"`
	Developers             []*InternalReference        `json:"developers,omitempty"`
	Citation               *Value[string]              `json:"citation,omitempty"`
	CustomCitation         *Value[string]              `json:"customCitation,omitempty"`
	DOI                    *Value[string]              `json:"doi,omitempty"`
	License                []*ExternalReference        `json:"license,omitempty"`
	LicenseForFilter       []*Value[string]            `json:"licenseForFilter,omitempty"`
	Copyright              *Value[string]              `json:"copyright,omitempty"`
	Projects               []*InternalReference        `json:"projects,omitempty"`
	Custodians             []*InternalReference        `json:"custodians,omitempty"`
	Description            *Value[string]              `json:"description,omitempty"`
	NewInThisVersion       *Value[string]              `json:"newInThisVersion,omitempty"`
	Publications           []*Value[string]            `json:"publications,omitempty"`
	AppCategory            []*InternalReference        `json:"appCategory,omitempty"`
	OperatingSystem        []*InternalReference        `json:"operatingSystem,omitempty"`
	Devices                []*InternalReference        `json:"devices,omitempty"`
	ProgrammingLanguages   []*InternalReference        `json:"programmingLanguages,omitempty"`
	Requirements           []*Value[string]            `json:"requirements,omitempty"`
	Features               []*InternalReference        `json:"features,omitempty"`
	Languages              []*InternalReference        `json:"languages,omitempty"`
	Homepage               *ExternalReference          `json:"homepage,omitempty"`
	SourceCode             *ExternalReference          `json:"sourceCode,omitempty"`
	Documentation          []*ExternalReference        `json:"documentation,omitempty"`
	Support                []*ExternalReference        `json:"support,omitempty"`
	InputFormat            []Children[FileFormatEntry] `json:"inputFormat,omitempty"`
	InputFormatsForFilter  []*Value[string]            `json:"inputFormatsForFilter,omitempty"`
	OutputFormats          []Children[FileFormatEntry] `json:"outputFormats,omitempty"`
	OutputFormatsForFilter []*Value[string]            `json:"outputFormatsForFilter,omitempty"`
	Components             []*InternalReference        `json:"components,omitempty"`
	QueryBuilderText       *Value[string]              `json:"queryBuilderText,omitempty"`
}

// IsSearchable reports whether the version is the one listed in search results
func (s *SoftwareVersion) IsSearchable() bool { return s.Searchable }

// InternalReferences implements TargetInstance
func (s *SoftwareVersion) InternalReferences() []*InternalReference {
	result := refs(
		s.Versions,
		s.Developers,
		s.Projects,
		s.Custodians,
		s.AppCategory,
		s.OperatingSystem,
		s.Devices,
		s.ProgrammingLanguages,
		s.Features,
		s.Languages,
		s.Components,
	)
	for _, f := range append(append([]Children[FileFormatEntry](nil), s.InputFormat...), s.OutputFormats...) {
		result = append(result, refs(one(f.Children.Name))...)
	}
	return result
}

// SoftwareOverview is the version independent document of a software
type SoftwareOverview struct {
	TargetBase
	Developers       []*InternalReference     `json:"developers,omitempty"`
	Custodians       []*InternalReference     `json:"custodians,omitempty"`
	Citation         *Value[string]           `json:"citation,omitempty"`
	CustomCitation   *Value[string]           `json:"customCitation,omitempty"`
	CitationHint     *Value[string]           `json:"citationHint,omitempty"`
	DOI              *Value[string]           `json:"doi,omitempty"`
	Description      *Value[string]           `json:"description,omitempty"`
	SoftwareVersions []Children[VersionEntry] `json:"softwareVersions,omitempty"`
	QueryBuilderText *Value[string]           `json:"queryBuilderText,omitempty"`
}

// InternalReferences implements TargetInstance
func (s *SoftwareOverview) InternalReferences() []*InternalReference {
	return refs(s.Developers, s.Custodians, entryRefs(s.SoftwareVersions))
}

// Project is the search document of a project
type Project struct {
	TargetBase
	Description      *Value[string]       `json:"description,omitempty"`
	Dataset          []*InternalReference `json:"dataset,omitempty"`
	Models           []*InternalReference `json:"models,omitempty"`
	Software         []*InternalReference `json:"software,omitempty"`
	MetaDataModels   []*InternalReference `json:"metaDataModels,omitempty"`
	Publications     []*Value[string]     `json:"publications,omitempty"`
	QueryBuilderText *Value[string]       `json:"queryBuilderText,omitempty"`
}

// InternalReferences implements TargetInstance
func (p *Project) InternalReferences() []*InternalReference {
	return refs(p.Dataset, p.Models, p.Software, p.MetaDataModels)
}

// BehavioralProtocol is the search document of a behavioral protocol
type BehavioralProtocol struct {
	TargetBase
	OfficialAbbreviation *Value[string]     `json:"officialAbbreviation,omitempty"`
	Description          *Value[string]     `json:"description,omitempty"`
	DescribedIn          *Value[string]     `json:"describedIn,omitempty"`
	DescribedInLink      *ExternalReference `json:"describedInLink,omitempty"`
	QueryBuilderText     *Value[string]     `json:"queryBuilderText,omitempty"`
}

// InternalReferences implements TargetInstance
func (b *BehavioralProtocol) InternalReferences() []*InternalReference { return nil }

// Protocol is the search document of a protocol
type Protocol struct {
	TargetBase
	Description      *Value[string]       `json:"description,omitempty"`
	DescribedIn      *Value[string]       `json:"describedIn,omitempty"`
	DescribedInLink  *ExternalReference   `json:"describedInLink,omitempty"`
	Datasets         []*InternalReference `json:"datasets,omitempty"`
	Technique        []*InternalReference `json:"technique,omitempty"`
	StimulusType     []*InternalReference `json:"stimulusType,omitempty"`
	QueryBuilderText *Value[string]       `json:"queryBuilderText,omitempty"`
}

// InternalReferences implements TargetInstance
func (p *Protocol) InternalReferences() []*InternalReference {
	return refs(p.Datasets, p.Technique, p.StimulusType)
}
