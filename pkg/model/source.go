package model

import "time"

// Source is a raw instance returned by the graph backend
type Source interface {
	// SourceID is the key translation errors are recorded against
	SourceID() string
	// SourceIdentifiers returns every alias of the instance
	SourceIdentifiers() []string
}

// InstanceV3 is the common header of openMINDS V3 instances
type InstanceV3 struct {
	ID         string   `json:"id"`
	Identifier []string `json:"identifier,omitempty"`
	Type       []string `json:"type,omitempty"`
}

// SourceID returns the uuid of the instance
func (i InstanceV3) SourceID() string { return UUIDOf(i.ID) }

// SourceIdentifiers returns the aliases of the instance
func (i InstanceV3) SourceIdentifiers() []string { return i.Identifier }

// UUID returns the trailing segment of the instance IRI
func (i InstanceV3) UUID() string { return UUIDOf(i.ID) }

// PrimaryType returns the first semantic type
func (i InstanceV3) PrimaryType() string {
	if len(i.Type) == 0 {
		return ""
	}
	return i.Type[0]
}

// InstanceV2 is the common header of V1/V2 instances, keyed by their identifier
type InstanceV2 struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	EditorID   string `json:"editorId,omitempty"`
}

// SourceID returns the identifier of the instance
func (i InstanceV2) SourceID() string { return i.Identifier }

// SourceIdentifiers returns the identifier of the instance
func (i InstanceV2) SourceIdentifiers() []string {
	if i.Identifier == "" {
		return nil
	}
	return []string{i.Identifier}
}

// FullNameRef is a named reference to another instance
type FullNameRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
}

// PersonOrOrganizationRef references an author or custodian
type PersonOrOrganizationRef struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
}

// ResearchProductVersionRef references a research product version
type ResearchProductVersionRef struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName,omitempty"`
	FallbackName      string `json:"fallbackName,omitempty"`
	VersionIdentifier string `json:"versionIdentifier,omitempty"`
	Grouping          string `json:"grouping,omitempty"`
	Tab               string `json:"-"`
}

// ResearchProductContribution is a research product an actor contributed to
type ResearchProductContribution struct {
	ID                      string                      `json:"id"`
	FullName                string                      `json:"fullName,omitempty"`
	FallbackName            string                      `json:"fallbackName,omitempty"`
	HowToCite               string                      `json:"howToCite,omitempty"`
	DOI                     string                      `json:"doi,omitempty"`
	ResearchProductVersions []ResearchProductVersionRef `json:"researchProductVersions,omitempty"`
}

// ExternalRef is a named link
type ExternalRef struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Version is one element of a version chain
type Version struct {
	ID                string `json:"id"`
	VersionIdentifier string `json:"versionIdentifier,omitempty"`
	VersionInnovation string `json:"versionInnovation,omitempty"`
	IsNewVersionOf    string `json:"isNewVersionOf,omitempty"`
}

// FileRepository is the storage container of a research product
type FileRepository struct {
	ID        string `json:"id"`
	IRI       string `json:"iri,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	FirstFile string `json:"firstFile,omitempty"`
}

// DigitalIdentifierType tells how a publication identifier is rendered
type DigitalIdentifierType string

const (
	IdentifierDOI    DigitalIdentifierType = "DOI"
	IdentifierHandle DigitalIdentifierType = "HANDLE"
)

// RelatedPublication is a publication linked to a research product
type RelatedPublication struct {
	Identifier string   `json:"identifier"`
	Type       []string `json:"type,omitempty"`
}

// File is a file of a repository with its usage roles
type File struct {
	IRI                string   `json:"iri"`
	Name               string   `json:"name,omitempty"`
	Roles              []string `json:"roles,omitempty"`
	ContentDescription string   `json:"contentDescription,omitempty"`
}

// ServiceLink opens a file or bundle in an external viewer
type ServiceLink struct {
	URL     string `json:"url"`
	Service string `json:"service,omitempty"`
	Label   string `json:"label,omitempty"`
	File    *File  `json:"file,omitempty"`
}

// DisplayLabel is the human readable label of the link
func (s ServiceLink) DisplayLabel() string {
	if s.Label == "" || s.Service == "" {
		return ""
	}
	return "Open " + s.Label + " in " + s.Service
}

// NameWithIdentifier is a controlled term referenced by its identifier
type NameWithIdentifier struct {
	Name       string `json:"name,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// BrainAtlasRef references a brain atlas or one of its versions
type BrainAtlasRef struct {
	FullName          string `json:"fullName,omitempty"`
	VersionIdentifier string `json:"versionIdentifier,omitempty"`
}

// AnatomicalLocation is a study target or sample location which may belong to an atlas
type AnatomicalLocation struct {
	ID                string         `json:"id"`
	FullName          string         `json:"fullName,omitempty"`
	FallbackName      string         `json:"fallbackName,omitempty"`
	VersionIdentifier string         `json:"versionIdentifier,omitempty"`
	BrainAtlas        string         `json:"brainAtlas,omitempty"`
	BrainAtlasVersion *BrainAtlasRef `json:"brainAtlasVersion,omitempty"`
}

// StudyTarget is an anatomical location carrying its own semantic types
type StudyTarget struct {
	AnatomicalLocation
	StudyTargetType []string `json:"studyTargetType,omitempty"`
}

// DOI is a digital identifier optionally pointing at a research product of the graph
type DOI struct {
	Identifier      string                     `json:"identifier"`
	ResearchProduct *ResearchProductVersionRef `json:"researchProduct,omitempty"`
}

// ReleaseInfo carries the release metadata shared by released instances
type ReleaseInfo struct {
	FirstReleasedAt *time.Time `json:"firstReleasedAt,omitempty"`
	LastReleasedAt  *time.Time `json:"lastReleasedAt,omitempty"`
}

// ResolvedType classifies the publication identifier
func (p RelatedPublication) ResolvedType() DigitalIdentifierType {
	for _, t := range p.Type {
		switch {
		case hasSuffixFold(t, "/DOI"):
			return IdentifierDOI
		case hasSuffixFold(t, "/HANDLE"):
			return IdentifierHandle
		}
	}
	switch {
	case containsFold(p.Identifier, "hdl.handle.net"):
		return IdentifierHandle
	case containsFold(p.Identifier, "doi.org"), hasPrefixFold(p.Identifier, "10."):
		return IdentifierDOI
	}
	return ""
}
