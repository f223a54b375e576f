package model

import "time"

// SourceReference is a V1/V2 link to another instance
type SourceReference struct {
	RelativeURL string `json:"relativeUrl,omitempty"`
	Identifier  string `json:"identifier,omitempty"`
	Name        string `json:"name,omitempty"`
}

// SpecimenGroup lists the datasets a V1 subject was used in
type SpecimenGroup struct {
	ComponentName StringList        `json:"componentName,omitempty"`
	Instances     []SourceReference `json:"instances,omitempty"`
}

// PersonV2 is a person of the V1/V2 schema generations
type PersonV2 struct {
	InstanceV2
	Title              string              `json:"title,omitempty"`
	FirstReleaseAt     *time.Time          `json:"firstReleaseAt,omitempty"`
	LastReleaseAt      *time.Time          `json:"lastReleaseAt,omitempty"`
	Contributions      []SourceReference   `json:"contributions,omitempty"`
	CustodianOf        []SourceReference   `json:"custodianOf,omitempty"`
	CustodianOfModel   []SourceReference   `json:"custodianOfModel,omitempty"`
	ModelContributions []SourceReference   `json:"modelContributions,omitempty"`
	Publications       []PersonPublication `json:"publications,omitempty"`
}

// PersonPublication is a publication of a V1/V2 person
type PersonPublication struct {
	Citation string `json:"citation,omitempty"`
	DOI      string `json:"doi,omitempty"`
}

// SubjectV1 is a V1 experimental subject
type SubjectV1 struct {
	InstanceV2
	Title          string            `json:"title,omitempty"`
	Weight         string            `json:"weight,omitempty"`
	Genotype       string            `json:"genotype,omitempty"`
	Strain         string            `json:"strain,omitempty"`
	Strains        StringList        `json:"strains,omitempty"`
	Age            string            `json:"age,omitempty"`
	FirstReleaseAt *time.Time        `json:"firstReleaseAt,omitempty"`
	LastReleaseAt  *time.Time        `json:"lastReleaseAt,omitempty"`
	AgeCategory    []string          `json:"agecategory,omitempty"`
	Species        []string          `json:"species,omitempty"`
	Sex            []string          `json:"sex,omitempty"`
	Samples        []SourceReference `json:"samples,omitempty"`
	DatasetExists  []string          `json:"datasetExists,omitempty"`
	Datasets       []SpecimenGroup   `json:"datasets,omitempty"`
}
