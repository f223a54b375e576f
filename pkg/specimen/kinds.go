package specimen

import "github.com/platinummonkey/kgsearch/pkg/model"

// Kind is the type of a studied specimen
type Kind int

const (
	Subject Kind = iota
	SubjectGroup
	TissueSample
	TissueSampleCollection
)

// Relation types between a node and its parent
const (
	RelationPartOf         = "partOf"
	RelationDescendentFrom = "descendentFrom"
)

// Root node constants
const (
	RootKey   = "root"
	RootTitle = "Specimen"
	RootColor = "#e3dcdc"
)

type kindInfo struct {
	prefix        string
	specimenType  string
	specimenColor string
	stateType     string
	stateColor    string
	dataType      string
}

var kinds = []Kind{Subject, SubjectGroup, TissueSample, TissueSampleCollection}

func (k Kind) info() kindInfo {
	switch k {
	case Subject:
		return kindInfo{
			prefix:        "Subject",
			specimenType:  model.OpenMINDSRoot + "core/Subject",
			specimenColor: "#ffbe00",
			stateType:     model.OpenMINDSRoot + "core/SubjectState",
			stateColor:    "#e68d0d",
			dataType:      "Dataset.Subject",
		}
	case SubjectGroup:
		return kindInfo{
			prefix:        "Subject group",
			specimenType:  model.OpenMINDSRoot + "core/SubjectGroup",
			specimenColor: "#8a1f0d",
			stateType:     model.OpenMINDSRoot + "core/SubjectGroupState",
			stateColor:    "#8a1f0d",
			dataType:      "Dataset.SubjectGroup",
		}
	case TissueSample:
		return kindInfo{
			prefix:        "Tissue sample",
			specimenType:  model.OpenMINDSRoot + "core/TissueSample",
			specimenColor: "#3176e1",
			stateType:     model.OpenMINDSRoot + "core/TissueSampleState",
			stateColor:    "#393ac6",
			dataType:      "Dataset.TissueSample",
		}
	default:
		return kindInfo{
			prefix:        "Tissue sample collection",
			specimenType:  model.OpenMINDSRoot + "core/TissueSampleCollection",
			specimenColor: "#78b5b5",
			stateType:     model.OpenMINDSRoot + "core/TissueSampleCollectionState",
			stateColor:    "#497d7d",
			dataType:      "Dataset.TissueSampleCollection",
		}
	}
}

// Prefix is the human readable name of the kind ("Subject group")
func (k Kind) Prefix() string { return k.info().prefix }

func (k Kind) String() string { return k.Prefix() }

// isGroup reports whether specimens of the kind aggregate other specimens
func (k Kind) isGroup() bool {
	return k == SubjectGroup || k == TissueSampleCollection
}

func kindOfSpecimen(types []string) (Kind, bool) {
	for _, k := range kinds {
		if contains(types, k.info().specimenType) {
			return k, true
		}
	}
	return 0, false
}

func kindOfState(types []string) (Kind, bool) {
	for _, k := range kinds {
		if contains(types, k.info().stateType) {
			return k, true
		}
	}
	return 0, false
}

// labelForColor resolves the legend label of a node color. Specimen colors
// win over state colors sharing the same value.
func labelForColor(color string) string {
	for _, k := range kinds {
		if k.info().specimenColor == color {
			return k.info().prefix
		}
	}
	for _, k := range kinds {
		if k.info().stateColor == color {
			return k.info().prefix + " state"
		}
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
