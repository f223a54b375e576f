package specimen

import (
	"sort"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// Data is the payload of a hierarchy node. Type tells which specimen or state
// kind it describes ("Dataset.Subject", "Dataset.TissueSampleState"...).
type Data struct {
	Type               *model.Value[string]       `json:"type"`
	ID                 string                     `json:"id,omitempty"`
	Title              *model.Value[string]       `json:"title,omitempty"`
	NumberOfSubjects   *model.Value[string]       `json:"numberOfSubjects,omitempty"`
	TissueSamples      *model.Value[string]       `json:"tissueSamples,omitempty"`
	TissueSampleType   []*model.InternalReference `json:"tissueSampleType,omitempty"`
	Species            []*model.InternalReference `json:"species,omitempty"`
	Sex                []*model.InternalReference `json:"sex,omitempty"`
	Strain             []*model.InternalReference `json:"strain,omitempty"`
	GeneticStrainType  []*model.InternalReference `json:"geneticStrainType,omitempty"`
	AnatomicalLocation []*model.InternalReference `json:"anatomicalLocation,omitempty"`
	Origin             []*model.InternalReference `json:"origin,omitempty"`
	Laterality         []*model.InternalReference `json:"laterality,omitempty"`
	Age                *model.Value[string]       `json:"age,omitempty"`
	AgeCategory        []*model.InternalReference `json:"ageCategory,omitempty"`
	Attributes         []*model.InternalReference `json:"attributes,omitempty"`
	Handedness         []*model.InternalReference `json:"handedness,omitempty"`
	Pathology          []*model.InternalReference `json:"pathology,omitempty"`
	Weight             *model.Value[string]       `json:"weight,omitempty"`
	AdditionalRemarks  *model.Value[string]       `json:"additionalRemarks,omitempty"`
	ServiceLinks       []*model.ExternalReference `json:"serviceLinks,omitempty"`
	OtherPublications  []*model.InternalReference `json:"otherPublications,omitempty"`
}

// InternalReferences implements model.ReferenceHolder
func (d *Data) InternalReferences() []*model.InternalReference {
	return model.CollectReferences(
		d.TissueSampleType,
		d.Species,
		d.Sex,
		d.Strain,
		d.GeneticStrainType,
		d.AnatomicalLocation,
		d.Origin,
		d.Laterality,
		d.AgeCategory,
		d.Attributes,
		d.Handedness,
		d.Pathology,
		d.OtherPublications,
	)
}

func newData(dataType string) *Data {
	return &Data{Type: model.NewValue(dataType)}
}

func optional(s string) *model.Value[string] {
	if blank(s) {
		return nil
	}
	return model.NewValue(s)
}

// refList maps named references, nil when empty
func refList(items []model.FullNameRef) []*model.InternalReference {
	if len(items) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(items))
	for _, i := range items {
		result = append(result, i.Ref())
	}
	return result
}

func refOne(item *model.FullNameRef) []*model.InternalReference {
	if item == nil {
		return nil
	}
	return []*model.InternalReference{item.Ref()}
}

func sortRefs(rs []*model.InternalReference) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Less(rs[j]) })
}

// distinctRefs drops references pointing at the same target with the same label
func distinctRefs(rs []*model.InternalReference) []*model.InternalReference {
	seen := make(map[refKey]struct{}, len(rs))
	result := make([]*model.InternalReference, 0, len(rs))
	for _, r := range rs {
		k := keyOf(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, r)
	}
	return result
}

type refKey struct {
	reference string
	value     string
}

func keyOf(r *model.InternalReference) refKey {
	return refKey{reference: r.Reference, value: r.Value}
}

// fillSpecies sets species, strain and genetic strain type. Strains point at
// their species which is listed instead, the strains being kept aside.
func (d *Data) fillSpecies(species []model.SpeciesOrStrain) {
	if len(species) == 0 {
		return
	}
	var indirect, direct []model.FullNameRef
	var strainTypes []model.FullNameRef
	seenStrainTypes := map[model.FullNameRef]struct{}{}
	for _, s := range species {
		direct = append(direct, s.FullNameRef)
		if s.Species != nil {
			indirect = append(indirect, *s.Species)
		}
		if s.GeneticStrainType != nil {
			if _, ok := seenStrainTypes[*s.GeneticStrainType]; !ok {
				seenStrainTypes[*s.GeneticStrainType] = struct{}{}
				strainTypes = append(strainTypes, *s.GeneticStrainType)
			}
		}
	}
	d.GeneticStrainType = refList(strainTypes)
	if len(indirect) > 0 {
		d.Species = refList(indirect)
		d.Strain = refList(direct)
		return
	}
	d.Species = refList(direct)
}

func (d *Data) fillStateValues(state *model.StudiedState) {
	d.Attributes = refList(state.Attribute)
	d.Pathology = refList(state.Pathology)
	d.Handedness = refOne(state.Handedness)
	if state.Weight != nil {
		d.Weight = optional(state.Weight.DisplayString())
	}
	if state.Age != nil {
		d.Age = optional(state.Age.DisplayString())
	}
	var categories []model.FullNameRef
	for _, c := range state.AgeCategory {
		if c != nil {
			categories = append(categories, *c)
		}
	}
	d.AgeCategory = refList(categories)
}

// mergeRemarks joins the remarks of a specimen and of its state
func mergeRemarks(specimen, state string) *model.Value[string] {
	switch {
	case !blank(specimen) && !blank(state):
		return model.NewValue(specimen + "\n\n" + state)
	case !blank(state):
		return model.NewValue(state)
	default:
		return optional(specimen)
	}
}

// serviceLinks merges the links of the collections into existing, sorted by label
func serviceLinks(collections []model.SpecimenServiceLinkCollection, existing []*model.ExternalReference) []*model.ExternalReference {
	links := append([]*model.ExternalReference{}, existing...)
	for _, c := range collections {
		for _, l := range append(append([]model.SpecimenServiceLink{}, c.FromFile...), c.FromFileBundle...) {
			links = append(links, model.NewLink(l.OpenDataIn, l.DisplayLabel()))
		}
	}
	if len(links) == 0 {
		return nil
	}
	seen := map[model.ExternalReference]struct{}{}
	result := make([]*model.ExternalReference, 0, len(links))
	for _, l := range links {
		if _, ok := seen[*l]; ok {
			continue
		}
		seen[*l] = struct{}{}
		result = append(result, l)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result
}
