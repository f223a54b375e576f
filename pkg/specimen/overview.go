package specimen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// OverviewType is the data type of the root node
const OverviewType = "Dataset.SpecimenOverview"

// Overview aggregates the specimens of a hierarchy. Each aggregated reference
// carries counts such as "2 subjects" in its Count field.
type Overview struct {
	Type                            *model.Value[string]       `json:"type"`
	Title                           *model.Value[string]       `json:"title,omitempty"`
	NumberOfSubjectGroups           *model.Value[string]       `json:"numberOfSubjectGroups,omitempty"`
	NumberOfSubjects                *model.Value[string]       `json:"numberOfSubjects,omitempty"`
	NumberOfTissueSampleCollections *model.Value[string]       `json:"numberOfTissueSampleCollections,omitempty"`
	NumberOfTissueSamples           *model.Value[string]       `json:"numberOfTissueSamples,omitempty"`
	Species                         []*model.InternalReference `json:"species,omitempty"`
	Sex                             []*model.InternalReference `json:"sex,omitempty"`
	Strains                         []*model.InternalReference `json:"strains,omitempty"`
	GeneticStrainTypes              []*model.InternalReference `json:"geneticStrainTypes,omitempty"`
	Pathology                       []*model.InternalReference `json:"pathology,omitempty"`

	ids       map[Kind]*orderedSet
	locations map[refKey]*model.InternalReference
	collected map[string]*collection
}

// collection counts, per reference, the specimens of each kind referencing it
type collection struct {
	order []refKey
	refs  map[refKey]*model.InternalReference
	kinds map[refKey]map[string]*orderedSet
}

type orderedSet struct {
	order []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func newOverview() *Overview {
	return &Overview{
		Type:      model.NewValue(OverviewType),
		Title:     model.NewValue("Overview"),
		ids:       map[Kind]*orderedSet{},
		locations: map[refKey]*model.InternalReference{},
		collected: map[string]*collection{},
	}
}

// InternalReferences implements model.ReferenceHolder
func (o *Overview) InternalReferences() []*model.InternalReference {
	return model.CollectReferences(o.Species, o.Sex, o.Strains, o.GeneticStrainTypes, o.Pathology)
}

// AllSpecimenIDs lists the ids of every aggregated specimen
func (o *Overview) AllSpecimenIDs() []string {
	var all []string
	for _, k := range []Kind{Subject, SubjectGroup, TissueSample, TissueSampleCollection} {
		if s := o.ids[k]; s != nil {
			all = append(all, s.order...)
		}
	}
	return model.Distinct(all)
}

// AnatomicalLocationsOfTissueSamples lists the distinct sample locations sorted by label
func (o *Overview) AnatomicalLocationsOfTissueSamples() []*model.InternalReference {
	if len(o.locations) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(o.locations))
	for _, r := range o.locations {
		result = append(result, r)
	}
	sortRefs(result)
	return result
}

func (o *Overview) aggregate(k Kind, id string, d *Data) {
	if o.ids[k] == nil {
		o.ids[k] = newOrderedSet()
	}
	o.ids[k].add(id)
	prefix := k.Prefix()
	o.collect(id, "sex", d.Sex, prefix)
	o.collect(id, "strains", d.Strain, prefix)
	o.collect(id, "species", d.Species, prefix)
	o.collect(id, "geneticStrainTypes", d.GeneticStrainType, prefix)
	o.collect(id, "pathology", d.Pathology, prefix)
	if k == TissueSample || k == TissueSampleCollection {
		for _, l := range d.AnatomicalLocation {
			if _, ok := o.locations[keyOf(l)]; !ok {
				o.locations[keyOf(l)] = l
			}
		}
	}
}

func (o *Overview) collect(sourceID, key string, rs []*model.InternalReference, typeName string) {
	c := o.collected[key]
	if c == nil {
		c = &collection{refs: map[refKey]*model.InternalReference{}, kinds: map[refKey]map[string]*orderedSet{}}
		o.collected[key] = c
	}
	for _, r := range rs {
		if r == nil {
			continue
		}
		k := keyOf(r)
		if _, ok := c.refs[k]; !ok {
			c.order = append(c.order, k)
			c.refs[k] = &model.InternalReference{Reference: r.Reference, Value: r.Value}
			c.kinds[k] = map[string]*orderedSet{}
		}
		if c.kinds[k][typeName] == nil {
			c.kinds[k][typeName] = newOrderedSet()
		}
		c.kinds[k][typeName].add(sourceID)
	}
}

// flush renders counts and the aggregated reference lists
func (o *Overview) flush() {
	o.NumberOfSubjects = count(o.ids[Subject])
	o.NumberOfSubjectGroups = count(o.ids[SubjectGroup])
	o.NumberOfTissueSamples = count(o.ids[TissueSample])
	o.NumberOfTissueSampleCollections = count(o.ids[TissueSampleCollection])
	o.Species = o.flushKey("species")
	o.Sex = o.flushKey("sex")
	o.Strains = o.flushKey("strains")
	o.GeneticStrainTypes = o.flushKey("geneticStrainTypes")
	o.Pathology = o.flushKey("pathology")
}

func (o *Overview) flushKey(key string) []*model.InternalReference {
	c := o.collected[key]
	if c == nil || len(c.order) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(c.order))
	for _, k := range c.order {
		r := c.refs[k]
		typeNames := make([]string, 0, len(c.kinds[k]))
		for t := range c.kinds[k] {
			typeNames = append(typeNames, t)
		}
		sort.Strings(typeNames)
		r.Count = nil
		for _, t := range typeNames {
			n := c.kinds[k][t].len()
			r.Count = append(r.Count, fmt.Sprintf("%d %s", n, normalizeTypeName(t, n > 1)))
		}
		result = append(result, r)
	}
	sortRefs(result)
	return result
}

func count(s *orderedSet) *model.Value[string] {
	if s.len() == 0 {
		return nil
	}
	return model.NewValue(strconv.Itoa(s.len()))
}

func normalizeTypeName(typeName string, plural bool) string {
	name := uncapitalize(typeName)
	if plural && !strings.HasSuffix(name, "s") {
		name += "s"
	}
	return name
}

func uncapitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToLower(string(r[0])) + string(r[1:])
}
