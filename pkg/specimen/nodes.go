package specimen

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func (b *builder) translateSpecimen(k Kind, s *specimenNode, parent *specimenNode) *Data {
	d := newData(k.info().dataType)
	d.ID = model.UUIDOf(s.src.ID)
	d.Title = optional(s.src.InternalIdentifier)
	b.fillSpecimen(k, d, s, parent)
	switch k {
	case SubjectGroup:
		d.NumberOfSubjects = quantity(s.src.NumberOfSubjects)
	case TissueSampleCollection:
		d.TissueSamples = quantity(s.src.NumberOfTissueSamples)
	}

	if len(s.states) == 1 {
		fillState(k, d, s.states[0].src)
	} else if k == Subject {
		d.AgeCategory = ageCategories(s.states)
	}

	if k.isGroup() {
		var memberStates []*model.StudiedState
		for _, m := range b.partOf[s.src.ID] {
			for _, st := range m.states {
				memberStates = append(memberStates, st.src)
			}
		}
		if d.Age == nil {
			if r := aggregateRange(memberStates, stateAge, timeUnits); r != nil {
				d.Age = optional(r.DisplayString())
			}
		}
		if d.Weight == nil {
			if r := aggregateRange(memberStates, stateWeight, weightUnits); r != nil {
				d.Weight = optional(r.DisplayString())
			}
		}
	}
	return d
}

func (b *builder) translateState(k Kind, st *stateNode, stateLabel string) *Data {
	d := newData(k.info().dataType + "State")
	if k == SubjectGroup {
		d.Title = optional(st.parent.src.InternalIdentifier)
	} else {
		d.Title = optional(stateLabel)
	}
	b.fillSpecimen(k, d, st.parent, nil)
	fillState(k, d, st.src)
	return d
}

// fillSpecimen sets the fields describing the specimen itself, shared by the
// specimen node and the nodes of its states
func (b *builder) fillSpecimen(k Kind, d *Data, s *specimenNode, parent *specimenNode) {
	src := s.src
	d.ServiceLinks = serviceLinks(src.ServiceLinks, nil)
	d.Sex = refList(src.BiologicalSex)
	d.fillSpecies(src.Species)
	d.OtherPublications = b.otherPublications(s, parent)
	if k != TissueSampleCollection {
		d.AdditionalRemarks = optional(src.AdditionalRemarks)
	}
	if k == TissueSample || k == TissueSampleCollection {
		d.TissueSampleType = refOne(src.TissueSampleType)
		d.Origin = refOne(src.Origin)
		d.Laterality = refList(src.Laterality)
		if len(src.AnatomicalLocation) > 0 {
			locations := make([]*model.InternalReference, 0, len(src.AnatomicalLocation))
			for _, l := range src.AnatomicalLocation {
				locations = append(locations, l.Ref())
			}
			sortRefs(locations)
			d.AnatomicalLocation = locations
		}
	}
}

func fillState(k Kind, d *Data, state *model.StudiedState) {
	d.ServiceLinks = serviceLinks(state.ServiceLinks, d.ServiceLinks)
	if k == Subject {
		d.AdditionalRemarks = optional(state.AdditionalRemarks)
	} else {
		specimenRemarks := ""
		if d.AdditionalRemarks != nil {
			specimenRemarks = d.AdditionalRemarks.Value
		}
		d.AdditionalRemarks = mergeRemarks(specimenRemarks, state.AdditionalRemarks)
	}
	d.fillStateValues(state)
}

// ageCategories lists the age categories of all states, "Undefined" standing
// for states without one
func ageCategories(states []*stateNode) []*model.InternalReference {
	undefined := model.FullNameRef{FullName: "Undefined"}
	var all []model.FullNameRef
	seen := map[model.FullNameRef]struct{}{}
	add := func(c model.FullNameRef) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		all = append(all, c)
	}
	for _, st := range states {
		if len(st.src.AgeCategory) == 0 {
			add(undefined)
			continue
		}
		for _, c := range st.src.AgeCategory {
			if c == nil {
				add(undefined)
			} else {
				add(*c)
			}
		}
	}
	return refList(all)
}

// otherPublications lists the other datasets the specimen was used in. Datasets
// using the parent group count too unless they list the members of the group
// individually.
func (b *builder) otherPublications(s *specimenNode, parent *specimenNode) []*model.InternalReference {
	var related []model.RelatedProduct
	if parent != nil {
		for _, r := range parent.src.UsedInDatasets {
			if len(r.GroupsWithIndividualSubElementSpecification) == 0 || !contains(r.GroupsWithIndividualSubElementSpecification, parent.src.ID) {
				related = append(related, r)
			}
		}
	}
	related = append(related, s.src.UsedInDatasets...)

	context := &model.ReferenceContext{Tab: "Specimen", ID: model.UUIDOf(s.src.ID)}
	seen := map[string]struct{}{}
	var result []*model.InternalReference
	for _, r := range related {
		if r.ID == "" || r.ID == b.datasetVersionID || blank(r.DOI) {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ref := model.NewReference(model.UUIDOf(r.ID), model.StripDOIPrefix(r.DOI))
		ref.Context = context
		result = append(result, ref)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result
}

// flushSpecimen completes the data of a group once its members are known
func (b *builder) flushSpecimen(k Kind, s *specimenNode, d *Data, el *model.HierarchyElement) {
	if !k.isGroup() {
		return
	}
	members := 0
	for _, c := range el.Children {
		if c.ParentRelationType == RelationPartOf {
			members++
		}
	}
	switch k {
	case SubjectGroup:
		if n := s.src.NumberOfSubjects; n != nil && members > 0 && int64(members) != *n {
			d.NumberOfSubjects = model.NewValue(fmt.Sprintf("%d of %d used in this dataset", members, *n))
		}
	case TissueSampleCollection:
		if n := s.src.NumberOfTissueSamples; n != nil && members > 0 && int64(members) != *n {
			d.TissueSamples = model.NewValue(fmt.Sprintf("total: %d, used in this dataset: %d", *n, members))
		}
	}
}

func quantity(n *int64) *model.Value[string] {
	if n == nil {
		return nil
	}
	return model.NewValue(strconv.FormatInt(*n, 10))
}
