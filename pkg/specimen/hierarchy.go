package specimen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

type specimenNode struct {
	src      *model.StudiedSpecimen
	isPartOf []string
	states   []*stateNode
}

type stateNode struct {
	src           *model.StudiedState
	descendedFrom []string
	parent        *specimenNode
}

type builder struct {
	datasetVersionID string
	report           func(string)
	newKey           func() string

	partOf      map[string][]*specimenNode
	descendants map[string][]*stateNode
	handled     []string
	overview    *Overview
}

// Option customizes Build
type Option func(*builder)

// WithKeyGenerator replaces the random node key generator
func WithKeyGenerator(f func() string) Option {
	return func(b *builder) { b.newKey = f }
}

// Build renders the specimens studied by a dataset version as a tree. report
// receives the problems found in the source data such as reference cycles; it
// may be nil. Build returns nil when there are no specimens.
func Build(datasetVersionID string, specimens []model.StudiedSpecimen, report func(string), opts ...Option) (*model.HierarchyElement, *Overview) {
	if len(specimens) == 0 {
		return nil, nil
	}
	b := &builder{
		datasetVersionID: datasetVersionID,
		report:           report,
		newKey:           uuid.NewString,
		partOf:           map[string][]*specimenNode{},
		descendants:      map[string][]*stateNode{},
		overview:         newOverview(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.report == nil {
		b.report = func(string) {}
	}

	stated := make([]*specimenNode, 0, len(specimens))
	for i := range specimens {
		stated = append(stated, &specimenNode{src: &specimens[i]})
	}
	b.collect(stated)

	root := &model.HierarchyElement{Key: RootKey, Title: RootTitle, Color: RootColor}
	for _, s := range stated {
		if len(s.isPartOf) > 0 || hasForeignAncestors(s) {
			continue
		}
		if el := b.specimenElement(s, false, "", nil); el != nil {
			root.Children = append(root.Children, el)
		}
	}
	sortByTitle(root.Children)
	root.Legend = collectLegend(root)
	b.overview.flush()
	root.Data = b.overview
	return root, b.overview
}

// collect resolves the working set of specimens and their relations. Members of
// a group are included implicitly unless one of them is stated explicitly, in
// which case the stated members are taken as a deliberate subselection.
func (b *builder) collect(stated []*specimenNode) {
	explicit := map[string]struct{}{}
	byID := map[string]*specimenNode{}
	for _, s := range stated {
		explicit[s.src.ID] = struct{}{}
		if _, ok := byID[s.src.ID]; !ok {
			byID[s.src.ID] = s
		}
	}
	collected := append([]*specimenNode{}, stated...)
	for _, s := range stated {
		if len(s.src.SubElements) == 0 || anyStated(s.src.SubElements, explicit) {
			continue
		}
		for _, sub := range s.src.SubElements {
			if sub == nil {
				continue
			}
			if _, ok := byID[sub.ID]; ok {
				continue
			}
			n := &specimenNode{src: sub}
			byID[sub.ID] = n
			collected = append(collected, n)
		}
	}

	stateIDs := map[string]struct{}{}
	for _, s := range collected {
		for _, p := range s.src.IsPartOf {
			if _, ok := explicit[p]; ok {
				s.isPartOf = append(s.isPartOf, p)
			}
		}
		for _, st := range s.src.StudiedState {
			if st != nil {
				stateIDs[st.ID] = struct{}{}
			}
		}
	}
	var allStates []*stateNode
	for _, s := range collected {
		for _, st := range s.src.StudiedState {
			if st == nil {
				continue
			}
			n := &stateNode{src: st, parent: s}
			for _, d := range st.DescendedFrom {
				if _, ok := stateIDs[d]; ok {
					n.descendedFrom = append(n.descendedFrom, d)
				}
			}
			s.states = append(s.states, n)
			allStates = append(allStates, n)
		}
	}

	for _, st := range allStates {
		if _, ok := b.descendants[st.src.ID]; ok {
			continue
		}
		var desc []*stateNode
		for _, candidate := range allStates {
			if contains(candidate.descendedFrom, st.src.ID) {
				desc = append(desc, candidate)
			}
		}
		b.descendants[st.src.ID] = desc
	}
	for _, s := range collected {
		if _, ok := b.partOf[s.src.ID]; ok {
			continue
		}
		var members []*specimenNode
		for _, candidate := range collected {
			if contains(candidate.isPartOf, s.src.ID) {
				members = append(members, candidate)
			}
		}
		b.partOf[s.src.ID] = members
	}
}

func anyStated(subElements []*model.StudiedSpecimen, explicit map[string]struct{}) bool {
	for _, sub := range subElements {
		if sub == nil {
			continue
		}
		if _, ok := explicit[sub.ID]; ok {
			return true
		}
	}
	return false
}

// hasForeignAncestors reports whether a state descends from the state of another specimen
func hasForeignAncestors(s *specimenNode) bool {
	own := map[string]struct{}{}
	for _, st := range s.states {
		own[st.src.ID] = struct{}{}
	}
	for _, st := range s.states {
		for _, d := range st.descendedFrom {
			if _, ok := own[d]; !ok {
				return true
			}
		}
	}
	return false
}

func (b *builder) enter(id string) bool {
	u := model.UUIDOf(id)
	for _, h := range b.handled {
		if h == u {
			b.report(fmt.Sprintf("Circular reference detected - breaking at instance %s", u))
			return false
		}
	}
	b.handled = append(b.handled, u)
	return true
}

func (b *builder) leave() {
	b.handled = b.handled[:len(b.handled)-1]
}

func (b *builder) specimenElement(s *specimenNode, attachRoot bool, relation string, parent *specimenNode) *model.HierarchyElement {
	if !b.enter(s.src.ID) {
		return nil
	}
	defer b.leave()

	el := &model.HierarchyElement{Key: b.newKey(), ParentRelationType: relation}
	k, known := kindOfSpecimen(s.src.Type)
	var data *Data
	if known {
		el.Color = k.info().specimenColor
		el.Title = label(k, s)
		data = b.translateSpecimen(k, s, parent)
		b.overview.aggregate(k, model.UUIDOf(s.src.ID), data)
	}

	var children []*model.HierarchyElement
	for _, member := range b.partOf[s.src.ID] {
		if c := b.specimenElement(member, false, RelationPartOf, s); c != nil {
			children = append(children, c)
		}
	}
	if !attachRoot {
		if len(s.states) == 1 {
			if single := b.stateElement(s.states[0], false, 0, RelationDescendentFrom); single != nil {
				el = merge(el, single, &children)
			}
		} else {
			for idx, st := range rootStates(s) {
				if c := b.stateElement(st, false, idx, RelationDescendentFrom); c != nil {
					children = append(children, c)
				}
			}
		}
	}
	sortByTitle(children)
	el.Children = children
	if known {
		b.flushSpecimen(k, s, data, el)
		el.Data = data
	}
	return el
}

// rootStates are the states of a specimen not descending from one of its own states
func rootStates(s *specimenNode) []*stateNode {
	own := map[string]struct{}{}
	for _, st := range s.states {
		own[st.src.ID] = struct{}{}
	}
	var result []*stateNode
	for _, st := range s.states {
		internal := false
		for _, d := range st.descendedFrom {
			if _, ok := own[d]; ok {
				internal = true
				break
			}
		}
		if !internal {
			result = append(result, st)
		}
	}
	return result
}

func (b *builder) stateElement(st *stateNode, attachRoot bool, order int, relation string) *model.HierarchyElement {
	if !b.enter(st.src.ID) {
		return nil
	}
	defer b.leave()

	el := &model.HierarchyElement{Key: b.newKey(), ParentRelationType: relation}
	k, known := kindOfState(st.src.Type)
	if !known {
		return el
	}
	el.Color = k.info().stateColor
	stateLabel := "State " + letters(order)
	if attachRoot && st.parent != nil {
		stateLabel = fullStateLabel(k, stateLabel, st.parent)
	}
	el.Title = stateLabel
	el.Data = b.translateState(k, st, stateLabel)

	desc := b.descendants[st.src.ID]
	enclosed := b.fullyEnclosed(desc)
	enclosedStates := map[*stateNode]struct{}{}
	var children []*model.HierarchyElement
	for _, s := range enclosed {
		for _, es := range s.states {
			enclosedStates[es] = struct{}{}
		}
		if c := b.specimenElement(s, false, RelationDescendentFrom, nil); c != nil {
			children = append(children, c)
		}
	}
	idx := 0
	for _, d := range desc {
		if _, ok := enclosedStates[d]; ok {
			continue
		}
		same := st.parent != nil && d.parent != nil && st.parent.src.ID == d.parent.src.ID
		o := idx
		if same {
			o = idx + order + 1
		}
		if c := b.stateElement(d, !same, o, RelationDescendentFrom); c != nil {
			children = append(children, c)
		}
		idx++
	}
	if attachRoot && st.parent != nil {
		if p := b.specimenElement(st.parent, true, RelationPartOf, nil); p != nil {
			if len(st.parent.states) == 1 {
				el = merge(p, el, &children)
			} else {
				children = append(children, p)
			}
		}
	}
	sortByTitle(children)
	el.Children = children
	return el
}

// fullyEnclosed returns the specimens all of whose states descend from the
// given states, directly or through another state of the same specimen
func (b *builder) fullyEnclosed(desc []*stateNode) []*specimenNode {
	included := map[*specimenNode]map[*stateNode]struct{}{}
	for _, d := range desc {
		if d.parent == nil {
			continue
		}
		closure := map[string]struct{}{d.src.ID: {}}
		for grown := true; grown; {
			grown = false
			for _, sibling := range d.parent.states {
				if _, ok := closure[sibling.src.ID]; ok {
					continue
				}
				for _, from := range sibling.descendedFrom {
					if _, ok := closure[from]; ok {
						closure[sibling.src.ID] = struct{}{}
						grown = true
						break
					}
				}
			}
		}
		if included[d.parent] == nil {
			included[d.parent] = map[*stateNode]struct{}{}
		}
		for _, sibling := range d.parent.states {
			if _, ok := closure[sibling.src.ID]; ok {
				included[d.parent][sibling] = struct{}{}
			}
		}
	}
	var result []*specimenNode
	seen := map[*specimenNode]struct{}{}
	for _, d := range desc {
		p := d.parent
		if p == nil {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		if len(included[p]) == len(p.states) {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

// merge folds child into a copy of parent, moving the children of both into children
func merge(parent, child *model.HierarchyElement, children *[]*model.HierarchyElement) *model.HierarchyElement {
	el := &model.HierarchyElement{
		Key:                parent.Key,
		Title:              parent.Title,
		Color:              parent.Color,
		Data:               parent.Data,
		ParentRelationType: parent.ParentRelationType,
	}
	for _, c := range append(append([]*model.HierarchyElement{}, parent.Children...), child.Children...) {
		if !containsElement(*children, c) {
			*children = append(*children, c)
		}
	}
	return el
}

func containsElement(elements []*model.HierarchyElement, e *model.HierarchyElement) bool {
	for _, x := range elements {
		if x == e {
			return true
		}
	}
	return false
}

func sortByTitle(elements []*model.HierarchyElement) {
	sort.SliceStable(elements, func(i, j int) bool { return elements[i].Title < elements[j].Title })
}

func collectLegend(root *model.HierarchyElement) model.Legend {
	labels := map[string]string{}
	var walk func(e *model.HierarchyElement)
	walk = func(e *model.HierarchyElement) {
		if e.Color != "" {
			if _, ok := labels[e.Color]; !ok {
				labels[e.Color] = labelForColor(e.Color)
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, c := range root.Children {
		walk(c)
	}
	legend := make(model.Legend, 0, len(labels))
	for color, l := range labels {
		legend = append(legend, model.LegendEntry{Color: color, Label: l})
	}
	sort.Slice(legend, func(i, j int) bool {
		if legend[i].Label != legend[j].Label {
			return legend[i].Label < legend[j].Label
		}
		return legend[i].Color < legend[j].Color
	})
	return legend
}

// label is "<prefix> <internal identifier>", falling back to the lookup label
func label(k Kind, s *specimenNode) string {
	name := strings.TrimSpace(s.src.InternalIdentifier)
	if name == "" {
		name = s.src.LookupLabel
	}
	return fmt.Sprintf("%s %s", k.Prefix(), name)
}

// fullStateLabel renders "State A of subject 12"
func fullStateLabel(k Kind, stateLabel string, parent *specimenNode) string {
	name := strings.TrimSpace(parent.src.InternalIdentifier)
	if name == "" {
		name = label(k, parent)
	}
	return fmt.Sprintf("%s of %s", stateLabel, uncapitalize(name))
}

// letters names state positions A..Z, AA, AB...
func letters(index int) string {
	var s []byte
	for index >= 0 {
		s = append([]byte{byte('A' + index%26)}, s...)
		index = index/26 - 1
	}
	return string(s)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
