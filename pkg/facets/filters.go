package facets

// Selection is the choice of the caller on one facet
type Selection struct {
	Values []string `json:"values,omitempty"`
	Size   int      `json:"size,omitempty"`
}

// Clause is one query clause of the search engine DSL
type Clause = map[string]interface{}

// IDsFilter is the name of the clause restricting hits to given ids
const IDsFilter = "id_filter"

// Filters holds the active filter clauses by facet name, in the order they
// were selected
type Filters struct {
	order   []string
	clauses map[string][]Clause
}

// ActiveFilters builds the clauses of the type, the ids and every selected
// facet. An additive list facet yields one clause, an exclusive one yields a
// clause per value that must all hold.
func ActiveFilters(facets []Facet, docType string, ids []string, selections map[string]Selection) *Filters {
	f := &Filters{clauses: map[string][]Clause{}}
	if docType != "" {
		f.add(TypeFacet, Term("type.value", docType))
	}
	if len(ids) > 0 {
		terms := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			terms = append(terms, Term("id", id))
		}
		f.add(IDsFilter, Clause{"bool": Clause{"should": terms}})
	}
	for _, facet := range facets {
		selection, ok := selections[facet.Name]
		if !ok {
			continue
		}
		switch facet.Kind {
		case KindList:
			if len(selection.Values) == 0 {
				continue
			}
			if facet.Exclusive {
				for _, v := range selection.Values {
					f.add(facet.Name, facetTerm(facet, v))
				}
			} else if len(selection.Values) == 1 {
				f.add(facet.Name, facetTerm(facet, selection.Values[0]))
			} else {
				should := make([]interface{}, 0, len(selection.Values))
				for _, v := range selection.Values {
					should = append(should, facetTerm(facet, v))
				}
				f.add(facet.Name, Clause{"bool": Clause{"should": should}})
			}
		case KindExists:
			f.add(facet.Name, Clause{"exists": Clause{"field": facet.ValueField()}})
		}
	}
	return f
}

func (f *Filters) add(name string, c Clause) {
	if _, ok := f.clauses[name]; !ok {
		f.order = append(f.order, name)
	}
	f.clauses[name] = append(f.clauses[name], c)
}

// Names returns the names of the active filters
func (f *Filters) Names() []string { return f.order }

// Clauses returns the clauses of one active filter
func (f *Filters) Clauses(name string) []Clause { return f.clauses[name] }

// Filter combines every active clause except the ones of skip: several
// clauses must all hold, a single one is returned as is and none matches
// everything.
func (f *Filters) Filter(skip string) Clause {
	var all []interface{}
	for _, name := range f.order {
		if name == skip {
			continue
		}
		for _, c := range f.clauses[name] {
			all = append(all, c)
		}
	}
	switch len(all) {
	case 0:
		return Clause{"match_all": Clause{}}
	case 1:
		return all[0].(Clause)
	}
	return Clause{"bool": Clause{"must": all}}
}

// Term is a term clause
func Term(field string, value interface{}) Clause {
	return Clause{"term": Clause{field: value}}
}

func facetTerm(facet Facet, value string) Clause {
	term := Term(facet.KeywordField(), value)
	if facet.Nested() {
		return Clause{"nested": Clause{"path": facet.Path, "query": term}}
	}
	return term
}
