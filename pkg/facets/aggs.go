package facets

const typeField = "type.value"

// Aggregation names of the facet aggregations
const (
	AggKeywords = "keywords"
	AggTotal    = "total"
	AggInner    = "inner"
	AggReverse  = "reverse"
)

// Aggregations builds one aggregation per facet plus the type aggregation.
// Each facet aggregation is filtered by every active clause but its own.
func Aggregations(facets []Facet, filters *Filters, selections map[string]Selection) map[string]interface{} {
	aggs := make(map[string]interface{}, len(facets)+1)
	for _, facet := range facets {
		aggs[facet.Name] = Clause{
			"filter": filters.Filter(facet.Name),
			"aggs":   facetAggs(facet, selections[facet.Name].Size),
		}
	}
	aggs[TypeFacet] = Clause{
		"filter": filters.Filter(TypeFacet),
		"aggs": Clause{
			AggKeywords: Clause{"terms": Clause{"field": typeField, "size": 50}},
			AggTotal:    Clause{"cardinality": Clause{"field": typeField}},
		},
	}
	return aggs
}

func facetAggs(facet Facet, size int) Clause {
	if size <= 0 {
		size = facet.Size
	}
	switch {
	case facet.Kind == KindExists:
		return Clause{AggTotal: Clause{"filter": Clause{"exists": Clause{"field": facet.ValueField()}}}}
	case facet.Hierarchical():
		parent := leafAggs(keyword(facet.Parent), facet.Order, size)
		parent[AggKeywords].(Clause)["aggs"] = leafAggs(facet.KeywordField(), facet.Order, size)
		return parent
	case facet.Nested():
		inner := leafAggs(facet.KeywordField(), facet.Order, size)
		inner[AggKeywords].(Clause)["aggs"] = Clause{AggReverse: Clause{"reverse_nested": Clause{}}}
		return Clause{AggInner: Clause{
			"nested": Clause{"path": facet.Path},
			"aggs":   inner,
		}}
	}
	return leafAggs(facet.KeywordField(), facet.Order, size)
}

func leafAggs(field string, order Order, size int) Clause {
	terms := Clause{"field": field}
	if order == OrderByValue {
		terms["order"] = Clause{"_key": "asc"}
	} else {
		terms["order"] = Clause{"_count": "desc"}
	}
	if size > 0 {
		terms["size"] = size
	}
	return Clause{
		AggKeywords: Clause{"terms": terms},
		AggTotal:    Clause{"cardinality": Clause{"field": field}},
	}
}
