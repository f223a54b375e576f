package search

import (
	"errors"
	"fmt"

	"github.com/platinummonkey/kgsearch/pkg/facets"
)

// Paging limits of a search request
const (
	DefaultSize = 20
	MaxSize     = 10000
)

// ErrInvalidRequest is returned for search parameters out of range
var ErrInvalidRequest = errors.New("invalid search request")

// Request is a faceted full text search
type Request struct {
	Query      string                      `json:"q,omitempty"`
	Type       string                      `json:"type,omitempty"`
	From       int                         `json:"from"`
	Size       int                         `json:"size"`
	Selections map[string]facets.Selection `json:"facets,omitempty"`
}

// Validate checks the paging of the request
func (r Request) Validate() error {
	if r.From < 0 {
		return fmt.Errorf("%w: from must not be negative", ErrInvalidRequest)
	}
	if r.Size < 0 || r.Size > MaxSize {
		return fmt.Errorf("%w: size must be between 0 and %d", ErrInvalidRequest, MaxSize)
	}
	if r.From+r.Size > MaxSize {
		return fmt.Errorf("%w: from + size must not exceed %d", ErrInvalidRequest, MaxSize)
	}
	return nil
}

// Payload builds the search engine request body of a search. tokens are the
// sanitized terms of the free text query.
func Payload(catalogue *facets.Catalogue, req Request, tokens []string) map[string]interface{} {
	list := catalogue.Facets(req.Type)
	filters := facets.ActiveFilters(list, req.Type, nil, req.Selections)

	payload := map[string]interface{}{
		"from":        req.From,
		"size":        req.Size,
		"post_filter": filters.Filter(""),
		"aggs":        facets.Aggregations(list, filters, req.Selections),
	}
	if highlight := Highlight(catalogue.HighlightFields(req.Type)); highlight != nil {
		payload["highlight"] = highlight
	}
	definition, _ := catalogue.Type(req.Type)
	payload["sort"] = Sort(definition, len(tokens) > 0)
	if query := FullTextQuery(PrepareQuery(tokens), catalogue.QueryFields(req.Type)); query != nil {
		payload["query"] = query
	}
	return payload
}

// FullTextQuery is the query_string clause of a prepared query, nil for an
// empty query
func FullTextQuery(q string, fields []string) facets.Clause {
	if q == "" {
		return nil
	}
	queryString := facets.Clause{
		"lenient":          true,
		"analyze_wildcard": true,
		"query":            q,
	}
	if len(fields) > 0 {
		queryString["fields"] = fields
	}
	return facets.Clause{"query_string": queryString}
}

// Highlight is the highlight clause of the given fields, nil without fields
func Highlight(fields []string) facets.Clause {
	if len(fields) == 0 {
		return nil
	}
	highlighted := make(facets.Clause, len(fields))
	for _, f := range fields {
		highlighted[f] = facets.Clause{}
	}
	return facets.Clause{"encoder": "html", "fields": highlighted}
}

// Sort orders hits by relevance for free text queries and relevance sorted
// types, by title otherwise
func Sort(definition *facets.TypeDefinition, freeText bool) []interface{} {
	if freeText || definition.RelevanceSorted() {
		return []interface{}{
			facets.Clause{"_score": facets.Clause{"order": "desc"}},
			facets.Clause{"trending": facets.Clause{"order": "desc", "missing": "_last", "unmapped_type": "boolean"}},
			facets.Clause{"releasedDateForSorting.value": facets.Clause{"order": "desc", "missing": "_last", "unmapped_type": "keyword"}},
		}
	}
	return []interface{}{
		facets.Clause{"title.value.keyword": facets.Clause{"order": "asc"}},
	}
}
