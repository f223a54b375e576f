// Package search answers faceted full text searches over the indexed
// documents.
//
// # Overview
//
// A search request carries a free text query, a document type, paging and
// the facet values the caller selected. The query is sanitized into tokens
// of the structured query syntax, the request body is built from the facet
// catalogue, and the raw search engine answer is rendered into hits, facet
// results, hit counts per type and query suggestions.
//
// # Query Syntax
//
// Terms are matched as prefixes. AND, OR and NOT (or && and ||) combine
// terms:
//
//	search?q=mouse and cortex
//	search?q=hippocampus not rat
//
// Reserved characters are escaped, so a query can never be rejected by the
// search engine.
//
// # Facets
//
// Selected values of an additive facet widen the result, selected values of
// an exclusive facet narrow it. Facet counts are computed with every filter
// but the facet's own, and the hit list is filtered with all of them.
//
// # Documents
//
// Documents are read by id or alias identifier and rendered with the fields
// the catalogue marks visible. Freshly translated instances are rendered
// with all of their fields.
package search
