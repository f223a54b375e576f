// Package elastic is a small client of the Elasticsearch REST API covering
// what the search service and the indexing job need: searching with
// aggregations and suggestions, scrolling ids with search_after, bulk
// indexing and index management.
//
// Index names are derived from the stage and the document type, see
// SearchIndex, AutoReleasedIndex and IdentifiersIndex.
package elastic
