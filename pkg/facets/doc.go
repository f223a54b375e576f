// Package facets holds the search catalogue of the document types and builds
// the filter and aggregation clauses of faceted searches.
//
// The catalogue is embedded YAML describing, per type, its facets and the
// search metadata of its fields: boosts, highlighting, visibility and
// suggestion. A facet's own aggregation ignores the facet's own selection,
// so the caller can see the counts of the values they did not pick.
package facets
