// Package model defines the source shapes read from the knowledge graph and the
// normalized target documents written to the search index.
//
// # Overview
//
// Source types mirror the JSON produced by the graph-query backend for each schema
// generation (V1/V2 and V3). Target types are the documents indexed for search.
// Every target value is wrapped: scalar values in Value, links to other documents
// in InternalReference and links to the outside world in ExternalReference.
//
// # Graceful decoding
//
// Pages returned by the graph backend are decoded field by field. A field that does
// not match its Go type is recorded as a warning against the owning instance and
// treated as absent:
//
//	page, err := model.DecodePage[model.DatasetVersionV3](body)
//	for id, warnings := range page.Errors {
//		logger.Warnf("%s: %v", id, warnings)
//	}
//
// # Related Packages
//
//   - pkg/translate: Converts source instances into target documents
//   - pkg/references: Prunes dangling internal references
package model
