// Package references keeps the internal references of documents pointing at
// documents which exist.
//
// Before a batch is indexed, ClearNonResolvable empties every reference whose
// target is missing from a Snapshot of the identifiers index. For live
// previews, Live resolves each target against the graph instead and clears
// the ones which cannot be translated. In both cases the label of the
// reference is kept.
package references
