// Package indexing populates the search indices from the KG.
//
// For every target type, the job pages through the stored queries of each
// translator producing it, translates the pages and writes the documents in
// bulk. References to documents unknown to the identifiers index when the
// run started are cleared first. Documents which were not produced by the
// run are removed afterwards.
//
// Searchable documents go to the search index of their type, every document
// goes to the identifiers index. Auto released types, such as files, have an
// index of their own.
package indexing
