// Package translate converts the raw instances of the knowledge graph into the
// documents of the search index.
//
// Each source type has a Translator declaring the semantic types it reads, the
// stored queries returning them and the document type it produces. Runners
// erase the source type so that pages of raw JSON can be translated by name
// or semantic type through a Registry.
//
// A translation never aborts a page: problems found in an instance are
// recorded in its Utils and reported against its identifier, and a
// translator returns a nil document for instances which must not be indexed.
package translate
