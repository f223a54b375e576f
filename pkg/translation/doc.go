// Package translation runs translators over the pages and single instances
// read from the KG, for indexing and for live previews.
package translation
