// Package citation turns DOIs into formatted citations.
//
// EBRAINS DOIs are looked up at DataCite first. Every other DOI, and every
// EBRAINS DOI DataCite cannot answer, goes through the DOI resolver with
// content negotiation. Results are cached in memory and, when a redis store
// is configured, shared between replicas.
package citation
