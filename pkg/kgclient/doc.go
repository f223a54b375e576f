// Package kgclient is the HTTP client of the KG core API.
//
// Indexing reads run as the service account, authenticated with the OAuth2
// client credentials flow, and are retried with a quadratic backoff: a page
// which still fails after the last attempt is reported absent so the
// indexing job can skip it. Previews, invitations and bookmarks run on behalf
// of the caller whose bearer token travels in the request context.
package kgclient
