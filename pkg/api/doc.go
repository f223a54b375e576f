// Package api is the REST layer of the search service.
//
// Routes:
//
//	GET          /api/settings
//	GET          /api/auth/endpoint
//	GET          /api/groups
//	GET          /api/sitemap
//	GET          /api/citation?doi&style&contentType
//	GET|PUT|DELETE /api/citation/cache                          (administrators)
//	GET|POST     /api/groups/{group}/search
//	GET          /api/groups/{group}/documents/{id}
//	GET          /api/groups/{group}/documents/{type}/{id}
//	GET          /api/groups/{group}/repositories/{id}/files[/formats|/groupingTypes]
//	GET          /api/{id}/live?skipReferenceCheck
//	GET          /api/{org}/{domain}/{schema}/{version}/{id}/live
//	POST|PUT|DELETE /api/{id}/bookmark
//	GET          /health/live, /health/ready, /metrics
//
// The curated group is reserved to callers holding an in-progress role.
package api
