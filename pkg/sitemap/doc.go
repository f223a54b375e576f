// Package sitemap publishes the sitemap of the released search documents.
//
// The sitemap is generated from the released search indices, cached, and
// refreshed daily by a cron schedule. An empty sitemap is never cached.
package sitemap
