// Package config loads the settings of the search service and the indexer
// from KGSEARCH_* environment variables.
//
// Main variables:
//
//	KGSEARCH_PORT="8080"
//	KGSEARCH_KG_ENDPOINT="https://core.kg.ebrains.eu/v3"
//	KGSEARCH_KG_CLIENT_ID / KGSEARCH_KG_CLIENT_SECRET    # service account
//	KGSEARCH_ELASTIC_URL="http://localhost:9200"
//	KGSEARCH_OIDC_ISSUER="https://iam.ebrains.eu/auth/realms/hbp"
//	KGSEARCH_REDIS_URL="redis://localhost:6379/0"        # shared citation cache
//	KGSEARCH_SITEMAP_BASE_URL="https://search.kg.ebrains.eu"
//	KGSEARCH_INDEXING_STAGES="RELEASED,IN_PROGRESS"
//	KGSEARCH_INDEXING_SCHEDULE="0 3 * * *"
//	KGSEARCH_OTEL_ENABLED="true"
//
// The indexer command reads the same variables through viper, so they can
// also come from flags or a YAML file.
package config
